// package formatter renders favorites exports to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

// Format is an export output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat maps user input to a [Format]. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// ExportToCSV converts a FavoritesExport to CSV with columns: ID, Title, Year, Runtime, Rating, Genres, Directors, Trailer
func ExportToCSV(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Runtime", "Rating", "Genres", "Directors", "Trailer"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range export.Movies {
		d := rec.Detail
		record := []string{
			strconv.Itoa(d.ID),
			d.Title,
			d.Year(),
			strconv.Itoa(d.Runtime),
			strconv.FormatFloat(d.VoteAverage, 'f', 1, 64),
			strings.Join(d.GenreNames(), "; "),
			strings.Join(rec.Directors, "; "),
			rec.Trailer,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FavoritesExport to Markdown.
//
// posters maps movie ids to poster file names relative to the document; movies without an entry are rendered without an image.
func ExportToMarkdown(export *models.FavoritesExport, posters map[int]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Favorites\n\n")
	fmt.Fprintf(&buf, "**Movies**: %d\n", len(export.Movies))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.UTC().Format(time.RFC3339))
	}
	buf.WriteString("\n")

	for i, rec := range export.Movies {
		d := rec.Detail
		fmt.Fprintf(&buf, "## %d. %s", i+1, d.Title)
		if y := d.Year(); y != "" {
			fmt.Fprintf(&buf, " (%s)", y)
		}
		buf.WriteString("\n\n")

		if poster, ok := posters[d.ID]; ok {
			fmt.Fprintf(&buf, "![Poster](%s)\n\n", poster)
		}
		if d.Tagline != "" {
			fmt.Fprintf(&buf, "> %s\n\n", d.Tagline)
		}

		fmt.Fprintf(&buf, "- **Rating**: %.1f (%d votes)\n", d.VoteAverage, d.VoteCount)
		if rt := shared.FormatRuntime(d.Runtime); rt != "" {
			fmt.Fprintf(&buf, "- **Runtime**: %s\n", rt)
		}
		if genres := d.GenreNames(); len(genres) > 0 {
			fmt.Fprintf(&buf, "- **Genres**: %s\n", strings.Join(genres, ", "))
		}
		if len(rec.Directors) > 0 {
			fmt.Fprintf(&buf, "- **Director**: %s\n", strings.Join(rec.Directors, ", "))
		}
		if len(rec.Cast) > 0 {
			fmt.Fprintf(&buf, "- **Cast**: %s\n", strings.Join(rec.Cast, ", "))
		}
		if rec.Trailer != "" {
			fmt.Fprintf(&buf, "- **Trailer**: [Watch](%s)\n", rec.Trailer)
		}

		if d.Overview != "" {
			fmt.Fprintf(&buf, "\n%s\n", d.Overview)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FavoritesExport to plain text format
func ExportToText(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Favorites: %d\n\n", len(export.Movies))

	for i, rec := range export.Movies {
		d := rec.Detail
		line := fmt.Sprintf("%d. %s", i+1, d.Title)
		if y := d.Year(); y != "" {
			line += fmt.Sprintf(" (%s)", y)
		}
		if len(rec.Directors) > 0 {
			line += " - " + strings.Join(rec.Directors, ", ")
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the full export as indented JSON.
func ExportToJSON(export *models.FavoritesExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// SavePoster downloads url into dir as {movieID}.jpg and returns the written path.
func SavePoster(url, dir string, movieID int) (string, error) {
	data, err := DownloadImage(url)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create poster directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.jpg", movieID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save poster: %w", err)
	}
	return path, nil
}

// FileName returns the file an export in format is written to.
func FileName(format Format) string {
	switch format {
	case FormatCSV:
		return "favorites.csv"
	case FormatMarkdown:
		return "README.md"
	case FormatText:
		return "favorites.txt"
	default:
		return "favorites.json"
	}
}

// WriteExport renders export in format and writes it into outputDir, returning the written path.
//
// posters is only used by [FormatMarkdown]; its values should be relative to outputDir.
func WriteExport(export *models.FavoritesExport, format Format, outputDir string, posters map[int]string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(export)
	case FormatMarkdown:
		data, err = ExportToMarkdown(export, posters)
	case FormatText:
		data, err = ExportToText(export)
	case FormatJSON:
		data, err = ExportToJSON(export)
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(outputDir, FileName(format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

// ManifestEntry is the outcome for one movie in an export.
type ManifestEntry struct {
	MovieID int    `json:"movieId"`
	Title   string `json:"title,omitempty"`
	Success bool   `json:"success"`
	Poster  string `json:"poster,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Manifest summarises an export run.
type Manifest struct {
	ExportedAt  time.Time       `json:"exportedAt"`
	Format      Format          `json:"format"`
	TotalMovies int             `json:"totalMovies"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	Files       []string        `json:"files"`
	Movies      []ManifestEntry `json:"movies"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
