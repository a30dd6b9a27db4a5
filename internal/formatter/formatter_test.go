package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
	th "github.com/desertthunder/worlder/internal/testing"
)

func sampleExport() *models.FavoritesExport {
	return &models.FavoritesExport{
		UserID:     "uid-1",
		ExportedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Movies: []models.MovieRecord{
			{
				Detail: models.MovieDetail{
					Movie: models.Movie{
						ID:          550,
						Title:       "Fight Club",
						Overview:    "An insomniac office worker...",
						ReleaseDate: "1999-10-15",
						VoteAverage: 8.433,
						VoteCount:   26280,
					},
					Genres:  []models.Genre{{ID: 18, Name: "Drama"}, {ID: 53, Name: "Thriller"}},
					Runtime: 139,
					Tagline: "Mischief. Mayhem. Soap.",
				},
				Directors: []string{"David Fincher"},
				Cast:      []string{"Edward Norton", "Brad Pitt"},
				Trailer:   "https://www.youtube.com/watch?v=qtRKdVHc-cE",
			},
			{
				Detail: models.MovieDetail{
					Movie: models.Movie{ID: 13, Title: "Untitled, Project"},
				},
				Directors: []string{},
				Cast:      []string{},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		input string
		want  Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"CSV", FormatCSV},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"txt", FormatText},
		{" text ", FormatText},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines: %s", len(lines), data)
		}
		if lines[0] != "ID,Title,Year,Runtime,Rating,Genres,Directors,Trailer" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "550,Fight Club,1999,139,8.4,Drama; Thriller,David Fincher,https://www.youtube.com/watch?v=qtRKdVHc-cE" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.HasPrefix(lines[2], `13,"Untitled, Project",`) {
			t.Errorf("expected quoted title in second row, got: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("Without Posters", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), nil)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Favorites",
				"**Movies**: 2",
				"**Exported**: 2024-05-01T12:00:00Z",
				"## 1. Fight Club (1999)",
				"> Mischief. Mayhem. Soap.",
				"- **Rating**: 8.4 (26280 votes)",
				"- **Runtime**: 2h 19m",
				"- **Genres**: Drama, Thriller",
				"- **Director**: David Fincher",
				"- **Cast**: Edward Norton, Brad Pitt",
				"- **Trailer**: [Watch](https://www.youtube.com/watch?v=qtRKdVHc-cE)",
				"## 2. Untitled, Project\n",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q", want)
				}
			}
			if strings.Contains(output, "![Poster]") {
				t.Error("Markdown should not reference posters")
			}
		})

		t.Run("With Posters", func(t *testing.T) {
			data, _ := ExportToMarkdown(sampleExport(), map[int]string{550: "posters/550.jpg"})
			if !strings.Contains(string(data), "![Poster](posters/550.jpg)") {
				t.Errorf("Markdown missing poster reference:\n%s", data)
			}
			if strings.Count(string(data), "![Poster]") != 1 {
				t.Error("expected exactly one poster")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		want := "Favorites: 2\n\n1. Fight Club (1999) - David Fincher\n2. Untitled, Project\n"
		if string(data) != want {
			t.Errorf("ExportToText() = %q, want %q", data, want)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.FavoritesExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.UserID != "uid-1" || len(decoded.Movies) != 2 || decoded.Movies[0].Detail.Title != "Fight Club" {
			t.Errorf("unexpected decoded export %+v", decoded)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	t.Run("Success", func(t *testing.T) {
		data, err := DownloadImage(server.URL + "/poster.jpg")
		if err != nil || string(data) != "jpeg-bytes" {
			t.Errorf("unexpected result %q, %v", data, err)
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := DownloadImage(server.URL + "/missing.jpg")
		if err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status error, got %v", err)
		}
	})

	t.Run("SavePoster", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "posters")
		path, err := SavePoster(server.URL+"/poster.jpg", dir, 550)
		if err != nil {
			t.Fatalf("SavePoster failed: %v", err)
		}
		if path != filepath.Join(dir, "550.jpg") {
			t.Errorf("unexpected path %s", path)
		}
		if th.MustReadFile(t, path) != "jpeg-bytes" {
			t.Error("poster content mismatch")
		}
	})
}

func TestWriteExport(t *testing.T) {
	tc := []struct {
		format Format
		file   string
		want   string
	}{
		{FormatJSON, "favorites.json", `"title": "Fight Club"`},
		{FormatCSV, "favorites.csv", "ID,Title,Year"},
		{FormatMarkdown, "README.md", "# Favorites"},
		{FormatText, "favorites.txt", "Favorites: 2"},
	}

	for _, tt := range tc {
		t.Run(string(tt.format), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "export")
			path, err := WriteExport(sampleExport(), tt.format, dir, nil)
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}

			th.AssertDirExists(t, dir)
			if path != filepath.Join(dir, tt.file) {
				t.Errorf("expected %s, got %s", tt.file, path)
			}
			if content := th.MustReadFile(t, path); !strings.Contains(content, tt.want) {
				t.Errorf("expected %q in %s", tt.want, content)
			}
		})
	}

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := WriteExport(sampleExport(), Format("xml"), t.TempDir(), nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Unwritable Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteExport(sampleExport(), FormatJSON, filepath.Join(file, "sub"), nil); err == nil {
			t.Error("expected error when output dir is under a file")
		}
	})
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export_manifest.json")
	m := &Manifest{
		Format:      FormatCSV,
		TotalMovies: 2,
		Successful:  1,
		Failed:      1,
		Files:       []string{"favorites.csv"},
		Movies: []ManifestEntry{
			{MovieID: 550, Title: "Fight Club", Success: true},
			{MovieID: 1, Success: false, Error: "not found"},
		},
	}

	if err := WriteManifest(m, path); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	th.AssertFileExists(t, path)
	var decoded Manifest
	if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &decoded); err != nil {
		t.Fatalf("invalid manifest JSON: %v", err)
	}
	if decoded.Format != FormatCSV || decoded.Failed != 1 || decoded.Movies[1].Error != "not found" {
		t.Errorf("unexpected manifest %+v", decoded)
	}
}
