package models

import "time"

// MovieRecord is a favorite movie together with the detail fetched for it.
type MovieRecord struct {
	Detail    MovieDetail `json:"detail"`
	Directors []string    `json:"directors"`
	Cast      []string    `json:"cast"`
	Trailer   string      `json:"trailer,omitempty"`
}

// recordCastSize caps the number of billed performers kept on a record.
const recordCastSize = 5

// NewMovieRecord assembles a record from a detail fetch. credits and videos may be nil.
func NewMovieRecord(detail MovieDetail, credits *Credits, videos *VideosResponse) MovieRecord {
	rec := MovieRecord{Detail: detail, Directors: []string{}, Cast: []string{}}

	if credits != nil {
		if d := credits.Directors(); d != nil {
			rec.Directors = d
		}
		for i, c := range credits.Cast {
			if i == recordCastSize {
				break
			}
			rec.Cast = append(rec.Cast, c.Name)
		}
	}

	if videos != nil {
		if tr := videos.Trailer(); tr != nil {
			rec.Trailer = tr.URL()
		}
	}
	return rec
}

// FavoritesExport is a snapshot of a user's favorites with full movie records.
type FavoritesExport struct {
	UserID     string        `json:"userId,omitempty"`
	ExportedAt time.Time     `json:"exportedAt"`
	Movies     []MovieRecord `json:"movies"`
}
