package models

import "time"

// FavoriteEntry is one movie in a user's remote favorites document.
type FavoriteEntry struct {
	MovieID int   `json:"movieId"`
	AddedAt int64 `json:"addedAt"` // epoch milliseconds
}

// NewFavoriteEntry stamps movieID with at in epoch milliseconds.
func NewFavoriteEntry(movieID int, at time.Time) FavoriteEntry {
	return FavoriteEntry{MovieID: movieID, AddedAt: at.UnixMilli()}
}

// Time returns AddedAt as a [time.Time].
func (e FavoriteEntry) Time() time.Time {
	return time.UnixMilli(e.AddedAt)
}

// FavoritesDocument is the per-user remote record: {"movies": [...]}.
type FavoritesDocument struct {
	Movies []FavoriteEntry `json:"movies"`
}

// MovieIDs projects the document onto movie ids in document order.
// Repeated ids keep their first position only, so the result is always a valid favorites set.
func (d *FavoritesDocument) MovieIDs() []int {
	ids := []int{}
	if d == nil {
		return ids
	}

	seen := make(map[int]bool, len(d.Movies))
	for _, m := range d.Movies {
		if seen[m.MovieID] {
			continue
		}
		seen[m.MovieID] = true
		ids = append(ids, m.MovieID)
	}
	return ids
}

// Append adds entry at the end without checking for an existing entry.
func (d *FavoritesDocument) Append(entry FavoriteEntry) {
	d.Movies = append(d.Movies, entry)
}

// Remove drops every entry for movieID and reports how many were removed.
func (d *FavoritesDocument) Remove(movieID int) int {
	kept := make([]FavoriteEntry, 0, len(d.Movies))
	for _, m := range d.Movies {
		if m.MovieID != movieID {
			kept = append(kept, m)
		}
	}
	removed := len(d.Movies) - len(kept)
	d.Movies = kept
	return removed
}
