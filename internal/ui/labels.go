package ui

import "github.com/desertthunder/worlder/internal/models"

const (
	lblPopular        = "popular"
	lblNowPlaying     = "now_playing"
	lblUpcoming       = "upcoming"
	lblTopRated       = "top_rated"
	lblSearch         = "search"
	lblSearchPrompt   = "search_prompt"
	lblSearchIdle     = "search_idle"
	lblNoResults      = "no_results"
	lblLoading        = "loading"
	lblFavorites      = "favorites"
	lblNoFavorites    = "no_favorites"
	lblAddFavorite    = "add_favorite"
	lblRemoveFavorite = "remove_favorite"
	lblDirector       = "director"
	lblCast           = "cast"
	lblTrailers       = "trailers"
	lblRuntime        = "runtime"
	lblRating         = "rating"
	lblGenres         = "genres"
	lblSignedInAs     = "signed_in_as"
	lblGuest          = "guest"
	lblError          = "error"
)

var labels = map[models.Language]map[string]string{
	models.LanguageEnglish: {
		lblPopular:        "Popular",
		lblNowPlaying:     "Now Playing",
		lblUpcoming:       "Upcoming",
		lblTopRated:       "Top Rated",
		lblSearch:         "Search",
		lblSearchPrompt:   "Search movies...",
		lblSearchIdle:     "Type a title and press enter",
		lblNoResults:      "No movies found",
		lblLoading:        "Loading...",
		lblFavorites:      "Favorites",
		lblNoFavorites:    "No favorites yet",
		lblAddFavorite:    "add to favorites",
		lblRemoveFavorite: "remove from favorites",
		lblDirector:       "Director",
		lblCast:           "Cast",
		lblTrailers:       "Trailers",
		lblRuntime:        "Runtime",
		lblRating:         "Rating",
		lblGenres:         "Genres",
		lblSignedInAs:     "Signed in as",
		lblGuest:          "Browsing as guest",
		lblError:          "Error",
	},
	models.LanguageIndonesian: {
		lblPopular:        "Populer",
		lblNowPlaying:     "Sedang Tayang",
		lblUpcoming:       "Akan Datang",
		lblTopRated:       "Rating Tertinggi",
		lblSearch:         "Cari",
		lblSearchPrompt:   "Cari film...",
		lblSearchIdle:     "Ketik judul lalu tekan enter",
		lblNoResults:      "Film tidak ditemukan",
		lblLoading:        "Memuat...",
		lblFavorites:      "Favorit",
		lblNoFavorites:    "Belum ada favorit",
		lblAddFavorite:    "tambah ke favorit",
		lblRemoveFavorite: "hapus dari favorit",
		lblDirector:       "Sutradara",
		lblCast:           "Pemeran",
		lblTrailers:       "Trailer",
		lblRuntime:        "Durasi",
		lblRating:         "Rating",
		lblGenres:         "Genre",
		lblSignedInAs:     "Masuk sebagai",
		lblGuest:          "Menjelajah sebagai tamu",
		lblError:          "Galat",
	},
}

// Label returns the text for key in lang, falling back to English and then to the key itself.
func Label(lang models.Language, key string) string {
	if s, ok := labels[lang][key]; ok {
		return s
	}
	if s, ok := labels[models.LanguageEnglish][key]; ok {
		return s
	}
	return key
}
