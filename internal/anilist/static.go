package anilist

// AniList has no genre or studio listing endpoint; these are the common values.

var genres = []string{
	"Action", "Adventure", "Comedy", "Drama", "Fantasy", "Horror", "Mecha", "Mystery",
	"Romance", "Sci-Fi", "Slice of Life", "Sports", "Supernatural", "Thriller",
	"Psychological", "Historical", "Military", "Parody", "School", "Shounen", "Shoujo",
	"Seinen", "Josei", "Ecchi", "Harem", "Martial Arts", "Music", "Game", "Demons",
	"Vampire", "Samurai", "Police", "Super Power", "Magic", "Space", "Cars", "Racing",
	"Kids", "Family",
}

var studios = []string{
	"MAPPA", "Studio Ghibli", "Bones", "Toei Animation", "Madhouse", "Pierrot",
	"Studio Deen", "A-1 Pictures", "Kyoto Animation", "Production I.G", "Wit Studio",
	"Trigger", "Gainax", "Shaft", "Sunrise", "Doga Kobo", "White Fox", "P.A. Works",
	"J.C.Staff", "Lerche", "Brain's Base", "CloverWorks", "Ufotable", "Silver Link",
	"Studio Bind", "LIDENFILMS", "WIT Studio", "Orange", "Polygon Pictures",
}

// Genres returns the static anime genre list
func Genres() []string {
	return append([]string(nil), genres...)
}

// Studios returns the static anime studio list
func Studios() []string {
	return append([]string(nil), studios...)
}
