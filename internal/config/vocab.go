package config

// DefaultGenres maps lowercase query aliases to the canonical genre names
// used by the MovieLens catalog. Multi-word aliases are matched greedily
// before single words by the parser.
func DefaultGenres() map[string]string {
	return map[string]string{
		"action":          "Action",
		"adventure":       "Adventure",
		"animation":       "Animation",
		"animated":        "Animation",
		"children":        "Children's",
		"children's":      "Children's",
		"childrens":       "Children's",
		"kids":            "Children's",
		"comedy":          "Comedy",
		"crime":           "Crime",
		"documentary":     "Documentary",
		"drama":           "Drama",
		"fantasy":         "Fantasy",
		"film-noir":       "Film-Noir",
		"film noir":       "Film-Noir",
		"noir":            "Film-Noir",
		"horror":          "Horror",
		"musical":         "Musical",
		"mystery":         "Mystery",
		"romance":         "Romance",
		"romantic":        "Romance",
		"sci-fi":          "Sci-Fi",
		"scifi":           "Sci-Fi",
		"science fiction": "Sci-Fi",
		"thriller":        "Thriller",
		"war":             "War",
		"western":         "Western",
	}
}

// DefaultNumberWords maps small number words to their values for "top N"
// parsing ("top five" -> 5).
func DefaultNumberWords() map[string]int {
	return map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}
}

// DefaultFillerWords are trimmed from the tail of extracted title phrases
// ("movies like Inception please" -> "Inception").
func DefaultFillerWords() []string {
	return []string{
		"movie", "movies", "film", "films", "title", "titles",
		"please", "thanks", "thank", "you",
	}
}
