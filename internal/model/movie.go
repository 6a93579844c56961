package model

// Genre is the nested genre record carried by every movie.
type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Director is the nested director record carried by every movie.
type Director struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Movie is a catalog entry. The catalog is read-only at the API level:
// movies are loaded from a seed file at startup and only ever referenced
// (by ID, from a user's favorites) afterwards.
//
// Title is unique — the lookup routes address movies by exact title.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       Genre    `json:"genre"`
	Director    Director `json:"director"`
	Actors      []string `json:"actors"`
	ImagePath   string   `json:"imagePath"`
	Featured    bool     `json:"featured"`
}
