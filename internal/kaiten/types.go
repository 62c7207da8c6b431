package kaiten

// Card is the subset of a Kaiten card the board uses.
type Card struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        []Tag  `json:"tags"`
}

// Tag is a Kaiten card tag.
type Tag struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// apiError is the error body Kaiten returns with non-2xx responses.
type apiError struct {
	Message string `json:"message"`
}
