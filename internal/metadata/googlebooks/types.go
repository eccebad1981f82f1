package googlebooks

// Volume is a normalized search result ready to be shelved as a book.
type Volume struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PageCount     int      `json:"page_count"`
	PublishedDate string   `json:"published_date"`
	Description   string   `json:"description"`
	Genres        []string `json:"genres"`
	CoverURL      string   `json:"cover_url"`
}

// volumesResponse is the raw Google Books API response. Every field is
// optional in practice, so the mapping in search.go fills defaults.
type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

// volumeItem is a single volume from the API.
type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	PageCount     int        `json:"pageCount"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	Categories    []string   `json:"categories"`
	ImageLinks    imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
