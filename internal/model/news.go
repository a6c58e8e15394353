package model

// Article is a normalized news item. Upstream sources disagree on field
// names; the news gateway maps them all onto this shape.
type Article struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
}

// ArticlePage is a slice of the full article list plus pagination totals.
// Total and TotalPages always describe the full set, even when the requested
// page is out of range and Articles is empty.
type ArticlePage struct {
	Articles   []Article `json:"articles"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}
