package model

// Video is a normalized scheme-video search result. The same video may
// appear more than once when several search queries match it.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// VideoPage is the paginated scheme-video response. HasMore is false for an
// empty result set and for pages past the end.
type VideoPage struct {
	Videos     []Video `json:"videos"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	HasMore    bool    `json:"hasMore"`
}
