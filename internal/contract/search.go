package contract

import "time"

// Default weights and match cap sent with every episode search.
const (
	DefaultTitleWeight       = 50
	DefaultDescriptionWeight = 50
	DefaultMatchCap          = 10
)

// SearchRequest is the body posted to the episode search endpoint.
type SearchRequest struct {
	Query             string `json:"query"`
	PodcastIDs        []int  `json:"podcast_ids"`
	TitleWeight       int    `json:"title_weight"`
	DescriptionWeight int    `json:"description_weight"`
	CapNMatches       int    `json:"cap_n_matches"`
}

// NewSearchRequest returns a request with the default weights and cap.
func NewSearchRequest(query string, podcastIDs ...int) SearchRequest {
	if podcastIDs == nil {
		podcastIDs = []int{}
	}
	return SearchRequest{
		Query:             query,
		PodcastIDs:        podcastIDs,
		TitleWeight:       DefaultTitleWeight,
		DescriptionWeight: DefaultDescriptionWeight,
		CapNMatches:       DefaultMatchCap,
	}
}

// Span is a half-open [Start, End) character range into tag-stripped text.
type Span struct {
	Start int
	End   int
}

// Episode is the opaque ranked item returned by the search service.
type Episode struct {
	ID          int       `json:"id"`
	PodcastID   int       `json:"podcast_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishDate time.Time `json:"publish_date"`
}

// Matches holds the match spans per field. Offsets index plain text.
type Matches struct {
	Title       []Span
	Description []Span
}

// SearchResult is one ranked episode. Matches is nil for an empty query,
// where the service returns episodes newest first without ranking.
type SearchResult struct {
	Episode Episode
	Matches *Matches
}
