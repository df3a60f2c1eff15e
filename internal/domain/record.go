package domain

// ArticleRecord is the structured result of one crawled article page.
// Optional fields are omitted from the JSON output when extraction found nothing.
type ArticleRecord struct {
	URL           string   `json:"url"`
	Section       string   `json:"section"`
	Title         string   `json:"title,omitempty"`
	Date          string   `json:"date,omitempty"`
	DateISO       string   `json:"date_iso,omitempty"`
	Company       string   `json:"company,omitempty"`
	Text          string   `json:"text"`
	Language      string   `json:"language,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	InternalLinks []string `json:"internal_links,omitempty"`
}
