package domain

import "time"

type NewsQuery struct {
	Query    string `json:"query" validate:"max=200"`
	Category string `json:"category" validate:"max=60"`
	Limit    int    `json:"limit" validate:"min=0,max=20"`
}

const (
	DefaultNewsLimit = 10
	MaxNewsLimit     = 20
)

type NewsItem struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	PublishedAt string `json:"publishedAt"`
}

type NewsResult struct {
	News        []NewsItem `json:"news"`
	Citations   []string   `json:"citations"`
	LastUpdated time.Time  `json:"lastUpdated"`
}
