package core

// Contribution is the single record type served by the api. StartTime and
// EndTime are kept as ISO-8601 strings and compared lexicographically.
type Contribution struct {
	Id          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	StartTime   string `json:"startTime" yaml:"startTime"`
	EndTime     string `json:"endTime" yaml:"endTime"`
	Owner       string `json:"owner" yaml:"owner"`
}

type Page struct {
	Contributions []Contribution `json:"contributions"`
	Total         int            `json:"total"`
	Skip          int            `json:"skip"`
	Limit         int            `json:"limit"`
}
