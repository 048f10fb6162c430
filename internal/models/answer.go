package models

// ParseResponse is the response for a parse-only request.
type ParseResponse struct {
	Parsed ParsedQuery `json:"parsed"`
}

// ExecuteResponse returns both the parse and the normalized results, without
// rendering an answer.
type ExecuteResponse struct {
	Parsed  ParsedQuery `json:"parsed"`
	Results []Movie     `json:"results"`
	Found   int         `json:"found"`
}

// AskResponse is the full pipeline output: machine-readable parse and
// results plus the human-readable answer and timing metadata.
type AskResponse struct {
	RequestID   string      `json:"request_id"`
	Parsed      ParsedQuery `json:"parsed"`
	Results     []Movie     `json:"results"`
	Found       int         `json:"found"`
	Answer      string      `json:"answer"`
	EdgeNotes   []string    `json:"edge_notes,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	QueryTime   int64       `json:"query_time_ms"`
}
