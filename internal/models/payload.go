package models

// ExecutorPayload is the contract boundary between the dispatcher and the
// response pipeline: the intent and slots echoed back, plus the raw rows the
// store returned.
type ExecutorPayload struct {
	Intent Intent     `json:"intent"`
	Slots  Slots      `json:"slots"`
	Rows   []MovieRow `json:"results"`
}

// ResultSet is the normalized form of an ExecutorPayload: rows cast into
// Movie values, deduplicated, sorted, and capped. Found is the true
// post-normalization count before capping; Pool keeps the full ranked list so
// overflow diversification can re-select which items survive the cap.
type ResultSet struct {
	Intent  Intent  `json:"intent"`
	Slots   Slots   `json:"slots"`
	Results []Movie `json:"results"`
	Found   int     `json:"found"`
	Pool    []Movie `json:"-"`
}

// TimeWindowKind is the shape of a time constraint derived from slots.
type TimeWindowKind string

const (
	TimeWindowIn      TimeWindowKind = "in"
	TimeWindowSince   TimeWindowKind = "since"
	TimeWindowUntil   TimeWindowKind = "until"
	TimeWindowBetween TimeWindowKind = "between"
)

// TimeWindow is a typed time constraint. From/To usage depends on Kind:
// "in" and "since" use From, "until" uses To, "between" uses both.
type TimeWindow struct {
	Kind TimeWindowKind `json:"kind"`
	From int            `json:"from,omitempty"`
	To   int            `json:"to,omitempty"`
}

// RatingBounds mirrors the rating comparator taxonomy. Value is set for
// eq/ge/le; Low and High for between.
type RatingBounds struct {
	Cmp   RatingCmp `json:"cmp"`
	Value *float64  `json:"value,omitempty"`
	Low   *float64  `json:"low,omitempty"`
	High  *float64  `json:"high,omitempty"`
}

// Context is the compact semantic summary derived from a ResultSet, consumed
// by the edge-case handler and the fact compiler. ResultCount is the true
// post-normalization count (pre-diversification); Titles is a capped preview.
type Context struct {
	FiltersText  string        `json:"filters_text"`
	TimeWindow   *TimeWindow   `json:"time_window,omitempty"`
	RatingBounds *RatingBounds `json:"rating_bounds,omitempty"`
	ResultCount  int           `json:"result_count"`
	SeedTitle    string        `json:"seed_title,omitempty"`
	Titles       []string      `json:"titles,omitempty"`
}

// SampledFrom records diversification provenance: how many items were
// available, how many survived the cap, and which method chose them.
type SampledFrom struct {
	Total  int    `json:"total"`
	Used   int    `json:"used"`
	Method string `json:"method"`
}

// EdgeFlags is the edge-case detection output. Each flag is derived
// independently; EdgeNotes carries the machine-readable tags and Suggestions
// carries up to three alternate-query hints for the renderer.
type EdgeFlags struct {
	NoResults     bool         `json:"no_results"`
	Overflow      bool         `json:"overflow"`
	SparseQuality bool         `json:"sparse_quality"`
	SeedMissing   bool         `json:"seed_missing"`
	ThinMetadata  bool         `json:"thin_metadata"`
	TiesPossible  bool         `json:"ties_possible"`
	EdgeNotes     []string     `json:"edge_notes,omitempty"`
	Suggestions   []string     `json:"suggestions,omitempty"`
	SampledFrom   *SampledFrom `json:"sampled_from,omitempty"`
}

// Fact is one compiled fact line. Missing fields are rendered as explicit
// placeholders by the compiler, never omitted silently.
type Fact struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	Rating string `json:"rating"`
	Genres string `json:"genres"`
	Line   string `json:"line"`
}

// FactSheet is the deterministic grounding for the rendered answer.
// FoundCount is the true result count, independent of how many Facts are
// displayed, so the renderer can say "12 found, showing 5".
type FactSheet struct {
	Facts       []Fact `json:"facts"`
	ContextLine string `json:"context_line"`
	FoundCount  int    `json:"found_count"`
}

// Answer is the terminal artifact: the rendered text plus the originating
// intent for observability.
type Answer struct {
	Text   string `json:"text"`
	Intent Intent `json:"intent"`
}
