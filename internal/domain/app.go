package domain

import "time"

// Provenance tags attached to discovered entities.
const (
	SourceSeeded        = "seeded"
	SourceKeywordPrefix = "keyword:"
	SourceSimilarPrefix = "similar:"
)

// DiscoveredEntity is a candidate app surfaced by one or more discovery channels.
type DiscoveredEntity struct {
	ID       string
	Sources  []string
	Verified bool
}

// AppRef is the minimal reference returned by search and similar-apps lookups.
type AppRef struct {
	ID    string
	Title string
}

// AppMetadata is a snapshot of the store listing.
type AppMetadata struct {
	Title        string   `json:"title"`
	Developer    string   `json:"developer"`
	DeveloperID  string   `json:"developerId,omitempty"`
	Score        float64  `json:"score"`
	Ratings      int      `json:"ratings"`
	ReviewsTotal int      `json:"reviewsTotal"`
	URL          string   `json:"url"`
	Icon         string   `json:"icon,omitempty"`
	HeaderImage  string   `json:"headerImage,omitempty"`
	Screenshots  []string `json:"screenshots"`
	Video        string   `json:"video,omitempty"`
	Description  string   `json:"description,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Genre        string   `json:"genre,omitempty"`
	Updated      string   `json:"updated,omitempty"`
	Version      string   `json:"version,omitempty"`
	Free         bool     `json:"free"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency,omitempty"`
}

// Review is a single user review as returned by the store.
type Review struct {
	ID        string    `json:"id"`
	UserName  string    `json:"userName,omitempty"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	At        time.Time `json:"at"`
	ReplyText string    `json:"replyText,omitempty"`
}

// ThemeCount pairs a taxonomy label with the number of reviews that hit it.
type ThemeCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ThemeSummary is the per-app aggregate over the fetched reviews.
type ThemeSummary struct {
	ReviewCountUsed int                 `json:"reviewCountUsed"`
	PraiseCounts    map[string]int      `json:"praiseCounts"`
	ComplaintCounts map[string]int      `json:"complaintCounts"`
	TopPraises      []ThemeCount        `json:"topPraises"`
	TopComplaints   []ThemeCount        `json:"topComplaints"`
	FixedMentions   int                 `json:"fixedMentions"`
	Examples        map[string][]string `json:"examples"`
}

// AppRecord is the finished output unit for one competitor.
type AppRecord struct {
	AppID     string       `json:"appId"`
	FetchedAt time.Time    `json:"fetchedAt"`
	Sources   []string     `json:"sources"`
	Verified  bool         `json:"verified"`
	App       AppMetadata  `json:"app"`
	Summary   ThemeSummary `json:"summary"`

	// Reviews are the raw fetched reviews; only the per-app output files carry them.
	Reviews []Review `json:"-"`
}

// SkipReason explains why an entity produced no record.
type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipMetadataFailed  SkipReason = "metadata_failed"
	SkipBelowMinReviews SkipReason = "below_min_reviews"
	SkipIrrelevant      SkipReason = "irrelevant"
	SkipCanceled        SkipReason = "canceled"
)

// Result is the outcome of processing one entity.
type Result struct {
	AppID  string
	Record *AppRecord
	Skip   SkipReason
	Err    error
}

// OK reports whether the entity produced a record.
func (r Result) OK() bool {
	return r.Record != nil
}

// RunStats are the run-level counters exposed to consumers.
type RunStats struct {
	RunID           string             `json:"runId"`
	TotalDiscovered int                `json:"totalDiscovered"`
	FilteredOut     int                `json:"filteredOut"`
	FinalCount      int                `json:"finalCount"`
	Skipped         map[SkipReason]int `json:"skipped"`
	StartedAt       time.Time          `json:"startedAt"`
	FinishedAt      time.Time          `json:"finishedAt"`
}

// RunReport is handed to writers and notifiers once a run completes.
type RunReport struct {
	Records []AppRecord
	Stats   RunStats
}
