package ports

import (
	"context"
	"time"

	"AppScanner/internal/domain"
)

// ReviewSort selects the review ordering requested from the store.
type ReviewSort int

const (
	SortMostRelevant ReviewSort = 1
	SortNewest       ReviewSort = 2
	SortRating       ReviewSort = 3
)

// ReviewPageRequest describes one page of a paginated review listing.
type ReviewPageRequest struct {
	PageSize int
	Token    string
	Sort     ReviewSort
}

// ReviewPage is one page of reviews plus the continuation token, empty when exhausted.
type ReviewPage struct {
	Items     []domain.Review
	NextToken string
}

// AppStore is the remote data source for discovery, metadata and reviews.
type AppStore interface {
	Search(ctx context.Context, term string, count int) ([]domain.AppRef, error)
	AppDetails(ctx context.Context, id string) (domain.AppMetadata, error)
	Reviews(ctx context.Context, id string, req ReviewPageRequest) (ReviewPage, error)
	SimilarApps(ctx context.Context, id string) ([]domain.AppRef, error)
}

// RecordWriter serializes a finished run (JSON, CSV, ...).
type RecordWriter interface {
	Write(ctx context.Context, report domain.RunReport) error
}

// Notifier streams a run summary to Telegram or other channels.
type Notifier interface {
	PublishSummary(ctx context.Context, report domain.RunReport) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
