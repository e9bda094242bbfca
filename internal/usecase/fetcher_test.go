package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AppScanner/internal/domain"
	"AppScanner/internal/relevance"
	"AppScanner/internal/themes"
)

var fixedNow = time.Date(2025, time.November, 8, 12, 0, 0, 0, time.UTC)

func testTaxonomy() themes.Taxonomy {
	return themes.Taxonomy{
		Praise:    []themes.Label{{Name: "pays_reliably", Substrings: []string{"paid", "legit"}}},
		Complaint: []themes.Label{{Name: "withdrawal_issues", Substrings: []string{"withdrawal failed", "pending"}}},
		Fixed:     []string{"fixed"},
	}
}

func newTestFetcher(t *testing.T, store *fakeStore, opts FetchOptions) *Fetcher {
	t.Helper()
	agg, err := themes.NewAggregator(testTaxonomy(), themes.Limits{MinReviewLength: 10, ExamplesPerLabel: 3, MaxExcerptChars: 200})
	require.NoError(t, err)

	if opts.Reviews.Max == 0 {
		opts.Reviews = ReviewOptions{Max: 300, PageSize: 100}
	}
	return NewFetcher(FetcherDeps{
		Store: store,
		Classifier: relevance.NewClassifier(relevance.Rules{
			ExcludedIDs: []string{"com.android.chrome"},
			Negative:    []string{"vpn", "booster", "cleaner"},
			Positive:    []string{"earn", "reward", "cash", "money", "survey"},
		}),
		Aggregator: agg,
		Clock:      func() time.Time { return fixedNow },
	}, opts)
}

func TestProcessProducesRecord(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.details["com.earn.app"] = domain.AppMetadata{Title: "Earn Cash", Description: "Surveys for money", ReviewsTotal: 900, Score: 4.2}
	store.reviews["com.earn.app"] = append(makeReviews(150, "got paid, totally legit app"), makeReviews(50, "withdrawal failed again")...)

	f := newTestFetcher(t, store, FetchOptions{MinTotalReviews: 500})
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "com.earn.app", Sources: []string{"keyword:earn"}})

	require.True(t, res.OK(), "skip=%s err=%v", res.Skip, res.Err)
	rec := res.Record
	assert.Equal(t, "com.earn.app", rec.AppID)
	assert.Equal(t, fixedNow, rec.FetchedAt)
	assert.Equal(t, []string{"keyword:earn"}, rec.Sources)
	assert.False(t, rec.Verified)
	assert.Equal(t, 900, rec.App.ReviewsTotal)
	assert.Equal(t, 200, rec.Summary.ReviewCountUsed)
	assert.Len(t, rec.Reviews, 200)
	assert.Equal(t, 150, rec.Summary.PraiseCounts["pays_reliably"])
	assert.Equal(t, 50, rec.Summary.ComplaintCounts["withdrawal_issues"])
}

func TestProcessSkipsOnMetadataFailure(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, newFakeStore(), FetchOptions{})
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "missing", Verified: true})

	assert.False(t, res.OK())
	assert.Equal(t, domain.SkipMetadataFailed, res.Skip)
	assert.ErrorIs(t, res.Err, errUnavailable)
}

func TestProcessSkipsBelowReviewThreshold(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.details["small"] = domain.AppMetadata{Title: "Earn cash rewards", ReviewsTotal: 499}

	f := newTestFetcher(t, store, FetchOptions{MinTotalReviews: 500})
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "small", Verified: true})

	assert.Equal(t, domain.SkipBelowMinReviews, res.Skip)
	assert.Empty(t, store.pageRequests("small"))
}

func TestProcessFiltersIrrelevantKeywordApp(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.details["com.vpn.boost"] = domain.AppMetadata{Title: "VPN Booster Cleaner", ReviewsTotal: 100000}
	store.reviews["com.vpn.boost"] = makeReviews(10, "fine")

	f := newTestFetcher(t, store, FetchOptions{MinTotalReviews: 500})
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "com.vpn.boost", Sources: []string{"keyword:vpn-blocker"}})

	assert.False(t, res.OK())
	assert.Equal(t, domain.SkipIrrelevant, res.Skip)
	assert.Empty(t, store.pageRequests("com.vpn.boost"))
}

func TestProcessVerifiedBypassesClassifier(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.details["com.android.chrome"] = domain.AppMetadata{Title: "VPN Booster Cleaner", ReviewsTotal: 1000}

	f := newTestFetcher(t, store, FetchOptions{MinTotalReviews: 500})
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "com.android.chrome", Sources: []string{"seeded"}, Verified: true})

	require.True(t, res.OK())
	assert.True(t, res.Record.Verified)
}

func TestProcessKeepsPartialReviewsOnPageError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.details["app"] = domain.AppMetadata{Title: "Earn money", ReviewsTotal: 1000}
	store.reviews["app"] = makeReviews(300, "legit")
	store.failPage["app"] = 2

	f := newTestFetcher(t, store, FetchOptions{MinTotalReviews: 1})
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "app", Verified: true})

	require.True(t, res.OK())
	assert.Equal(t, 100, res.Record.Summary.ReviewCountUsed)
}

func TestProcessAllRespectsConcurrencyCap(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.detailLag = 20 * time.Millisecond
	store.reviewLag = 5 * time.Millisecond

	var entities []domain.DiscoveredEntity
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("com.app.n%d", i)
		store.details[id] = domain.AppMetadata{Title: "Earn cash", ReviewsTotal: 1000 + i}
		store.reviews[id] = makeReviews(25, "legit")
		entities = append(entities, domain.DiscoveredEntity{ID: id, Verified: true})
	}
	// one failing entity must not affect the others
	entities = append(entities, domain.DiscoveredEntity{ID: "com.app.broken", Verified: true})

	f := newTestFetcher(t, store, FetchOptions{
		Concurrency:     3,
		MinTotalReviews: 1,
		Reviews:         ReviewOptions{Max: 300, PageSize: 10},
	})
	results := f.ProcessAll(context.Background(), entities)

	require.Len(t, results, len(entities))
	ok := 0
	for _, r := range results {
		if r.OK() {
			ok++
			assert.Equal(t, 25, r.Record.Summary.ReviewCountUsed)
			assert.Len(t, store.pageRequests(r.AppID), 3)
			continue
		}
		assert.True(t, strings.HasSuffix(r.AppID, "broken"))
	}
	assert.Equal(t, 12, ok)
	// an app holds its slot through the whole review pagination, and the slots are all used
	assert.Equal(t, int32(3), store.maxInflight.Load())
	assert.Equal(t, int32(0), store.inflight.Load())
}

func TestProcessPacesStoreCalls(t *testing.T) {
	t.Parallel()

	const delay = 40 * time.Millisecond

	store := newFakeStore()
	store.details["app"] = domain.AppMetadata{Title: "Earn money", ReviewsTotal: 1000}
	store.reviews["app"] = makeReviews(30, "legit")

	f := newTestFetcher(t, store, FetchOptions{
		MinTotalReviews: 1,
		RequestDelay:    delay,
		Reviews:         ReviewOptions{Max: 30, PageSize: 10},
	})

	started := time.Now()
	res := f.Process(context.Background(), domain.DiscoveredEntity{ID: "app", Verified: true})
	require.True(t, res.OK())

	require.Len(t, store.pageRequests("app"), 3)
	// metadata plus three pages leave three paced gaps
	assert.GreaterOrEqual(t, time.Since(started), 3*delay-5*time.Millisecond)
	assertSpaced(t, store.callTimes("app"), delay)
}

func TestProcessCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher(t, newFakeStore(), FetchOptions{})
	res := f.Process(ctx, domain.DiscoveredEntity{ID: "x"})
	assert.Equal(t, domain.SkipCanceled, res.Skip)
}
