package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

var errUnavailable = errors.New("store unavailable")

// fakeStore serves canned data and pages reviews by offset tokens.
type fakeStore struct {
	search    map[string][]domain.AppRef
	similar   map[string][]domain.AppRef
	details   map[string]domain.AppMetadata
	reviews   map[string][]domain.Review
	failPage  map[string]int
	emptyAt   map[string]int
	oversize  bool
	detailLag time.Duration
	reviewLag time.Duration

	// entities count from the start of AppDetails until the last call made for that app
	inflight    atomic.Int32
	maxInflight atomic.Int32

	mu        sync.Mutex
	requests  map[string][]ports.ReviewPageRequest
	pageTimes map[string][]time.Time
	active    map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		search:   map[string][]domain.AppRef{},
		similar:  map[string][]domain.AppRef{},
		details:  map[string]domain.AppMetadata{},
		reviews:  map[string][]domain.Review{},
		failPage: map[string]int{},
		emptyAt:  map[string]int{},
		requests:  map[string][]ports.ReviewPageRequest{},
		pageTimes: map[string][]time.Time{},
		active:    map[string]bool{},
	}
}

func (f *fakeStore) Search(_ context.Context, term string, count int) ([]domain.AppRef, error) {
	refs, ok := f.search[term]
	if !ok {
		return nil, errUnavailable
	}
	if count > 0 && len(refs) > count {
		refs = refs[:count]
	}
	return refs, nil
}

func (f *fakeStore) SimilarApps(_ context.Context, id string) ([]domain.AppRef, error) {
	return f.similar[id], nil
}

func (f *fakeStore) AppDetails(_ context.Context, id string) (domain.AppMetadata, error) {
	f.enter(id)
	if f.detailLag > 0 {
		time.Sleep(f.detailLag)
	}

	meta, ok := f.details[id]
	if !ok {
		f.leave(id)
		return domain.AppMetadata{}, fmt.Errorf("app %s: %w", id, errUnavailable)
	}
	return meta, nil
}

func (f *fakeStore) enter(id string) {
	f.mu.Lock()
	if f.active[id] {
		f.mu.Unlock()
		return
	}
	f.active[id] = true
	f.mu.Unlock()

	n := f.inflight.Add(1)
	for {
		cur := f.maxInflight.Load()
		if n <= cur || f.maxInflight.CompareAndSwap(cur, n) {
			break
		}
	}
}

// leave ends the app's in-flight window; callers decide when its last call returned.
func (f *fakeStore) leave(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active[id] {
		delete(f.active, id)
		f.inflight.Add(-1)
	}
}

func (f *fakeStore) Reviews(_ context.Context, id string, req ports.ReviewPageRequest) (ports.ReviewPage, error) {
	f.mu.Lock()
	f.requests[id] = append(f.requests[id], req)
	f.pageTimes[id] = append(f.pageTimes[id], time.Now())
	page := len(f.requests[id])
	f.mu.Unlock()

	if f.reviewLag > 0 {
		time.Sleep(f.reviewLag)
	}
	if f.failPage[id] == page {
		f.leave(id)
		return ports.ReviewPage{}, errUnavailable
	}

	offset := 0
	if req.Token != "" {
		var err error
		if offset, err = strconv.Atoi(req.Token); err != nil {
			return ports.ReviewPage{}, err
		}
	}

	all := f.reviews[id]
	if f.emptyAt[id] == page {
		f.leave(id)
		return ports.ReviewPage{NextToken: strconv.Itoa(offset)}, nil
	}

	size := req.PageSize
	if f.oversize {
		size *= 2
	}
	end := min(offset+size, len(all))
	res := ports.ReviewPage{Items: all[offset:end]}
	if end < len(all) {
		res.NextToken = strconv.Itoa(end)
	} else {
		f.leave(id)
	}
	return res, nil
}

func (f *fakeStore) callTimes(id string) []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.pageTimes[id]...)
}

func (f *fakeStore) pageRequests(id string) []ports.ReviewPageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.ReviewPageRequest(nil), f.requests[id]...)
}

func makeReviews(n int, text string) []domain.Review {
	out := make([]domain.Review, n)
	for i := range out {
		out[i] = domain.Review{ID: strconv.Itoa(i), Text: text, Score: 1 + i%5}
	}
	return out
}
