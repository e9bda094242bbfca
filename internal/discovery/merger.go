package discovery

import (
	"strings"

	"AppScanner/internal/domain"
)

// Limits bound how much of each channel's output is used. Zero means unbounded.
type Limits struct {
	AppsPerKeyword    int
	SimilarSeedLimit  int
	SimilarAppsPerApp int
}

// KeywordResult is the ordered output of one keyword search.
type KeywordResult struct {
	Keyword string
	IDs     []string
}

// SimilarResult is the ordered output of one similar-apps lookup.
type SimilarResult struct {
	ParentID string
	IDs      []string
}

// Channels groups the outputs of all discovery channels for a single merge.
type Channels struct {
	Seeded   []string
	Keywords []KeywordResult
	Similar  []SimilarResult
}

// Merged is the deduplicated entity set. Order records first sightings.
type Merged struct {
	Entities map[string]*domain.DiscoveredEntity
	Order    []string
}

// Len returns the number of distinct entities.
func (m *Merged) Len() int {
	return len(m.Order)
}

// List returns copies of the entities in first-sighting order.
func (m *Merged) List() []domain.DiscoveredEntity {
	out := make([]domain.DiscoveredEntity, 0, len(m.Order))
	for _, id := range m.Order {
		e := m.Entities[id]
		out = append(out, domain.DiscoveredEntity{
			ID:       e.ID,
			Sources:  append([]string(nil), e.Sources...),
			Verified: e.Verified,
		})
	}
	return out
}

// Merge combines the channels into one entity per identifier. Sources accumulate with
// repetition, so each channel output must be merged exactly once.
func Merge(ch Channels, limits Limits) *Merged {
	m := &Merged{Entities: map[string]*domain.DiscoveredEntity{}}

	for _, id := range ch.Seeded {
		m.add(id, domain.SourceSeeded, true)
	}

	for _, kw := range ch.Keywords {
		tag := domain.SourceKeywordPrefix + kw.Keyword
		for _, id := range prefix(kw.IDs, limits.AppsPerKeyword) {
			m.add(id, tag, false)
		}
	}

	for _, sim := range ch.Similar {
		tag := domain.SourceSimilarPrefix + idSuffix(sim.ParentID)
		for _, id := range prefix(sim.IDs, limits.SimilarAppsPerApp) {
			m.add(id, tag, false)
		}
	}

	return m
}

func (m *Merged) add(id, tag string, verified bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	e, ok := m.Entities[id]
	if !ok {
		e = &domain.DiscoveredEntity{ID: id, Verified: verified}
		m.Entities[id] = e
		m.Order = append(m.Order, id)
	}
	e.Sources = append(e.Sources, tag)
}

func prefix(ids []string, n int) []string {
	if n > 0 && len(ids) > n {
		return ids[:n]
	}
	return ids
}

// idSuffix returns the last dot-separated segment, e.g. "mistplay" for "com.mistplay.mistplay".
func idSuffix(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}
