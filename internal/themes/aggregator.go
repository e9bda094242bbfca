package themes

import (
	"fmt"
	"sort"

	"AppScanner/internal/domain"
	"AppScanner/internal/textutil"
)

// Limits bound example retention.
type Limits struct {
	MinReviewLength  int
	ExamplesPerLabel int
	MaxExcerptChars  int
}

// DefaultLimits mirrors the values the scanner ships with.
func DefaultLimits() Limits {
	return Limits{MinReviewLength: 100, ExamplesPerLabel: 15, MaxExcerptChars: 500}
}

// Aggregator reduces review texts into theme counts and bounded example sets.
type Aggregator struct {
	taxonomy Taxonomy
	limits   Limits
}

// NewAggregator validates the taxonomy and limits.
func NewAggregator(taxonomy Taxonomy, limits Limits) (*Aggregator, error) {
	if err := taxonomy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	if limits.ExamplesPerLabel <= 0 || limits.MaxExcerptChars <= 0 || limits.MinReviewLength < 0 {
		return nil, fmt.Errorf("invalid example limits: %+v", limits)
	}
	return &Aggregator{taxonomy: taxonomy.normalized(), limits: limits}, nil
}

// Aggregate runs every review through an Accumulator and returns the summary.
func (a *Aggregator) Aggregate(reviews []domain.Review) domain.ThemeSummary {
	acc := a.NewAccumulator()
	for _, r := range reviews {
		acc.Add(r)
	}
	return acc.Summary()
}

// Accumulator aggregates reviews one at a time; memory is bounded by the example caps.
type Accumulator struct {
	agg        *Aggregator
	total      int
	praise     []int
	complaint  []int
	fixed      int
	examples   map[string]*ExampleSet
	exampleKey []string
}

// NewAccumulator starts an empty aggregation.
func (a *Aggregator) NewAccumulator() *Accumulator {
	return &Accumulator{
		agg:       a,
		praise:    make([]int, len(a.taxonomy.Praise)),
		complaint: make([]int, len(a.taxonomy.Complaint)),
		examples:  map[string]*ExampleSet{},
	}
}

// Add counts one review; each label hits at most once per review.
func (acc *Accumulator) Add(r domain.Review) {
	acc.total++
	text := textutil.Normalize(r.Text)

	for i, label := range acc.agg.taxonomy.Praise {
		if textutil.ContainsAny(text, label.Substrings) {
			acc.praise[i]++
			acc.offer(PraisePrefix+label.Name, r)
		}
	}
	for i, label := range acc.agg.taxonomy.Complaint {
		if textutil.ContainsAny(text, label.Substrings) {
			acc.complaint[i]++
			acc.offer(ComplaintPrefix+label.Name, r)
		}
	}
	if textutil.ContainsAny(text, acc.agg.taxonomy.Fixed) {
		acc.fixed++
		acc.offer(FixedKey, r)
	}
}

func (acc *Accumulator) offer(key string, r domain.Review) {
	set, ok := acc.examples[key]
	if !ok {
		set = NewExampleSet(acc.agg.limits.ExamplesPerLabel)
		acc.examples[key] = set
		acc.exampleKey = append(acc.exampleKey, key)
	}

	length := textutil.Length(r.Text)
	if length < acc.agg.limits.MinReviewLength {
		return
	}
	set.Offer(Example{
		Text:   textutil.Truncate(r.Text, acc.agg.limits.MaxExcerptChars),
		Length: length,
		Score:  r.Score,
	})
}

// Summary materializes the current counts, rankings and examples.
func (acc *Accumulator) Summary() domain.ThemeSummary {
	tax := acc.agg.taxonomy

	summary := domain.ThemeSummary{
		ReviewCountUsed: acc.total,
		PraiseCounts:    make(map[string]int, len(tax.Praise)),
		ComplaintCounts: make(map[string]int, len(tax.Complaint)),
		FixedMentions:   acc.fixed,
		Examples:        make(map[string][]string, len(acc.examples)),
	}
	for i, l := range tax.Praise {
		summary.PraiseCounts[l.Name] = acc.praise[i]
	}
	for i, l := range tax.Complaint {
		summary.ComplaintCounts[l.Name] = acc.complaint[i]
	}
	summary.TopPraises = rank(tax.Praise, acc.praise)
	summary.TopComplaints = rank(tax.Complaint, acc.complaint)

	for _, key := range acc.exampleKey {
		summary.Examples[key] = acc.examples[key].Texts()
	}
	return summary
}

// rank sorts by count descending; SliceStable keeps declaration order among ties.
func rank(labels []Label, counts []int) []domain.ThemeCount {
	out := make([]domain.ThemeCount, len(labels))
	for i, l := range labels {
		out[i] = domain.ThemeCount{Label: l.Name, Count: counts[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

