package relevance

import (
	"strings"

	"AppScanner/internal/textutil"
)

// Rules holds the static lists used to decide whether an app is a competitor.
type Rules struct {
	ExcludedIDs        []string
	Negative           []string
	Positive           []string
	MinPositiveSignals int
}

// Verdict explains a classification; Reason is empty for relevant apps.
type Verdict struct {
	Relevant      bool
	Reason        string
	PositiveHits  int
	NegativeMatch string
}

const (
	ReasonExcluded        = "excluded_id"
	ReasonNegativeSignal  = "negative_signal"
	ReasonTooFewPositives = "too_few_positive_signals"
)

// Classifier is a deterministic substring heuristic. Verified apps must not be passed to it.
type Classifier struct {
	excluded    map[string]struct{}
	negative    []string
	positive    []string
	minPositive int
}

// NewClassifier copies and normalizes the rules; minPositive defaults to 2.
func NewClassifier(rules Rules) *Classifier {
	excluded := make(map[string]struct{}, len(rules.ExcludedIDs))
	for _, id := range rules.ExcludedIDs {
		excluded[strings.TrimSpace(id)] = struct{}{}
	}

	minPositive := rules.MinPositiveSignals
	if minPositive <= 0 {
		minPositive = 2
	}

	return &Classifier{
		excluded:    excluded,
		negative:    textutil.NormalizeAll(rules.Negative),
		positive:    dedupe(textutil.NormalizeAll(rules.Positive)),
		minPositive: minPositive,
	}
}

// IsRelevant reports whether the app belongs in the competitor set.
func (c *Classifier) IsRelevant(id, title, description string) bool {
	return c.Classify(id, title, description).Relevant
}

// Classify evaluates the exclusion set, then negative signals, then counts positive signals.
func (c *Classifier) Classify(id, title, description string) Verdict {
	if _, ok := c.excluded[id]; ok {
		return Verdict{Reason: ReasonExcluded}
	}

	text := textutil.Normalize(title + " " + description)

	// a single positive signal anywhere overrides every negative one
	hasPositive := textutil.ContainsAny(text, c.positive)
	if !hasPositive {
		for _, neg := range c.negative {
			if strings.Contains(text, neg) {
				return Verdict{Reason: ReasonNegativeSignal, NegativeMatch: neg}
			}
		}
	}

	hits := 0
	for _, pos := range c.positive {
		if strings.Contains(text, pos) {
			hits++
		}
	}

	if hits < c.minPositive {
		return Verdict{Reason: ReasonTooFewPositives, PositiveHits: hits}
	}
	return Verdict{Relevant: true, PositiveHits: hits}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
