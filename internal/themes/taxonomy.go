package themes

import (
	"errors"
	"fmt"
	"strings"

	"AppScanner/internal/textutil"
)

// Example-map key prefixes.
const (
	PraisePrefix    = "praise:"
	ComplaintPrefix = "complaint:"
	FixedKey        = "fixed"
)

// Label is a named theme matched by any of its substrings.
type Label struct {
	Name       string   `yaml:"name"`
	Substrings []string `yaml:"substrings"`
}

// Taxonomy is the fixed set of praise and complaint themes plus the "fixed" indicators.
// Declaration order of the labels is significant: it breaks ranking ties.
type Taxonomy struct {
	Praise    []Label  `yaml:"praise"`
	Complaint []Label  `yaml:"complaint"`
	Fixed     []string `yaml:"fixed"`
}

// Validate rejects taxonomies that would silently under-classify.
func (t Taxonomy) Validate() error {
	var errs []error

	if len(t.Praise) == 0 {
		errs = append(errs, errors.New("praise dimension has no labels"))
	}
	if len(t.Complaint) == 0 {
		errs = append(errs, errors.New("complaint dimension has no labels"))
	}
	if len(textutil.NormalizeAll(t.Fixed)) != len(t.Fixed) || len(t.Fixed) == 0 {
		errs = append(errs, errors.New("fixed indicators must be a non-empty list of non-blank substrings"))
	}

	seen := map[string]string{}
	check := func(dimension string, labels []Label) {
		for i, l := range labels {
			name := strings.TrimSpace(l.Name)
			if name == "" {
				errs = append(errs, fmt.Errorf("%s label #%d has no name", dimension, i))
				continue
			}
			if prev, ok := seen[name]; ok {
				errs = append(errs, fmt.Errorf("label %q declared in both %s and %s", name, prev, dimension))
			}
			seen[name] = dimension
			if len(l.Substrings) == 0 {
				errs = append(errs, fmt.Errorf("%s label %q has no substrings", dimension, name))
			}
			if len(textutil.NormalizeAll(l.Substrings)) != len(l.Substrings) {
				errs = append(errs, fmt.Errorf("%s label %q has a blank substring", dimension, name))
			}
		}
	}
	check("praise", t.Praise)
	check("complaint", t.Complaint)

	return errors.Join(errs...)
}

func (t Taxonomy) normalized() Taxonomy {
	norm := func(labels []Label) []Label {
		out := make([]Label, len(labels))
		for i, l := range labels {
			out[i] = Label{Name: strings.TrimSpace(l.Name), Substrings: textutil.NormalizeAll(l.Substrings)}
		}
		return out
	}
	return Taxonomy{
		Praise:    norm(t.Praise),
		Complaint: norm(t.Complaint),
		Fixed:     textutil.NormalizeAll(t.Fixed),
	}
}
