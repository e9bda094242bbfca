package themes

import "sort"

// Example is a retained review excerpt. Length is the rune length of the untruncated text.
type Example struct {
	Text   string
	Length int
	Score  int
}

// ExampleSet keeps the longest excerpts seen so far, never more than its capacity.
// Entries stay ordered by descending Length.
type ExampleSet struct {
	capacity int
	entries  []Example
}

// NewExampleSet allocates a set holding at most capacity examples.
func NewExampleSet(capacity int) *ExampleSet {
	if capacity < 0 {
		capacity = 0
	}
	return &ExampleSet{capacity: capacity, entries: make([]Example, 0, capacity)}
}

// Offer admits e if there is room or it is longer than the shortest retained example.
func (s *ExampleSet) Offer(e Example) bool {
	if s.capacity == 0 {
		return false
	}
	if len(s.entries) >= s.capacity {
		if e.Length <= s.entries[len(s.entries)-1].Length {
			return false
		}
		s.entries = s.entries[:len(s.entries)-1]
	}

	idx := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Length < e.Length
	})
	s.entries = append(s.entries, Example{})
	copy(s.entries[idx+1:], s.entries[idx:])
	s.entries[idx] = e
	return true
}

// Len returns the number of retained examples.
func (s *ExampleSet) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the retained examples, longest first.
func (s *ExampleSet) Entries() []Example {
	out := make([]Example, len(s.entries))
	copy(out, s.entries)
	return out
}

// Texts returns the retained excerpt texts, longest first.
func (s *ExampleSet) Texts() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Text
	}
	return out
}
