package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lengths(s *ExampleSet) []int {
	out := make([]int, 0, s.Len())
	for _, e := range s.Entries() {
		out = append(out, e.Length)
	}
	return out
}

func TestExampleSetKeepsLongest(t *testing.T) {
	t.Parallel()

	s := NewExampleSet(3)
	for _, n := range []int{120, 300, 150, 110, 500, 130} {
		s.Offer(Example{Length: n})
	}

	assert.Equal(t, []int{500, 300, 150}, lengths(s))
}

func TestExampleSetRejectsNotLonger(t *testing.T) {
	t.Parallel()

	s := NewExampleSet(2)
	assert.True(t, s.Offer(Example{Text: "a", Length: 200}))
	assert.True(t, s.Offer(Example{Text: "b", Length: 100}))
	assert.False(t, s.Offer(Example{Text: "c", Length: 100}))
	assert.False(t, s.Offer(Example{Text: "d", Length: 50}))
	assert.True(t, s.Offer(Example{Text: "e", Length: 150}))

	assert.Equal(t, []string{"a", "e"}, s.Texts())
}

func TestExampleSetZeroCapacity(t *testing.T) {
	t.Parallel()

	s := NewExampleSet(0)
	assert.False(t, s.Offer(Example{Length: 1000}))
	assert.Zero(t, s.Len())
}
