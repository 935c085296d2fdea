package match

import (
	"math"
	"testing"
)

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{
			name: "identical",
			a:    []string{"x", "y", "z"},
			b:    []string{"x", "y", "z"},
			want: 1.0,
		},
		{
			name: "nothing in common",
			a:    []string{"x", "y"},
			b:    []string{"p", "q"},
			want: 0.0,
		},
		{
			name: "empty prediction",
			a:    []string{"x", "y"},
			b:    nil,
			want: 0.0,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 1.0,
		},
		{
			name: "shifted overlap",
			a:    []string{"a", "b", "c", "d"},
			b:    []string{"b", "c", "d", "e"},
			want: 0.75, // one matching block of 3 over 8 total elements
		},
		{
			name: "split blocks",
			a:    []string{"a", "b", "x", "c", "d"},
			b:    []string{"a", "b", "y", "c", "d"},
			want: 0.8, // blocks [a b] and [c d] over 10 elements
		},
		{
			name: "blanks count as elements",
			a:    []string{"a", "b"},
			b:    []string{"a", "b", "", ""},
			want: 2.0 * 2 / 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sequenceRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("sequenceRatio(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLongestMatchTieBreaking(t *testing.T) {
	// Two equally long common runs: the earliest in a wins.
	a := []string{"a", "b", "x", "c", "d"}
	b := []string{"a", "b", "c", "d"}

	ai, bi, size := longestMatch(a, b)
	if size != 2 || ai != 0 || bi != 0 {
		t.Errorf("longestMatch = (%d,%d,%d), want (0,0,2)", ai, bi, size)
	}
}
