package features

import (
	"math"
	"sort"
	"strconv"

	"github.com/ferc1-etl/internal/plants"
)

// transformer turns one record attribute into a fixed-width numeric block.
// Fit learns the encoding from the whole table; Transform must tolerate
// values never seen at fit time by encoding them as zeros.
type transformer interface {
	Fit(recs []plants.Record)
	Transform(recs []plants.Record) []Vector
	Width() int
}

// ngramTFIDF encodes plant names as idf-weighted character n-gram counts,
// l2-normalized per record. Two spellings of the same plant share most of
// their n-grams even when tokens move around or get abbreviated.
type ngramTFIDF struct {
	ngramMin int
	ngramMax int
	vocab    map[string]int
	idf      []float64
}

func newNgramTFIDF(ngramMin, ngramMax int) *ngramTFIDF {
	return &ngramTFIDF{ngramMin: ngramMin, ngramMax: ngramMax}
}

// ngrams emits every character n-gram of s with length in [ngramMin, ngramMax].
func (t *ngramTFIDF) ngrams(s string) []string {
	runes := []rune(s)
	var out []string
	for n := t.ngramMin; n <= t.ngramMax; n++ {
		for i := 0; i+n <= len(runes); i++ {
			out = append(out, string(runes[i:i+n]))
		}
	}
	return out
}

func (t *ngramTFIDF) Fit(recs []plants.Record) {
	df := make(map[string]int)
	for _, r := range recs {
		seen := make(map[string]bool)
		for _, g := range t.ngrams(r.PlantName) {
			if !seen[g] {
				seen[g] = true
				df[g]++
			}
		}
	}

	// Sort the vocabulary so column indices are reproducible run to run.
	terms := make([]string, 0, len(df))
	for g := range df {
		terms = append(terms, g)
	}
	sort.Strings(terms)

	n := float64(len(recs))
	t.vocab = make(map[string]int, len(terms))
	t.idf = make([]float64, len(terms))
	for i, g := range terms {
		t.vocab[g] = i
		// Smoothed inverse document frequency.
		t.idf[i] = math.Log((1+n)/(1+float64(df[g]))) + 1
	}
}

func (t *ngramTFIDF) Transform(recs []plants.Record) []Vector {
	out := make([]Vector, len(recs))
	for ri, r := range recs {
		counts := make(map[int]float64)
		for _, g := range t.ngrams(r.PlantName) {
			if col, ok := t.vocab[g]; ok {
				counts[col]++
			}
		}
		if len(counts) == 0 {
			continue
		}

		cols := make([]int, 0, len(counts))
		for col := range counts {
			cols = append(cols, col)
		}
		sort.Ints(cols)

		var vec Vector
		var sq float64
		for _, col := range cols {
			w := counts[col] * t.idf[col]
			vec.append(col, w)
			sq += w * w
		}
		if norm := math.Sqrt(sq); norm > 0 {
			vec.scale(1 / norm)
		}
		out[ri] = vec
	}
	return out
}

func (t *ngramTFIDF) Width() int { return len(t.vocab) }

// oneHot encodes a categorical attribute over the categories observed at fit
// time. Unseen categories at transform time encode as an all-zero block
// rather than raising.
type oneHot struct {
	value      func(plants.Record) string
	categories map[string]int
}

func newOneHot(value func(plants.Record) string) *oneHot {
	return &oneHot{value: value}
}

func (t *oneHot) Fit(recs []plants.Record) {
	seen := make(map[string]bool)
	var cats []string
	for _, r := range recs {
		v := t.value(r)
		if !seen[v] {
			seen[v] = true
			cats = append(cats, v)
		}
	}
	sort.Strings(cats)

	t.categories = make(map[string]int, len(cats))
	for i, c := range cats {
		t.categories[c] = i
	}
}

func (t *oneHot) Transform(recs []plants.Record) []Vector {
	out := make([]Vector, len(recs))
	for ri, r := range recs {
		if col, ok := t.categories[t.value(r)]; ok {
			out[ri].append(col, 1)
		}
	}
	return out
}

func (t *oneHot) Width() int { return len(t.categories) }

// robustScaled encodes capacity as an outlier-robust scaled value followed
// by per-record l2 normalization of the block, so a handful of multi-GW
// plants cannot dominate the distance metric.
type robustScaled struct {
	value  func(plants.Record) float64
	center float64
	scale  float64
}

func newRobustScaled(value func(plants.Record) float64) *robustScaled {
	return &robustScaled{value: value}
}

func (t *robustScaled) Fit(recs []plants.Record) {
	var vals []float64
	for _, r := range recs {
		if v := t.value(r); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		t.center = 0
		t.scale = 1
		return
	}
	sort.Float64s(vals)

	t.center = quantile(0.5, vals)
	t.scale = quantile(0.75, vals) - quantile(0.25, vals)
	if t.scale == 0 {
		t.scale = 1
	}
}

// quantile returns the p-th quantile of the sorted values, interpolating
// linearly between closest ranks at h = (n-1)*p. This is the numpy "linear"
// percentile convention; gonum's empirical-CDF quantile lands on different
// values for the same input and must not be substituted here.
func quantile(p float64, sorted []float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	v := sorted[int(lo)]
	if frac := h - lo; frac > 0 {
		v += frac * (sorted[int(lo)+1] - v)
	}
	return v
}

func (t *robustScaled) Transform(recs []plants.Record) []Vector {
	out := make([]Vector, len(recs))
	for ri, r := range recs {
		v := t.value(r)
		if math.IsNaN(v) {
			continue
		}
		scaled := (v - t.center) / t.scale
		// l2 normalization of a one-column block reduces to the sign.
		if scaled > 0 {
			scaled = 1
		} else if scaled < 0 {
			scaled = -1
		}
		out[ri].append(0, scaled)
	}
	return out
}

func (t *robustScaled) Width() int { return 1 }

// categoricalYear renders the construction year as a category, with the
// missing sentinel as its own category.
func categoricalYear(r plants.Record) string {
	return strconv.Itoa(r.ConstructionYear)
}

func categoricalRespondent(r plants.Record) string {
	return strconv.Itoa(r.RespondentID)
}
