package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize lowercases text and splits it into alphanumeric runs. The same
// tokenizer serves both index build and query time; no stopword removal is
// applied, IDF weighting already dilutes common terms.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// sparseVec is one L2-normalized weight row. Columns are kept sorted so that
// norms and dot products accumulate in a fixed order, which keeps repeated
// builds bit-for-bit identical.
type sparseVec struct {
	cols []int
	vals []float64
}

func (v sparseVec) dot(other sparseVec) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.cols) && j < len(other.cols) {
		switch {
		case v.cols[i] == other.cols[j]:
			sum += v.vals[i] * other.vals[j]
			i++
			j++
		case v.cols[i] < other.cols[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func (v *sparseVec) normalize() {
	sum := 0.0
	for _, val := range v.vals {
		sum += val * val
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v.vals {
		v.vals[i] /= norm
	}
}

// vectorizer holds the frozen vocabulary and smoothed IDF weights of one
// index build. It is never refit at query time; out-of-vocabulary terms
// simply contribute zero weight.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// fit builds the vocabulary (sorted-term column order) and IDF values, then
// weights every document: tf(term) * (ln((1+N)/(1+df(term))) + 1), with each
// row L2-normalized.
func fit(docs []string) (*vectorizer, []sparseVec) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokens := Tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	rows := make([]sparseVec, len(docs))
	for i, tokens := range tokenized {
		rows[i] = v.weigh(tokens)
	}
	return v, rows
}

// transform projects a query into the frozen vocabulary and L2-normalizes it.
// A query with only unknown terms yields an empty vector.
func (v *vectorizer) transform(text string) sparseVec {
	return v.weigh(Tokenize(text))
}

func (v *vectorizer) weigh(tokens []string) sparseVec {
	tf := make(map[int]int)
	for _, tok := range tokens {
		if col, ok := v.vocabulary[tok]; ok {
			tf[col]++
		}
	}
	if len(tf) == 0 {
		return sparseVec{}
	}

	cols := make([]int, 0, len(tf))
	for col := range tf {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	vec := sparseVec{cols: cols, vals: make([]float64, len(cols))}
	for i, col := range cols {
		vec.vals[i] = float64(tf[col]) * v.idf[col]
	}
	vec.normalize()
	return vec
}
