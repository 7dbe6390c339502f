package sampler

import (
	"math"

	"github.com/abhisek/docquiz/internal/document"
)

// EstimateTokens approximates the token count of s as ceil(runes / 4.2).
func EstimateTokens(s string) int {
	n := document.Len(s)
	if n == 0 {
		return 0
	}
	return int(math.Ceil(float64(n) / charsPerToken))
}

// cosine returns the cosine similarity of a and b over their shared prefix,
// or 0 when either vector is empty or zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na <= 0 || nb <= 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
