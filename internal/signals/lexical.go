package signals

import (
	"math"
	"strings"
	"unicode"
)

// #region numeric

// Clamp01 restricts v to [0, 1]. NaN and infinities collapse to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampRange restricts v to [lo, hi]; non-finite values become lo.
func ClampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite returns v, or def when v is NaN or infinite.
func Finite(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Optional01 dereferences p clamped to [0, 1], or returns def when p is nil
// or non-finite.
func Optional01(p *float64, def float64) float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return def
	}
	return Clamp01(*p)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// #endregion numeric

// #region keywords

// ContainsAny reports whether lower contains any of the keywords.
// lower must already be lowercased.
func ContainsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CountHits counts how many distinct keywords occur in lower.
func CountHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// #endregion keywords

// #region text-shape

// CapsRatio is the fraction of letters that are upper case. Non-letters are
// ignored; text with no letters yields 0.
func CapsRatio(text string) float64 {
	var letters, upper int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// LetterCount counts letters in text.
func LetterCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Tokenize splits text into lowercase whitespace-delimited tokens.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// #endregion text-shape
