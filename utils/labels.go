package utils

import (
	"math"
	"strings"
)

// SimplifyLabel derives the fallback nutrition query from a food label: the
// clause before the first occurrence of sep, trimmed. Vision labels often
// append an accompaniment ("Hamburguesa con papas") that the nutrition index
// cannot match verbatim.
func SimplifyLabel(label, sep string) string {
	head, _, _ := strings.Cut(label, sep)
	return strings.TrimSpace(head)
}

// RoundHalfUp rounds to the nearest integer with halves going up
// (55.5 -> 56), matching Math.round semantics.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
