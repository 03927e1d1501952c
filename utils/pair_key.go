package utils

import (
	"errors"
	"fmt"
)

// ErrSamePair is returned when both sides of a pair are the same user
var ErrSamePair = errors.New("a user cannot be paired with themself")

// CanonicalPair orders an unordered user pair into its canonical (low, high)
// form using lexicographic order, so CanonicalPair(a, b) == CanonicalPair(b, a).
func CanonicalPair(a, b string) (low, high string, err error) {
	if a == b {
		return "", "", ErrSamePair
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// PairMatchID builds the match primary key for a canonical pair
func PairMatchID(low, high string) string {
	return fmt.Sprintf("%s_%s", low, high)
}
