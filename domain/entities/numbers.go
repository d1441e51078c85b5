package entities

import "fmt"

const (
	// DefaultPickCount is how many numbers a selection must contain.
	DefaultPickCount = 6

	// DefaultMaxNumber is the upper bound of the number universe (inclusive).
	DefaultMaxNumber = 37
)

// ValidateSelection checks that nums is exactly pickCount distinct integers
// within [1, maxNumber]. All violations are reported as *ValidationError.
func ValidateSelection(nums []int64, pickCount int, maxNumber int64) error {
	if len(nums) != pickCount {
		return NewValidationError("numbers", fmt.Sprintf("selection must contain exactly %d numbers, got %d", pickCount, len(nums)))
	}

	seen := make(map[int64]bool, len(nums))
	for _, n := range nums {
		if n < 1 || n > maxNumber {
			return NewValidationError("numbers", fmt.Sprintf("number %d is outside the valid range [1, %d]", n, maxNumber))
		}
		if seen[n] {
			return NewValidationError("numbers", fmt.Sprintf("number %d appears more than once", n))
		}
		seen[n] = true
	}

	return nil
}

// MatchCount returns the size of the intersection of selection and winning.
// Order-independent; both inputs are assumed to hold distinct values.
func MatchCount(selection, winning []int64) int {
	winningSet := make(map[int64]bool, len(winning))
	for _, n := range winning {
		winningSet[n] = true
	}

	count := 0
	for _, n := range selection {
		if winningSet[n] {
			count++
		}
	}
	return count
}
