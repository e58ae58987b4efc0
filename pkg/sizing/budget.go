package sizing

import (
	"runtime/debug"
)

// BudgetFraction is the share of available memory DefaultBudget hands to one
// resident unit.
const BudgetFraction = 0.25

// fallbackMemory is assumed when the platform cannot report free memory.
const fallbackMemory = 2 << 30

// DefaultBudget returns BudgetFraction of the memory currently available to the
// process: free physical memory where the platform reports it, further capped
// by the Go runtime memory limit when one is set.
func DefaultBudget() int64 {
	return BudgetWithFraction(BudgetFraction)
}

// BudgetWithFraction is DefaultBudget with a caller-chosen share of the
// available memory.
func BudgetWithFraction(fraction float64) int64 {
	return BudgetFrom(availableMemory(), fraction)
}

// BudgetFrom returns fraction of available, capped by the runtime memory
// limit. It never returns less than one kibibyte.
func BudgetFrom(available int64, fraction float64) int64 {
	if available <= 0 {
		available = fallbackMemory
	}
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < available {
		available = limit
	}
	if fraction <= 0 || fraction > 1 {
		fraction = BudgetFraction
	}

	b := int64(float64(available) * fraction)
	if b < 1024 {
		b = 1024
	}
	return b
}
