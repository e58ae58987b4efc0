//go:build !linux

package sizing

// availableMemory is unknown outside Linux; BudgetFrom falls back to a fixed
// figure.
func availableMemory() int64 {
	return 0
}
