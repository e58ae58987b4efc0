package unitstore

import "time"

// Metrics observes paging activity. A nil Metrics disables collection with
// no overhead beyond a nil check.
type Metrics interface {
	// ObserveLoad records a unit read back from the block store.
	ObserveLoad(bytes int, duration time.Duration, err error)

	// RecordFresh records a unit materialized without a load.
	RecordFresh()

	// ObserveFlush records a dirty unit written to the block store.
	ObserveFlush(bytes int, duration time.Duration, err error)

	// RecordEviction records a unit leaving residency.
	RecordEviction(dirty bool)
}
