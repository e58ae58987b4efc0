package logger

// Standard field keys. Use them consistently so that log lines about the same
// image or unit can be correlated.
const (
	// Images and geometry
	KeyImage    = "image"    // unit key prefix of the image
	KeyKind     = "kind"     // value kind: flag, byte, int, double
	KeyShape    = "shape"    // logical shape (x,y,z,t,b)
	KeyTotal    = "total"    // total pixel count
	KeyCapacity = "capacity" // unit capacity in elements
	KeyUnits    = "units"    // unit count
	KeyBudget   = "budget"   // memory budget in bytes
	KeyHint     = "hint"     // sizing hint

	// Paging
	KeyUnit     = "unit"     // unit number
	KeyPrevious = "previous" // unit number being evicted
	KeyDirty    = "dirty"    // whether the evicted unit had writes
	KeyFresh    = "fresh"    // unit was allocated rather than loaded
	KeyBytes    = "bytes"    // encoded unit size

	// Storage
	KeyBackend = "backend" // memory, fs, mmap, badger, s3
	KeyPath    = "path"    // on-disk location
	KeyKey     = "key"     // block store key

	// Operation metadata
	KeyOperation  = "operation"   // aggregate or CLI operation name
	KeyWorkers    = "workers"     // parallel workers
	KeyDurationMs = "duration_ms" // elapsed time in milliseconds
	KeyError      = "error"       // error message
)

// Err returns the standard error attribute pair.
func Err(err error) []any {
	if err == nil {
		return nil
	}
	return []any{KeyError, err.Error()}
}
