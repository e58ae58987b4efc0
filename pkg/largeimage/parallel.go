package largeimage

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"largeimage/internal/logger"
	"largeimage/pkg/unitstore"
)

// ParallelVisit calls fn for every unit of the image from up to workers
// goroutines (GOMAXPROCS when workers < 1). Each worker scans a contiguous
// range of units through its own read-only unit store over the shared block
// store, so fn runs concurrently and must be safe for that. values must not
// be modified or retained.
//
// The resident unit is flushed first. The block store must be safe for
// concurrent use, which every blockstore backend is.
func (l *LargeImage[T]) ParallelVisit(workers int, fn func(base int64, values []T) error) error {
	if err := l.units.Flush(); err != nil {
		return err
	}

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if int64(workers) > l.geom.Count {
		workers = int(l.geom.Count)
	}

	start := time.Now()
	per := (l.geom.Count + int64(workers) - 1) / int64(workers)

	var g errgroup.Group
	for from := int64(0); from < l.geom.Count; from += per {
		to := min(from+per, l.geom.Count)
		g.Go(func() error {
			units, err := unitstore.New[T](unitstore.Config{
				Geometry: l.geom,
				Blocks:   l.blocks,
				Prefix:   l.units.Prefix(),
				Metrics:  l.metrics,
				ReadOnly: true,
			})
			if err != nil {
				return err
			}
			defer units.Close()
			return units.VisitUnits(from, to, fn)
		})
	}
	err := g.Wait()

	logger.Debug("parallel visit finished",
		logger.KeyImage, l.units.Prefix(),
		logger.KeyWorkers, workers,
		logger.KeyDurationMs, logger.Duration(start))
	return err
}
