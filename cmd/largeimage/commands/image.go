package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"largeimage/internal/models"
	"largeimage/pkg/addressing"
	"largeimage/pkg/backend"
	"largeimage/pkg/codec"
	"largeimage/pkg/largeimage"
	lmetrics "largeimage/pkg/metrics/prometheus"
	"largeimage/pkg/pixels"
)

// pagedImage is the kind-independent surface the commands work with.
type pagedImage interface {
	pixels.Image
	Info() models.ImageInfo
	FillDouble(v float64) error
	Statistics() (largeimage.Statistics, error)
	Flush() error
	Close() error
}

// imageFlags are the flags of every command that creates an image.
type imageFlags struct {
	shape string
	kind  string
}

func (f *imageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shape, "shape", "", "image extents x,y[,z[,t[,b]]] (missing axes are 1)")
	cmd.Flags().StringVar(&f.kind, "kind", "byte", "value kind (flag, byte, int, double)")
	_ = cmd.MarkFlagRequired("shape")
}

// parseShape parses "x,y[,z[,t[,b]]]".
func parseShape(s string) (addressing.Shape, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 5 {
		return addressing.Shape{}, fmt.Errorf("invalid shape %q: want 2 to 5 comma separated extents", s)
	}

	ext := [5]int{1, 1, 1, 1, 1}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return addressing.Shape{}, fmt.Errorf("invalid shape %q: %w", s, err)
		}
		ext[i] = n
	}
	return addressing.NewShape(ext[0], ext[1], ext[2], ext[3], ext[4])
}

// openImage creates an image of the flagged shape and kind over the
// configured block store. The returned close function releases both.
func openImage(ctx context.Context, f imageFlags) (pagedImage, func() error, error) {
	shape, err := parseShape(f.shape)
	if err != nil {
		return nil, nil, err
	}
	kind, err := codec.ParseKind(f.kind)
	if err != nil {
		return nil, nil, err
	}

	store, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	img, err := newImage(kind, shape,
		largeimage.WithBudget(cfg.Budget()),
		largeimage.WithSizingHint(cfg.Memory.SizingHint),
		largeimage.WithStore(store),
		largeimage.WithMetrics(lmetrics.NewUnitStoreMetrics()),
	)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		err := img.Close()
		if cerr := store.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return img, closeFn, nil
}

func newImage(kind codec.Kind, shape addressing.Shape, opts ...largeimage.Option) (pagedImage, error) {
	var (
		img pagedImage
		err error
	)
	switch kind {
	case codec.Flag:
		img, err = largeimage.NewBoolean(shape, opts...)
	case codec.Byte:
		img, err = largeimage.NewByte(shape, opts...)
	case codec.Int:
		img, err = largeimage.NewInt(shape, opts...)
	case codec.Double:
		img, err = largeimage.NewDouble(shape, opts...)
	default:
		return nil, fmt.Errorf("unknown value kind %s", kind)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// countMismatches scans the image in parallel and counts pixels whose double
// view converts to something other than v in the native kind.
func countMismatches(img pagedImage, workers int, v float64) (int64, error) {
	switch img := img.(type) {
	case *largeimage.Boolean:
		return mismatches(img, workers, v)
	case *largeimage.Byte:
		return mismatches(img, workers, v)
	case *largeimage.Int:
		return mismatches(img, workers, v)
	case *largeimage.Double:
		return mismatches(img, workers, v)
	default:
		return 0, fmt.Errorf("unsupported image type %T", img)
	}
}

func mismatches[T codec.Element](img *largeimage.LargeImage[T], workers int, v float64) (int64, error) {
	want := codec.For[T]().FromDouble(v)

	var n atomic.Int64
	err := img.ParallelVisit(workers, func(_ int64, values []T) error {
		var bad int64
		for _, x := range values {
			if x != want {
				bad++
			}
		}
		n.Add(bad)
		return nil
	})
	return n.Load(), err
}
