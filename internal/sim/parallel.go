package sim

import (
	"context"
	"sync"

	"github.com/san-kum/hydrosim/internal/hydro"
)

// Variant is one member of a sweep: a fresh apparatus and the controller
// that drives it.
type Variant struct {
	Label      string
	Apparatus  *hydro.Apparatus
	Controller Controller
}

// Sweep runs independent variants concurrently. Each variant owns its
// apparatus, so no state is shared between goroutines.
type Sweep struct {
	variants []Variant
	metrics  func() []Metric
}

func NewSweep(variants []Variant, metrics func() []Metric) *Sweep {
	return &Sweep{variants: variants, metrics: metrics}
}

func (w *Sweep) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(w.variants))
	errs := make([]error, len(w.variants))

	var wg sync.WaitGroup
	for i, v := range w.variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()

			s := New(v.Apparatus, v.Controller)
			if w.metrics != nil {
				for _, m := range w.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, v)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
