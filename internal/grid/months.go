package grid

import (
	"sync"

	"github.com/username/month-grid/pkg/dateutil"
)

// ComputeMonths computes count consecutive months starting at opts.Month.
// Months are computed concurrently, so opts.DisabledDay must be safe for
// concurrent use. The result is in month order.
func ComputeMonths(opts Options, count int) []*Grid {
	if count < 1 {
		count = 1
	}
	first := dateutil.StartOfMonth(opts.Month)
	grids := make([]*Grid, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := opts
			o.Month = dateutil.AddMonths(first, i)
			grids[i] = Compute(o)
		}(i)
	}
	wg.Wait()

	return grids
}
