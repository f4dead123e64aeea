package operator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rulego/tablecalc/types"
)

// Run evaluates rows in order and collects the rows the filter kept.
// The first evaluation error aborts the run.
func Run(ev Evaluator, rows []types.Row) ([]types.Row, error) {
	out := make([]types.Row, 0, len(rows))
	for i, row := range rows {
		r, ok, err := ev.Evaluate(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// RunParallel splits rows into contiguous chunks evaluated by up to workers
// goroutines. The result keeps input order and equals Run on the same rows.
func RunParallel(ctx context.Context, ev Evaluator, rows []types.Row, workers int) ([]types.Row, error) {
	if workers <= 1 || len(rows) < 2 {
		return Run(ev, rows)
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	chunk := (len(rows) + workers - 1) / workers
	results := make([][]types.Row, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start, end := w*chunk, (w+1)*chunk
		if start >= len(rows) {
			break
		}
		if end > len(rows) {
			end = len(rows)
		}
		w := w
		g.Go(func() error {
			part := make([]types.Row, 0, end-start)
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, ok, err := ev.Evaluate(rows[i])
				if err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				if ok {
					part = append(part, r)
				}
			}
			results[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.Row, 0, len(rows))
	for _, part := range results {
		out = append(out, part...)
	}
	return out, nil
}
