package trellis

import (
	"context"
	"runtime"
	"sync"

	"github.com/jward/trellis/internal/store"
)

// validateLocales produces per-locale diagnostics using a three-phase
// pipeline:
//
//	Phase A (serial):  cache lookups; unchanged locales replay cached
//	                   diagnostics.
//	Phase B (parallel): bulk validation of cache misses via worker pool.
//	                   Safe because each locale's tree is independent and
//	                   read-only during validation.
//	Phase C (serial):  cache writes.
//
// With WithParallel(false), Phase B runs on a single goroutine.
func (e *Engine) validateLocales(ctx context.Context, cache *store.Store) (map[string][]Diagnostic, error) {
	results := make(map[string][]Diagnostic, len(e.catalogs))

	// ---- Phase A: cache lookups ----
	var pending []*Catalog
	for _, locale := range e.Locales() {
		cat := e.catalogs[locale]
		if diags, ok := cachedDiagnostics(cache, cat); ok {
			results[locale] = diags
			continue
		}
		pending = append(pending, cat)
	}
	if len(pending) == 0 {
		return results, nil
	}

	// ---- Phase B: parallel validation ----
	numWorkers := 1
	if e.useParallel {
		numWorkers = min(runtime.NumCPU(), len(pending))
	}

	workCh := make(chan *Catalog, len(pending))
	for _, cat := range pending {
		workCh <- cat
	}
	close(workCh)

	type result struct {
		cat   *Catalog
		diags []Diagnostic
	}
	resultCh := make(chan result, len(pending))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cat := range workCh {
				if ctx.Err() != nil {
					return
				}
				resultCh <- result{cat: cat, diags: e.validateLocale(cat)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: serial cache writes ----
	for res := range resultCh {
		results[res.cat.Locale] = res.diags
		storeDiagnostics(cache, res.cat, res.diags)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
