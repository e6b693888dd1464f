package extract

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"belegexport/internal/logger"
)

// Pipeline runs page classification, metadata extraction and the
// format-specific line-item parsers over a document's pages. Pages are
// independent, so they fan out over a worker pool; the combined result
// is re-sorted by page number for deterministic export files.
type Pipeline struct {
	workers int
	log     zerolog.Logger
}

// NewPipeline creates a pipeline with the given worker count. Counts
// below 1 fall back to sequential processing.
func NewPipeline(workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		workers: workers,
		log:     logger.WithComponent("extract"),
	}
}

// PageResult carries one page's outcome, including the per-page error
// boundary: a failed page contributes zero items and an error, never
// aborts the document.
type PageResult struct {
	Page   int
	Format InvoiceFormat
	Meta   InvoiceMetadata
	Items  []LineItem
	Err    error
}

// ProcessPages extracts line items from all pages. A parse failure or
// panic on one page is logged and that page contributes nothing; the
// remaining pages are unaffected. The context is checked between page
// pickups, so cancellation takes effect at page granularity.
func (p *Pipeline) ProcessPages(ctx context.Context, pages []RawPage) []LineItem {
	results := p.processAll(ctx, pages)

	var items []LineItem
	for _, r := range results {
		if r.Err != nil {
			p.log.Warn().
				Int("page", r.Page).
				Err(r.Err).
				Msg("Seite übersprungen")
			continue
		}
		items = append(items, r.Items...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PageNum < items[j].PageNum
	})
	return items
}

// ProcessPagesDetailed is ProcessPages with the per-page results kept
// visible, used by the CLI to report formats and skipped pages.
func (p *Pipeline) ProcessPagesDetailed(ctx context.Context, pages []RawPage) []PageResult {
	return p.processAll(ctx, pages)
}

func (p *Pipeline) processAll(ctx context.Context, pages []RawPage) []PageResult {
	results := make([]PageResult, len(pages))

	jobs := make(chan int, len(pages))
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(pages) {
		workers = len(pages)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = PageResult{Page: pages[idx].Number, Err: ctx.Err()}
					continue
				}
				results[idx] = p.processPage(pages[idx])
			}
		}()
	}

	for idx := range pages {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Page < results[j].Page
	})
	return results
}

// processPage runs one page through classification, metadata and the
// matching parser. Panics in the parsing code are recovered here so a
// malformed page cannot take the document down.
func (p *Pipeline) processPage(page RawPage) (result PageResult) {
	const op = "processPage"

	result.Page = page.Number
	defer func() {
		if r := recover(); r != nil {
			result.Items = nil
			result.Err = NewExtractError(op, page.Number, fmt.Errorf("panic: %v", r), "")
		}
	}()

	format := DetectFormat(page)
	result.Format = format

	if format == FormatUnknown {
		result.Err = NewExtractError(op, page.Number, ErrEmptyPage, "")
		return result
	}

	meta := ExtractMetadata(page)
	result.Meta = meta

	var items []LineItem
	switch format {
	case FormatLernfoerderung:
		items = ParseLernfoerderung(page, meta)
	case FormatBereitschaft:
		items = ParseBereitschaft(page, meta)
	default:
		items = ParseOCRText(page, meta)
	}

	p.log.Debug().
		Int("page", page.Number).
		Str("format", format.String()).
		Int("items", len(items)).
		Str("rechnung", meta.InvoiceNumber).
		Msg("Seite verarbeitet")

	result.Items = items
	return result
}
