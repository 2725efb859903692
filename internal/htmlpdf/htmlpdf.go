// Package htmlpdf prints HTML to PDF through a headless browser.
// Office documents that have no direct PDF path (spreadsheets,
// presentations, mail messages) are rendered to HTML first and then
// printed here so the output matches what a browser would show.
package htmlpdf

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/docforge/docforge/internal/docerr"
)

// Options configures one print run. Dimensions are in inches.
type Options struct {
	Landscape   bool
	PaperWidth  float64
	PaperHeight float64
	Margin      float64
}

// DefaultOptions prints portrait US Letter with half-inch margins.
func DefaultOptions() Options {
	return Options{PaperWidth: 8.5, PaperHeight: 11, Margin: 0.5}
}

// Printer holds a reusable headless browser. It is safe for concurrent
// use; each conversion runs in its own tab. Call Close when done.
type Printer struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewPrinter starts the headless browser eagerly so a missing or
// broken browser install surfaces here rather than mid-conversion.
func NewPrinter(chromePath string) (*Printer, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", true),
	)
	if chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, docerr.New(docerr.KindTransport, "htmlpdf.NewPrinter",
			fmt.Errorf("start browser: %w", err))
	}

	return &Printer{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close shuts the browser down. Close is idempotent.
func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.browserCancel()
	p.allocCancel()
	return nil
}

// Print renders an HTML string and returns PDF bytes.
func (p *Printer) Print(ctx context.Context, html string, opts Options) ([]byte, error) {
	const op = "htmlpdf.Print"

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, docerr.Newf(docerr.KindTransport, op, "printer is closed")
	}
	p.mu.Unlock()

	f, err := os.CreateTemp("", "docforge-*.html")
	if err != nil {
		return nil, fmt.Errorf("create temp html: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp html: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp html: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("resolve temp html: %w", err)
	}
	target := (&url.URL{Scheme: "file", Path: abs}).String()

	if opts.PaperWidth <= 0 || opts.PaperHeight <= 0 {
		def := DefaultOptions()
		opts.PaperWidth, opts.PaperHeight = def.PaperWidth, def.PaperHeight
	}

	tabCtx, tabCancel := chromedp.NewContext(p.browserCtx)
	defer tabCancel()

	// The tab context descends from the browser, not the caller, so a
	// caller cancellation has to tear the tab down explicitly.
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-tabCtx.Done():
		}
	}()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithMarginTop(opts.Margin).
				WithMarginRight(opts.Margin).
				WithMarginBottom(opts.Margin).
				WithMarginLeft(opts.Margin).
				WithPrintBackground(true).
				WithLandscape(opts.Landscape).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docerr.New(docerr.KindTransport, op, err)
	}

	return buf, nil
}
