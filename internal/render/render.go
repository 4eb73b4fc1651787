// Package render turns HTML markup into a viewport screenshot using a
// headless Chrome driven over the DevTools protocol.
package render

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
)

// Config controls the renderer pool and per-render timing.
type Config struct {
	// PoolSize bounds how many browser contexts may render concurrently.
	PoolSize int

	// AcquireTimeout bounds how long a render blocks waiting for a pool slot
	// under load before failing.
	AcquireTimeout time.Duration

	// RenderTimeout bounds a single render from navigation to screenshot.
	RenderTimeout time.Duration

	// SettleDelay is the fixed wait after the document content is set, used
	// when the markup references no external assets.
	SettleDelay time.Duration

	// IdleAfter is the network-quiet window that ends the wait when the
	// markup does reference external assets.
	IdleAfter time.Duration

	Headless bool
}

// DefaultConfig returns renderer defaults suitable for a small service.
func DefaultConfig() Config {
	return Config{
		PoolSize:       2,
		AcquireTimeout: 15 * time.Second,
		RenderTimeout:  30 * time.Second,
		SettleDelay:    500 * time.Millisecond,
		IdleAfter:      2 * time.Second,
		Headless:       true,
	}
}

// Renderer owns a Chrome allocator and a bounded slot pool. It is safe for
// concurrent use; each Render runs in its own browser context which is torn
// down on every exit path.
type Renderer struct {
	cfg         Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
	sem         chan struct{}
	logger      logging.Logger
}

// New creates a Renderer. Chrome itself is launched lazily on the first
// render, so construction is cheap.
func New(cfg Config, logger logging.Logger) *Renderer {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultConfig().PoolSize
	}
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Renderer{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		sem:         make(chan struct{}, cfg.PoolSize),
		logger:      logger.With(logging.Field{Key: "component", Value: "Renderer"}),
	}
}

// Render loads html into a fresh browser context at the given viewport and
// captures a PNG screenshot. Acquisition of a pool slot blocks up to
// AcquireTimeout; the browser context is released on every path.
func (r *Renderer) Render(ctx context.Context, html string, width, height int) (*critique.ImagePayload, error) {
	select {
	case r.sem <- struct{}{}:
	case <-time.After(r.cfg.AcquireTimeout):
		return nil, critique.Renderf(nil, "renderer busy: no slot available within %s", r.cfg.AcquireTimeout)
	case <-ctx.Done():
		return nil, critique.Renderf(ctx.Err(), "render canceled while waiting for a slot")
	}
	defer func() { <-r.sem }()

	tabCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.cfg.RenderTimeout)
	defer cancelTimeout()

	// Only wait for network idle when the document actually references
	// external assets; inline-only markup settles after a short fixed delay.
	external := hasExternalAssets(html)
	var idleCh chan struct{}
	if external {
		idleCh = waitNetworkIdle(tabCtx, r.cfg.IdleAfter)
	}

	r.logger.Debug("rendering html",
		logging.Field{Key: "width", Value: width},
		logging.Field{Key: "height", Value: height},
		logging.Field{Key: "external_assets", Value: external})

	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		network.Enable(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
	)
	if err != nil {
		r.logger.Warn("render failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, critique.Renderf(err, "loading html into browser: %v", err)
	}

	if external {
		select {
		case <-idleCh:
		case <-tabCtx.Done():
			return nil, critique.Renderf(tabCtx.Err(), "timed out waiting for page assets")
		}
	} else {
		select {
		case <-time.After(r.cfg.SettleDelay):
		case <-tabCtx.Done():
			return nil, critique.Renderf(tabCtx.Err(), "render canceled during settle delay")
		}
	}

	var buf []byte
	if err := chromedp.Run(tabCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		r.logger.Warn("screenshot failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, critique.Renderf(err, "capturing screenshot: %v", err)
	}

	return &critique.ImagePayload{Data: buf, MIMEType: "image/png"}, nil
}

// Close tears down the Chrome allocator.
func (r *Renderer) Close() error {
	r.allocCancel()
	return nil
}

// hasExternalAssets reports whether the markup references network resources
// (images, stylesheets, scripts) that the page will fetch before it settles.
func hasExternalAssets(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Unparseable markup still renders; assume the worst and wait.
		return true
	}
	found := false
	doc.Find("img[src], script[src], link[href], source[src], iframe[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range []string{"src", "href"} {
			if v, ok := sel.Attr(attr); ok {
				v = strings.TrimSpace(strings.ToLower(v))
				if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "//") {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}

// waitNetworkIdle returns a channel that is signaled once no network request
// has been active for idleAfter. Events are counted from the moment of the
// call, so attach it before content is set.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() { close(idleChan) })
			}
		})
	}

	// A page with external references may still issue zero requests (cached,
	// blocked, or invalid URLs); arm the timer up front so the wait ends.
	startTimer()

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&activeReqs, -1) <= 0 {
				startTimer()
			}
		}
	})

	return idleChan
}
