package chromedp_fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/repository"
)

// ChromedpFetcher renders pages in headless Chrome before returning their HTML.
// It is used when the information page only fills in its metadata client-side.
type ChromedpFetcher struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
	logger        *zap.Logger
}

// NewChromedpFetcher creates a page fetcher backed by a pool of browser allocators.
func NewChromedpFetcher(userAgent string, pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpFetcher {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(userAgent),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	return &ChromedpFetcher{
		allocatorPool: pool,
		timeout:       pageLoadTimeout,
		logger:        logger,
	}
}

// FetchPage navigates to url, waits for the body and returns the rendered document.
func (f *ChromedpFetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	// Tie the browser task to the caller's context as well.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	status := &documentStatus{}
	chromedp.ListenTarget(taskCtx, status.observe)

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		f.logger.Warn("browser render failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", repository.ErrTransport, err)
	}
	if err := status.err(); err != nil {
		f.logger.Warn("browser page returned an error status", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	f.logger.Debug("page rendered", zap.String("url", url), zap.Duration("elapsed", time.Since(start)))
	return []byte(html), nil
}

// documentStatus remembers the HTTP status of the first document response of a page load.
type documentStatus struct {
	mu     sync.Mutex
	code   int64
	stored bool
}

func (s *documentStatus) observe(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stored {
		s.code, s.stored = resp.Response.Status, true
	}
}

// err maps a non-2xx document status to repository.ErrUnexpectedStatus.
// No observed response is not an error; the render itself already succeeded.
func (s *documentStatus) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored && (s.code < 200 || s.code > 299) {
		return fmt.Errorf("%w: received status code %d", repository.ErrUnexpectedStatus, s.code)
	}
	return nil
}
