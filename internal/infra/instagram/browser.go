package instagram

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0 Safari/537.36"

// newBrowserContext builds a chromedp context with the configured options.
// The returned cancel releases the allocator, the tab and the timeout.
func newBrowserContext(ctx context.Context, cfg config.InstagramConfig, timeout time.Duration) (context.Context, context.CancelFunc) {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, timeout)

	cancel := func() {
		timeoutCancel()
		browserCancel()
		allocCancel()
	}
	return browserCtx, cancel
}

// injectSession sets the Instagram session cookie so tag pages render
// without the login wall. A missing session id is allowed, anonymous pages
// still expose a reduced set of posts.
func injectSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookie("sessionid", sessionID).
				WithDomain(".instagram.com").
				WithPath("/").
				WithSecure(true).
				WithHTTPOnly(true).
				Do(ctx)
		}),
	)
}
