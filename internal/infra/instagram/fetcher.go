package instagram

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/contracts"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/service/analyzer"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

const (
	tagPageTimeout  = 5 * time.Minute
	maxScrollRounds = 40
)

// collectShortcodesJS gathers the shortcodes of all post links currently in
// the DOM, in document order.
const collectShortcodesJS = `
	(function() {
		const codes = [];
		const seen = new Set();
		document.querySelectorAll('a[href^="/p/"], a[href^="/reel/"]').forEach(a => {
			const m = a.getAttribute('href').match(/^\/(?:p|reel)\/([^\/]+)\//);
			if (m && !seen.has(m[1])) {
				seen.add(m[1]);
				codes.push(m[1]);
			}
		});
		return codes;
	})()
`

// extractPostJS reads one post page. Counts come from the shared-data script
// when present, otherwise from the og: meta tags.
const extractPostJS = `
	(function() {
		const meta = name => {
			const el = document.querySelector('meta[property="' + name + '"]');
			return el ? el.getAttribute('content') : '';
		};
		const timeEl = document.querySelector('time[datetime]');
		const data = {
			shortcode: location.pathname.split('/')[2] || '',
			ownerUsername: '',
			ownerId: '',
			timestamp: timeEl ? timeEl.getAttribute('datetime') : '',
			likes: '',
			comments: '',
			caption: meta('og:description') ? '' : '',
			isVideo: meta('og:type') === 'video' || meta('og:type') === 'video.other',
			videoViews: '',
			location: '',
			isPaidPartnership: false
		};
		const desc = meta('og:description');
		data.ogDescription = desc;
		const captionEl = document.querySelector('h1');
		if (captionEl) data.caption = captionEl.innerText;
		const headerEl = document.querySelector('header a[href^="/"]');
		if (headerEl) data.ownerUsername = headerEl.getAttribute('href').replaceAll('/', '');
		const likeEl = document.querySelector('section a[href$="/liked_by/"] span');
		if (likeEl) data.likes = likeEl.innerText;
		const viewEl = document.querySelector('section span[class*="view"]');
		if (viewEl) data.videoViews = viewEl.innerText;
		const locEl = document.querySelector('a[href^="/explore/locations/"]');
		if (locEl) data.location = locEl.innerText;
		data.isPaidPartnership = document.body.innerText.includes('Paid partnership');
		return data;
	})()
`

type pagePost struct {
	rawPost
	OGDescription string `json:"ogDescription"`
}

// BrowserFetcher scrapes Instagram hashtag pages through a headless browser.
// Errors never cross the fetch boundary as returns from FetchHashtags, they
// end up as strings inside the per-hashtag result.
type BrowserFetcher struct {
	log      pkg.Logger
	cfg      config.InstagramConfig
	fetchCfg config.FetchConfig
	cache    contracts.ResultCache
	captions *analyzer.CaptionAnalyzer
	progress func(model.FetchProgress)
	rnd      *rand.Rand
}

func NewBrowserFetcher(
	log pkg.Logger,
	cfg config.InstagramConfig,
	fetchCfg config.FetchConfig,
	cache contracts.ResultCache,
	captions *analyzer.CaptionAnalyzer,
	progress func(model.FetchProgress),
) *BrowserFetcher {
	return &BrowserFetcher{
		log:      log,
		cfg:      cfg,
		fetchCfg: fetchCfg,
		cache:    cache,
		captions: captions,
		progress: progress,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchHashtags fetches every tag sequentially. Sequential order keeps the
// result ordering equal to the query order, which the downstream dedup
// depends on, and the platform rate limits make parallel tabs pointless.
func (f *BrowserFetcher) FetchHashtags(ctx context.Context, tags []string, from, to time.Time, maxPerTag int) []*model.HashtagFetchResult {
	if limit := f.fetchCfg.MaxPostsPerTag; limit > 0 && (maxPerTag <= 0 || maxPerTag > limit) {
		maxPerTag = limit
	}

	results := make([]*model.HashtagFetchResult, 0, len(tags))

	for idx, raw := range tags {
		tag := model.NormalizeHashtag(raw)
		f.reportProgress(tag, idx+1, len(tags), 0)

		if cached, ok := f.cachedResult(ctx, tag, from, to); ok {
			results = append(results, cached)
			continue
		}

		result := f.fetchWithRetry(ctx, tag, from, to, maxPerTag)
		if len(result.ErrorMessages) == 0 && f.cache != nil {
			if err := f.cache.Set(ctx, result); err != nil {
				f.log.Warn("Failed to cache result", "hashtag", tag, "err", err)
			}
		}
		results = append(results, result)
	}

	return results
}

func (f *BrowserFetcher) cachedResult(ctx context.Context, tag string, from, to time.Time) (*model.HashtagFetchResult, bool) {
	if f.cache == nil {
		return nil, false
	}
	cached, ok := f.cache.Get(ctx, tag, from, to)
	if ok {
		f.log.Info("Using cached fetch result", "hashtag", tag, "posts", len(cached.Posts))
	}
	return cached, ok
}

func (f *BrowserFetcher) fetchWithRetry(ctx context.Context, tag string, from, to time.Time, maxPosts int) *model.HashtagFetchResult {
	var result *model.HashtagFetchResult
	var lastErr error

	for attempt := 1; attempt <= f.fetchCfg.MaxRetries; attempt++ {
		result, lastErr = f.fetchHashtag(ctx, tag, from, to, maxPosts)
		if lastErr == nil {
			return result
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < f.fetchCfg.MaxRetries {
			f.log.Warn("Fetch attempt failed, retrying",
				"hashtag", tag, "attempt", attempt, "err", lastErr)
			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(f.fetchCfg.RetryDelay * float64(time.Second))):
			}
		}
	}

	f.log.Error("All fetch attempts failed", "hashtag", tag, "err", lastErr)
	return &model.HashtagFetchResult{
		Hashtag:   tag,
		StartDate: from,
		EndDate:   to,
		FetchedAt: time.Now(),
		ErrorMessages: []string{
			fmt.Sprintf("failed after %d attempts: %v", f.fetchCfg.MaxRetries, lastErr),
		},
	}
}

// fetchHashtag opens the tag page, collects shortcodes while scrolling, then
// visits each post page. Posts arrive in reverse chronological order, so the
// first post older than the window ends the walk.
func (f *BrowserFetcher) fetchHashtag(ctx context.Context, tag string, from, to time.Time, maxPosts int) (*model.HashtagFetchResult, error) {
	result := &model.HashtagFetchResult{
		Hashtag:   tag,
		StartDate: from,
		EndDate:   to,
		FetchedAt: time.Now(),
	}

	browserCtx, cancel := newBrowserContext(ctx, f.cfg, tagPageTimeout)
	defer cancel()

	if err := injectSession(browserCtx, f.cfg.SessionID); err != nil {
		return nil, fmt.Errorf("inject session: %w", err)
	}

	tagURL := fmt.Sprintf("%s/explore/tags/%s/", f.cfg.BaseURL, tag)
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(tagURL),
		chromedp.WaitVisible(`main article`, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("load tag page %s: %w", tagURL, err)
	}

	shortcodes, err := f.collectShortcodes(browserCtx, maxPosts)
	if err != nil {
		return nil, fmt.Errorf("collect shortcodes for #%s: %w", tag, err)
	}
	f.log.Info("Collected post links", "hashtag", tag, "count", len(shortcodes))

	for _, shortcode := range shortcodes {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.delay(ctx)

		post, err := f.fetchPost(browserCtx, shortcode, tag)
		if err != nil {
			f.log.Warn("Failed to process post", "shortcode", shortcode, "err", err)
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("failed to process post %s: %v", shortcode, err))
			continue
		}

		if post.PostedAt.After(to) {
			continue
		}
		if post.PostedAt.Before(from) {
			break
		}

		result.Posts = append(result.Posts, post)
		result.TotalFetched++
		f.reportProgress(tag, 1, 1, result.TotalFetched)

		if maxPosts > 0 && result.TotalFetched >= maxPosts {
			break
		}
	}

	f.log.Info("Fetched hashtag", "hashtag", tag, "posts", result.TotalFetched, "errors", len(result.ErrorMessages))
	return result, nil
}

func (f *BrowserFetcher) collectShortcodes(ctx context.Context, maxPosts int) ([]string, error) {
	want := maxPosts
	if want <= 0 {
		want = 1 << 30
	}

	var codes []string
	for round := 0; round < maxScrollRounds; round++ {
		if err := chromedp.Run(ctx, chromedp.Evaluate(collectShortcodesJS, &codes)); err != nil {
			return nil, err
		}
		if len(codes) >= want {
			break
		}
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		); err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(500+round*100) * time.Millisecond):
		}
	}
	if len(codes) > want {
		codes = codes[:want]
	}
	return codes, nil
}

func (f *BrowserFetcher) fetchPost(ctx context.Context, shortcode, tag string) (*model.Post, error) {
	postURL := fmt.Sprintf("%s/p/%s/", f.cfg.BaseURL, shortcode)

	var page pagePost
	if err := chromedp.Run(ctx,
		chromedp.Navigate(postURL),
		chromedp.WaitVisible(`main`, chromedp.ByQuery),
		chromedp.Evaluate(extractPostJS, &page),
	); err != nil {
		return nil, err
	}

	raw := page.rawPost
	raw.Shortcode = shortcode

	// The DOM selectors miss counts on some layouts, og:description still
	// carries them.
	if raw.Likes == "" || raw.OwnerUsername == "" {
		if likes, comments, username, ok := parseOGDescription(page.OGDescription); ok {
			if raw.Likes == "" {
				raw.Likes = fmt.Sprintf("%d", likes)
				raw.Comments = fmt.Sprintf("%d", comments)
			}
			if raw.OwnerUsername == "" {
				raw.OwnerUsername = username
			}
		}
	}

	return f.convertPost(raw, tag)
}

func (f *BrowserFetcher) delay(ctx context.Context) {
	min := f.fetchCfg.RequestDelayMin
	max := f.fetchCfg.RequestDelayMax
	if max < min {
		max = min
	}
	d := min + f.rnd.Float64()*(max-min)
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(d * float64(time.Second))):
	}
}

func (f *BrowserFetcher) reportProgress(tag string, idx, total, fetched int) {
	if f.progress == nil {
		return
	}
	f.progress(model.FetchProgress{
		CurrentHashtag:      tag,
		TotalHashtags:       total,
		CurrentHashtagIndex: idx,
		PostsFetched:        fetched,
	})
}
