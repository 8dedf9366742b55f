package processor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
	"github.com/google/uuid"
)

const maxCoOccurringHashtags = 20

// TrendProcessor merges, filters, ranks and summarizes fetched posts. It
// holds no state between calls, every method is a pure transformation over
// its inputs.
type TrendProcessor struct {
	log pkg.Logger
}

func NewTrendProcessor(log pkg.Logger) *TrendProcessor {
	return &TrendProcessor{log: log}
}

// MergeResults flattens all results into one slice of unique posts. The
// shortcode is the identity, the first occurrence wins and later duplicates
// are dropped without reconciliation. Output order is first-seen order.
func (t *TrendProcessor) MergeResults(results []*model.HashtagFetchResult) []*model.Post {
	seen := make(map[string]struct{})
	unique := make([]*model.Post, 0)
	total := 0

	for _, result := range results {
		for _, post := range result.Posts {
			total++
			if _, ok := seen[post.Shortcode]; ok {
				t.log.Debug("Duplicate post dropped", "shortcode", post.Shortcode)
				continue
			}
			seen[post.Shortcode] = struct{}{}
			unique = append(unique, post)
		}
	}

	t.log.Info("Merged fetch results", "total", total, "unique", len(unique))
	return unique
}

// FilterOptions are conjunctive inclusive thresholds. A nil pointer means
// the criterion was not specified, an explicit zero still runs the check.
type FilterOptions struct {
	MinLikes         *int
	MinComments      *int
	MinEngagement    *int
	ExcludeSponsored bool
}

func (t *TrendProcessor) FilterPosts(posts []*model.Post, opts FilterOptions) []*model.Post {
	filtered := posts

	if opts.MinEngagement != nil {
		filtered = keep(filtered, func(p *model.Post) bool { return p.EngagementScore() >= *opts.MinEngagement })
		t.log.Info("Applied engagement filter", "min", *opts.MinEngagement, "remaining", len(filtered))
	}
	if opts.MinLikes != nil {
		filtered = keep(filtered, func(p *model.Post) bool { return p.Likes >= *opts.MinLikes })
		t.log.Info("Applied likes filter", "min", *opts.MinLikes, "remaining", len(filtered))
	}
	if opts.MinComments != nil {
		filtered = keep(filtered, func(p *model.Post) bool { return p.Comments >= *opts.MinComments })
		t.log.Info("Applied comments filter", "min", *opts.MinComments, "remaining", len(filtered))
	}
	if opts.ExcludeSponsored {
		filtered = keep(filtered, func(p *model.Post) bool { return !p.IsSponsored })
		t.log.Info("Excluded sponsored posts", "remaining", len(filtered))
	}

	return filtered
}

func keep(posts []*model.Post, pred func(*model.Post) bool) []*model.Post {
	out := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// sortKeyFunc maps a sort key name onto a comparable value. The bool reports
// whether the name was known.
func sortKeyFunc(sortBy string) (func(*model.Post) int64, bool) {
	switch sortBy {
	case "engagement":
		return func(p *model.Post) int64 { return int64(p.EngagementScore()) }, true
	case "likes":
		return func(p *model.Post) int64 { return int64(p.Likes) }, true
	case "comments":
		return func(p *model.Post) int64 { return int64(p.Comments) }, true
	case "date":
		return func(p *model.Post) int64 { return p.PostedAt.UnixNano() }, true
	default:
		return func(p *model.Post) int64 { return int64(p.EngagementScore()) }, false
	}
}

// SortPosts returns a new fully ordered slice. An unknown sort key degrades
// to "engagement" with a warning. The sort is stable, posts with equal keys
// keep their input order in either direction.
func (t *TrendProcessor) SortPosts(posts []*model.Post, sortBy string, descending bool) []*model.Post {
	key, known := sortKeyFunc(sortBy)
	if !known {
		t.log.Warn("Unknown sort key, falling back to engagement", "sort_by", sortBy)
		sortBy = "engagement"
	}

	sorted := make([]*model.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return key(sorted[i]) > key(sorted[j])
		}
		return key(sorted[i]) < key(sorted[j])
	})

	t.log.Info("Sorted posts", "count", len(sorted), "sort_by", sortBy, "descending", descending)
	return sorted
}

// AnalyzeTrends runs the whole aggregation over all fetched hashtags:
// merge-dedup, optional min-likes filter, top-N by engagement, summary
// statistics and co-occurring hashtag counts over the filtered set. A nil
// minLikes disables the filter. Invalid input results are rejected, an
// empty post set is not an error.
func (t *TrendProcessor) AnalyzeTrends(results []*model.HashtagFetchResult, topN int, minLikes *int) (*model.AnalysisReport, error) {
	for _, result := range results {
		if err := result.Validate(); err != nil {
			return nil, fmt.Errorf("invalid fetch result: %w", err)
		}
	}

	allPosts := t.MergeResults(results)

	filtered := allPosts
	if minLikes != nil {
		filtered = t.FilterPosts(allPosts, FilterOptions{MinLikes: minLikes})
	}

	topPosts := t.TopPostsEfficient(filtered, topN, "engagement")

	totalEngagement := 0
	videoCount := 0
	for _, p := range filtered {
		totalEngagement += p.EngagementScore()
		if p.IsVideo {
			videoCount++
		}
	}

	avgEngagement := 0.0
	if len(filtered) > 0 {
		avgEngagement = float64(totalEngagement) / float64(len(filtered))
	}

	searched := make([]string, 0, len(results))
	for _, r := range results {
		searched = append(searched, r.Hashtag)
	}

	report := &model.AnalysisReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now(),
		Summary: model.Summary{
			TotalPostsAnalyzed: len(allPosts),
			FilteredPosts:      len(filtered),
			TotalEngagement:    totalEngagement,
			AverageEngagement:  math.Round(avgEngagement*100) / 100,
			VideoPosts:         videoCount,
			PhotoPosts:         len(filtered) - videoCount,
			HashtagsSearched:   searched,
		},
		TopPosts:               topPosts,
		TopCoOccurringHashtags: t.coOccurringHashtags(filtered, results),
		Errors:                 collectErrors(results),
	}

	t.log.Info("Trend analysis complete",
		"report_id", report.ReportID,
		"analyzed", report.Summary.TotalPostsAnalyzed,
		"filtered", report.Summary.FilteredPosts,
		"top_posts", len(report.TopPosts))
	return report, nil
}

// coOccurringHashtags counts hashtags across the filtered set, excluding the
// searched tags. Comparison is case-insensitive, the lowercased form is
// reported. Order: count descending, then tag ascending for equal counts.
func (t *TrendProcessor) coOccurringHashtags(posts []*model.Post, results []*model.HashtagFetchResult) []model.HashtagCount {
	searched := make(map[string]struct{}, len(results))
	for _, r := range results {
		searched[strings.ToLower(r.Hashtag)] = struct{}{}
	}

	counts := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Hashtags {
			lower := strings.ToLower(tag)
			if _, ok := searched[lower]; ok {
				continue
			}
			counts[lower]++
		}
	}

	top := make([]model.HashtagCount, 0, len(counts))
	for tag, count := range counts {
		top = append(top, model.HashtagCount{Hashtag: tag, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Hashtag < top[j].Hashtag
	})

	if len(top) > maxCoOccurringHashtags {
		top = top[:maxCoOccurringHashtags]
	}
	return top
}

func collectErrors(results []*model.HashtagFetchResult) []model.HashtagErrors {
	errs := make([]model.HashtagErrors, 0)
	for _, r := range results {
		if len(r.ErrorMessages) > 0 {
			errs = append(errs, model.HashtagErrors{Hashtag: r.Hashtag, Errors: r.ErrorMessages})
		}
	}
	return errs
}
