package contracts

import (
	"context"
	"time"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
)

// HashtagFetcher collects posts for each requested hashtag. One result per
// hashtag, errors are recorded inside the result and never returned.
type HashtagFetcher interface {
	FetchHashtags(ctx context.Context, tags []string, from, to time.Time, maxPerTag int) []*model.HashtagFetchResult
}

type TrendAnalyzer interface {
	MergeResults(results []*model.HashtagFetchResult) []*model.Post
	AnalyzeTrends(results []*model.HashtagFetchResult, topN int, minLikes *int) (*model.AnalysisReport, error)
}

type PostArchive interface {
	SavePosts(ctx context.Context, posts []*model.Post) error
	GetPostsByPeriod(ctx context.Context, from, to time.Time) ([]*model.Post, error)
	GetMinMaxTimestamps(ctx context.Context) (min time.Time, max time.Time, ok bool, err error)
}

type ReportExporter interface {
	Export(report *model.AnalysisReport, formats []string) ([]string, error)
	PrintSummaryTable(posts []*model.Post, topN int)
}

type Notifier interface {
	Notify(ctx context.Context, report *model.AnalysisReport) error
}

// ResultCache stores fetch results keyed by hashtag and date window so a
// repeated query within the TTL skips the scrape entirely.
type ResultCache interface {
	Get(ctx context.Context, tag string, from, to time.Time) (*model.HashtagFetchResult, bool)
	Set(ctx context.Context, result *model.HashtagFetchResult) error
}
