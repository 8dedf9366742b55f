package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/contracts"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

type App struct {
	Fetcher  contracts.HashtagFetcher
	Analyzer contracts.TrendAnalyzer
	Exporter contracts.ReportExporter
	Notifier contracts.Notifier
	Archive  contracts.PostArchive
	Logger   pkg.Logger
}

func NewApp(
	fetcher contracts.HashtagFetcher,
	analyzer contracts.TrendAnalyzer,
	exporter contracts.ReportExporter,
	notifier contracts.Notifier,
	archive contracts.PostArchive,
	logger pkg.Logger,
) *App {
	return &App{
		Fetcher:  fetcher,
		Analyzer: analyzer,
		Exporter: exporter,
		Notifier: notifier,
		Archive:  archive,
		Logger:   logger,
	}
}

// RunParams are the tunables of a single analysis run. MinLikes at this
// boundary follows the CLI convention: a value above zero enables the
// filter, zero or below leaves it off.
type RunParams struct {
	Tags        []string
	From        time.Time
	To          time.Time
	TopN        int
	MinLikes    int
	Formats     []string
	Notify      bool
	FromArchive bool
}

// Run performs one full fetch-analyze-export cycle and returns the report.
func (a *App) Run(ctx context.Context, params RunParams) (*model.AnalysisReport, error) {
	if len(params.Tags) == 0 {
		return nil, fmt.Errorf("at least one hashtag is required")
	}
	if params.From.After(params.To) {
		return nil, fmt.Errorf("start date %s is after end date %s",
			params.From.Format(time.DateOnly), params.To.Format(time.DateOnly))
	}

	var results []*model.HashtagFetchResult
	if params.FromArchive {
		archived, err := a.archivedResults(ctx, params)
		if err != nil {
			return nil, err
		}
		results = archived
	} else {
		a.Logger.Info("Fetching posts from Instagram",
			"tags", params.Tags, "from", params.From, "to", params.To)
		// Fetch extra to leave headroom for the filtering step.
		results = a.Fetcher.FetchHashtags(ctx, params.Tags, params.From, params.To, params.TopN*2)
	}

	var minLikes *int
	if params.MinLikes > 0 {
		v := params.MinLikes
		minLikes = &v
	}

	report, err := a.Analyzer.AnalyzeTrends(results, params.TopN, minLikes)
	if err != nil {
		return nil, err
	}

	if a.Archive != nil && !params.FromArchive {
		if err := a.Archive.SavePosts(ctx, a.Analyzer.MergeResults(results)); err != nil {
			a.Logger.Error("Failed to archive posts", "err", err)
		}
	}

	if len(report.TopPosts) == 0 {
		a.Logger.Warn("No posts found matching the criteria")
	}

	if len(params.Formats) > 0 {
		paths, err := a.Exporter.Export(report, params.Formats)
		if err != nil {
			a.Logger.Error("Export failed", "err", err)
		}
		for _, path := range paths {
			a.Logger.Info("Report written", "path", path)
		}
	}

	displayN := params.TopN
	if displayN > 10 {
		displayN = 10
	}
	a.Exporter.PrintSummaryTable(report.TopPosts, displayN)

	if params.Notify && a.Notifier != nil {
		if err := a.Notifier.Notify(ctx, report); err != nil {
			a.Logger.Error("Notification failed", "err", err)
		}
	}

	for _, hashtagErrs := range report.Errors {
		for _, msg := range hashtagErrs.Errors {
			a.Logger.Warn("Fetch error", "hashtag", hashtagErrs.Hashtag, "err", msg)
		}
	}

	return report, nil
}

// archivedResults rebuilds per-hashtag results from the post archive so a
// past window can be re-analyzed without refetching. A post counts toward a
// tag when its hashtag list carries that tag.
func (a *App) archivedResults(ctx context.Context, params RunParams) ([]*model.HashtagFetchResult, error) {
	if a.Archive == nil {
		return nil, fmt.Errorf("archive mode requires a configured database")
	}

	min, max, ok, err := a.Archive.GetMinMaxTimestamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("read archive coverage: %w", err)
	}
	if !ok {
		a.Logger.Warn("Post archive is empty")
	} else if params.From.Before(min) || params.To.After(max) {
		a.Logger.Warn("Requested window exceeds archive coverage",
			"archive_min", min, "archive_max", max)
	}

	posts, err := a.Archive.GetPostsByPeriod(ctx, params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("load archived posts: %w", err)
	}
	a.Logger.Info("Loaded archived posts", "count", len(posts))

	now := time.Now()
	results := make([]*model.HashtagFetchResult, 0, len(params.Tags))
	for _, raw := range params.Tags {
		tag := model.NormalizeHashtag(raw)
		result := &model.HashtagFetchResult{
			Hashtag:   tag,
			StartDate: params.From,
			EndDate:   params.To,
			FetchedAt: now,
		}
		for _, post := range posts {
			for _, postTag := range post.Hashtags {
				if strings.EqualFold(postTag, tag) {
					result.Posts = append(result.Posts, post)
					break
				}
			}
		}
		result.TotalFetched = len(result.Posts)
		results = append(results, result)
	}
	return results, nil
}
