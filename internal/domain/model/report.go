package model

import (
	"fmt"
	"time"
)

// Summary aggregates the filtered post set of one analysis run.
type Summary struct {
	TotalPostsAnalyzed int      `json:"total_posts_analyzed"`
	FilteredPosts      int      `json:"filtered_posts"`
	TotalEngagement    int      `json:"total_engagement"`
	AverageEngagement  float64  `json:"average_engagement"`
	VideoPosts         int      `json:"video_posts"`
	PhotoPosts         int      `json:"photo_posts"`
	HashtagsSearched   []string `json:"hashtags_searched"`
}

// HashtagCount is one co-occurring hashtag with its occurrence count.
type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// HashtagErrors carries the non-fatal error strings one hashtag fetch reported.
type HashtagErrors struct {
	Hashtag string   `json:"hashtag"`
	Errors  []string `json:"errors"`
}

// AnalysisReport is the fully materialized output of a trend analysis run.
// It owns its summary and lists, the Post values are shared read-only with
// the input results.
type AnalysisReport struct {
	ReportID               string          `json:"report_id"`
	GeneratedAt            time.Time       `json:"generated_at"`
	Summary                Summary         `json:"summary"`
	TopPosts               []*Post         `json:"top_posts"`
	TopCoOccurringHashtags []HashtagCount  `json:"top_co_occurring_hashtags"`
	Errors                 []HashtagErrors `json:"errors"`
}

// FetchProgress describes where a multi-hashtag fetch currently stands.
type FetchProgress struct {
	CurrentHashtag      string
	TotalHashtags       int
	CurrentHashtagIndex int
	PostsFetched        int
}

func (p FetchProgress) Percentage() float64 {
	if p.TotalHashtags == 0 {
		return 0.0
	}
	return float64(p.CurrentHashtagIndex) / float64(p.TotalHashtags) * 100
}

func (p FetchProgress) StatusMessage() string {
	return fmt.Sprintf("Processing #%s (%d/%d): %d posts fetched",
		p.CurrentHashtag, p.CurrentHashtagIndex, p.TotalHashtags, p.PostsFetched)
}
