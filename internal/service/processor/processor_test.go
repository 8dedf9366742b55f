package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

func newTestProcessor() *TrendProcessor {
	return NewTrendProcessor(pkg.NewNopLogger())
}

// samplePosts are five posts with likes 100..60 and comments 10..14, so the
// engagement scores are 110, 101, 92, 83, 74.
func samplePosts() []*model.Post {
	base := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, 0, 5)
	for i := 0; i < 5; i++ {
		posts = append(posts, &model.Post{
			Shortcode:     []string{"AAA1", "BBB2", "CCC3", "DDD4", "EEE5"}[i],
			PostURL:       "https://www.instagram.com/p/" + []string{"AAA1", "BBB2", "CCC3", "DDD4", "EEE5"}[i] + "/",
			OwnerUsername: "user" + string(rune('1'+i)),
			OwnerID:       "100" + string(rune('1'+i)),
			PostedAt:      base.Add(time.Duration(i) * time.Hour),
			Likes:         100 - i*10,
			Comments:      10 + i,
			Caption:       "Sample post #travel #summer",
			Hashtags:      []string{"travel", "summer"},
		})
	}
	return posts
}

func sampleResult(hashtag string, posts []*model.Post) *model.HashtagFetchResult {
	return &model.HashtagFetchResult{
		Hashtag:      hashtag,
		StartDate:    time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		Posts:        posts,
		TotalFetched: len(posts),
		FetchedAt:    time.Now(),
	}
}

func intPtr(v int) *int { return &v }

func TestMergeResultsNoDuplicates(t *testing.T) {
	p := newTestProcessor()
	merged := p.MergeResults([]*model.HashtagFetchResult{sampleResult("travel", samplePosts())})
	assert.Len(t, merged, 5)
}

func TestMergeResultsWithDuplicates(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	shared := &model.Post{Shortcode: "SAME1", Likes: 50, Comments: 5, PostedAt: time.Now()}
	otherShared := &model.Post{Shortcode: "SAME1", Likes: 999, Comments: 99, PostedAt: time.Now()}

	result1 := sampleResult("travel", append([]*model.Post{shared}, posts[:2]...))
	result2 := sampleResult("food", []*model.Post{otherShared, posts[2]})

	merged := p.MergeResults([]*model.HashtagFetchResult{result1, result2})

	require.Len(t, merged, 4)
	count := 0
	for _, post := range merged {
		if post.Shortcode == "SAME1" {
			count++
			// First occurrence wins, the later variant is dropped.
			assert.Equal(t, 50, post.Likes)
		}
	}
	assert.Equal(t, 1, count)
}

func TestMergeResultsIdempotent(t *testing.T) {
	p := newTestProcessor()
	result := sampleResult("travel", samplePosts())

	once := p.MergeResults([]*model.HashtagFetchResult{result})
	twice := p.MergeResults([]*model.HashtagFetchResult{result, result})

	assert.Equal(t, once, twice)
}

func TestMergeResultsEmptyInput(t *testing.T) {
	p := newTestProcessor()
	assert.Empty(t, p.MergeResults(nil))
}

func TestFilterPostsMinLikes(t *testing.T) {
	p := newTestProcessor()
	filtered := p.FilterPosts(samplePosts(), FilterOptions{MinLikes: intPtr(85)})

	require.Len(t, filtered, 2)
	for _, post := range filtered {
		assert.GreaterOrEqual(t, post.Likes, 85)
	}
}

func TestFilterPostsMinComments(t *testing.T) {
	p := newTestProcessor()
	filtered := p.FilterPosts(samplePosts(), FilterOptions{MinComments: intPtr(12)})

	require.Len(t, filtered, 3)
	for _, post := range filtered {
		assert.GreaterOrEqual(t, post.Comments, 12)
	}
}

func TestFilterPostsMinEngagement(t *testing.T) {
	p := newTestProcessor()
	filtered := p.FilterPosts(samplePosts(), FilterOptions{MinEngagement: intPtr(90)})

	require.Len(t, filtered, 3)
	for _, post := range filtered {
		assert.GreaterOrEqual(t, post.EngagementScore(), 90)
	}
}

func TestFilterPostsExcludeSponsored(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	posts[0].IsSponsored = true

	filtered := p.FilterPosts(posts, FilterOptions{ExcludeSponsored: true})

	require.Len(t, filtered, 4)
	for _, post := range filtered {
		assert.False(t, post.IsSponsored)
	}
}

func TestFilterPostsConjunction(t *testing.T) {
	p := newTestProcessor()
	filtered := p.FilterPosts(samplePosts(), FilterOptions{
		MinLikes:    intPtr(70),
		MinComments: intPtr(12),
	})

	for _, post := range filtered {
		assert.GreaterOrEqual(t, post.Likes, 70)
		assert.GreaterOrEqual(t, post.Comments, 12)
	}
	assert.Len(t, filtered, 2)
}

func TestFilterPostsNoCriteria(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	filtered := p.FilterPosts(posts, FilterOptions{})
	assert.Equal(t, posts, filtered)
}

func TestFilterPostsExplicitZeroStillRuns(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	// Zero is a specified threshold, it just passes every non-negative count.
	filtered := p.FilterPosts(posts, FilterOptions{MinLikes: intPtr(0)})
	assert.Equal(t, posts, filtered)
}

func TestSortPostsByEngagementDescending(t *testing.T) {
	p := newTestProcessor()
	sorted := p.SortPosts(samplePosts(), "engagement", true)

	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i-1].EngagementScore(), sorted[i].EngagementScore())
	}
}

func TestSortPostsByLikesAscending(t *testing.T) {
	p := newTestProcessor()
	sorted := p.SortPosts(samplePosts(), "likes", false)

	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Likes, sorted[i].Likes)
	}
}

func TestSortPostsByDate(t *testing.T) {
	p := newTestProcessor()
	sorted := p.SortPosts(samplePosts(), "date", true)

	for i := 1; i < len(sorted); i++ {
		assert.False(t, sorted[i-1].PostedAt.Before(sorted[i].PostedAt))
	}
}

func TestSortPostsUnknownKeyFallsBackToEngagement(t *testing.T) {
	p := newTestProcessor()
	sorted := p.SortPosts(samplePosts(), "bogus", true)
	expected := p.SortPosts(samplePosts(), "engagement", true)

	require.Len(t, sorted, len(expected))
	for i := range sorted {
		assert.Equal(t, expected[i].Shortcode, sorted[i].Shortcode)
	}
}

func TestSortPostsStableOnTies(t *testing.T) {
	p := newTestProcessor()
	posts := []*model.Post{
		{Shortcode: "T1", Likes: 10, Comments: 0},
		{Shortcode: "T2", Likes: 10, Comments: 0},
		{Shortcode: "T3", Likes: 10, Comments: 0},
	}

	sorted := p.SortPosts(posts, "likes", true)

	assert.Equal(t, "T1", sorted[0].Shortcode)
	assert.Equal(t, "T2", sorted[1].Shortcode)
	assert.Equal(t, "T3", sorted[2].Shortcode)
}

func TestSortPostsDoesNotMutateInput(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	first := posts[0]

	p.SortPosts(posts, "likes", false)

	assert.Same(t, first, posts[0])
}

func TestAnalyzeTrendsScenario(t *testing.T) {
	p := newTestProcessor()
	result := sampleResult("travel", samplePosts())

	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Summary.TotalPostsAnalyzed)
	assert.Equal(t, 5, report.Summary.FilteredPosts)
	assert.Equal(t, 460, report.Summary.TotalEngagement)
	assert.Equal(t, 92.0, report.Summary.AverageEngagement)
	assert.Equal(t, []string{"travel"}, report.Summary.HashtagsSearched)
	require.Len(t, report.TopPosts, 3)
	assert.Equal(t, 100, report.TopPosts[0].Likes)
	assert.Equal(t, 110, report.TopPosts[0].EngagementScore())
	assert.NotEmpty(t, report.ReportID)
}

func TestAnalyzeTrendsWithMinLikes(t *testing.T) {
	p := newTestProcessor()
	result := sampleResult("travel", samplePosts())

	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 10, intPtr(85))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Summary.TotalPostsAnalyzed)
	assert.Equal(t, 2, report.Summary.FilteredPosts)
	for _, post := range report.TopPosts {
		assert.GreaterOrEqual(t, post.Likes, 85)
	}
}

func TestAnalyzeTrendsEmptyAfterFilter(t *testing.T) {
	p := newTestProcessor()
	result := sampleResult("travel", samplePosts())

	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 10, intPtr(10000))
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Summary.AverageEngagement)
	assert.Equal(t, 0, report.Summary.TotalEngagement)
	assert.Empty(t, report.TopPosts)
}

func TestAnalyzeTrendsNoResults(t *testing.T) {
	p := newTestProcessor()

	report, err := p.AnalyzeTrends(nil, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.TotalPostsAnalyzed)
	assert.Equal(t, 0.0, report.Summary.AverageEngagement)
	assert.Empty(t, report.TopPosts)
	assert.Empty(t, report.TopCoOccurringHashtags)
	assert.Empty(t, report.Errors)
}

func TestAnalyzeTrendsVideoPhotoSplit(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	posts[0].IsVideo = true
	posts[3].IsVideo = true

	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{sampleResult("travel", posts)}, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.VideoPosts)
	assert.Equal(t, 3, report.Summary.PhotoPosts)
}

func TestAnalyzeTrendsRejectsInvalidWindow(t *testing.T) {
	p := newTestProcessor()
	result := sampleResult("travel", samplePosts())
	result.StartDate = result.EndDate.AddDate(0, 1, 0)

	_, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 10, nil)
	assert.Error(t, err)
}

func TestAnalyzeTrendsRejectsPostWithoutShortcode(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	posts[2].Shortcode = ""

	_, err := p.AnalyzeTrends([]*model.HashtagFetchResult{sampleResult("travel", posts)}, 10, nil)
	assert.Error(t, err)
}

func TestAnalyzeTrendsCollectsErrors(t *testing.T) {
	p := newTestProcessor()
	good := sampleResult("travel", samplePosts())
	failed := sampleResult("food", nil)
	failed.ErrorMessages = []string{"failed after 3 attempts: timeout"}

	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{good, failed}, 10, nil)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "food", report.Errors[0].Hashtag)
	assert.Equal(t, []string{"failed after 3 attempts: timeout"}, report.Errors[0].Errors)
	// A failed hashtag never aborts the run, the other data still counts.
	assert.Equal(t, 5, report.Summary.TotalPostsAnalyzed)
}

func TestCoOccurringHashtagsExcludesSearchedCaseInsensitively(t *testing.T) {
	p := newTestProcessor()
	posts := samplePosts()
	posts[0].Hashtags = []string{"TRAVEL", "Wanderlust"}
	posts[1].Hashtags = []string{"travel", "wanderlust", "beach"}

	result := sampleResult("Travel", posts[:2])
	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 10, nil)
	require.NoError(t, err)

	for _, tag := range report.TopCoOccurringHashtags {
		assert.NotEqual(t, "travel", tag.Hashtag)
	}
	require.Len(t, report.TopCoOccurringHashtags, 2)
	assert.Equal(t, model.HashtagCount{Hashtag: "wanderlust", Count: 2}, report.TopCoOccurringHashtags[0])
	assert.Equal(t, model.HashtagCount{Hashtag: "beach", Count: 1}, report.TopCoOccurringHashtags[1])
}

func TestCoOccurringHashtagsCappedAtTwenty(t *testing.T) {
	p := newTestProcessor()
	post := &model.Post{Shortcode: "MANY1", PostedAt: time.Now()}
	for i := 0; i < 30; i++ {
		post.Hashtags = append(post.Hashtags, "tag"+string(rune('a'+i)))
	}

	result := sampleResult("travel", []*model.Post{post})
	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 10, nil)
	require.NoError(t, err)

	assert.Len(t, report.TopCoOccurringHashtags, 20)
}

func TestCoOccurringHashtagsDeterministicOrder(t *testing.T) {
	p := newTestProcessor()
	posts := []*model.Post{
		{Shortcode: "O1", Hashtags: []string{"zebra", "apple"}, PostedAt: time.Now()},
		{Shortcode: "O2", Hashtags: []string{"zebra", "apple"}, PostedAt: time.Now()},
	}

	result := sampleResult("travel", posts)
	report, err := p.AnalyzeTrends([]*model.HashtagFetchResult{result}, 10, nil)
	require.NoError(t, err)

	// Equal counts fall back to lexicographic order.
	require.Len(t, report.TopCoOccurringHashtags, 2)
	assert.Equal(t, "apple", report.TopCoOccurringHashtags[0].Hashtag)
	assert.Equal(t, "zebra", report.TopCoOccurringHashtags[1].Hashtag)
}
