package model

import (
	"fmt"
	"sort"
	"time"
)

// HashtagFetchResult is the outcome of fetching one hashtag. A failed fetch
// still yields a result with empty Posts and non-empty ErrorMessages, the
// fetch layer never lets an error cross this boundary.
type HashtagFetchResult struct {
	Hashtag       string
	StartDate     time.Time
	EndDate       time.Time
	Posts         []*Post
	TotalFetched  int
	ErrorMessages []string
	FetchedAt     time.Time
}

// Validate rejects results the aggregation must not consume: an inverted
// date window or a post without its shortcode identity.
func (r *HashtagFetchResult) Validate() error {
	if r.StartDate.After(r.EndDate) {
		return fmt.Errorf("hashtag %q: start date %s is after end date %s",
			r.Hashtag, r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly))
	}
	for i, p := range r.Posts {
		if p == nil || p.Shortcode == "" {
			return fmt.Errorf("hashtag %q: post at index %d has no shortcode", r.Hashtag, i)
		}
	}
	return nil
}

func (r *HashtagFetchResult) TotalEngagement() int {
	total := 0
	for _, p := range r.Posts {
		total += p.EngagementScore()
	}
	return total
}

func (r *HashtagFetchResult) AverageEngagement() float64 {
	if len(r.Posts) == 0 {
		return 0.0
	}
	return float64(r.TotalEngagement()) / float64(len(r.Posts))
}

// TopPosts returns the n highest-engagement posts of this single result.
func (r *HashtagFetchResult) TopPosts(n int) []*Post {
	sorted := make([]*Post, len(r.Posts))
	copy(sorted, r.Posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EngagementScore() > sorted[j].EngagementScore()
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func (r *HashtagFetchResult) FilterByMinLikes(minLikes int) []*Post {
	filtered := make([]*Post, 0, len(r.Posts))
	for _, p := range r.Posts {
		if p.Likes >= minLikes {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
