package processor

import (
	"container/heap"
	"sort"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
)

// rankedPost pairs a post with its key value and input position. The input
// position is the tie-break: a stable descending sort keeps earlier posts
// ahead of later ones with the same key, and the heap must agree with that.
type rankedPost struct {
	post *model.Post
	key  int64
	idx  int
}

// weakerThan reports whether a ranks below b in the final descending order.
func (a rankedPost) weakerThan(b rankedPost) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	return a.idx > b.idx
}

// topHeap is a min-heap whose root is the weakest of the retained posts.
type topHeap []rankedPost

func (h topHeap) Len() int            { return len(h) }
func (h topHeap) Less(i, j int) bool  { return h[i].weakerThan(h[j]) }
func (h topHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *topHeap) Push(x interface{}) { *h = append(*h, x.(rankedPost)) }
func (h *topHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopPostsEfficient selects the n highest-ranked posts without sorting the
// whole input. The output equals SortPosts(posts, sortBy, true)[:n],
// including the tie-break, but costs O(P log N) instead of O(P log P). When
// n covers the whole input it simply degrades to the full sort.
func (t *TrendProcessor) TopPostsEfficient(posts []*model.Post, n int, sortBy string) []*model.Post {
	if n <= 0 {
		return []*model.Post{}
	}
	if n >= len(posts) {
		return t.SortPosts(posts, sortBy, true)
	}

	key, known := sortKeyFunc(sortBy)
	if !known {
		t.log.Warn("Unknown sort key, falling back to engagement", "sort_by", sortBy)
	}

	h := make(topHeap, 0, n)
	for i, post := range posts {
		candidate := rankedPost{post: post, key: key(post), idx: i}
		if len(h) < n {
			heap.Push(&h, candidate)
			continue
		}
		if h[0].weakerThan(candidate) {
			h[0] = candidate
			heap.Fix(&h, 0)
		}
	}

	sort.Slice(h, func(i, j int) bool { return h[j].weakerThan(h[i]) })

	top := make([]*model.Post, len(h))
	for i, r := range h {
		top[i] = r.post
	}

	t.log.Info("Selected top posts", "selected", len(top), "total", len(posts))
	return top
}
