package model

import (
	"strings"
	"time"
)

// Post is a single Instagram post. The fetch layer builds it once and the
// processing layer never mutates it, only the slices that hold it.
type Post struct {
	Shortcode     string
	PostURL       string
	OwnerUsername string
	OwnerID       string
	PostedAt      time.Time
	Likes         int
	Comments      int
	Caption       string
	Hashtags      []string
	IsVideo       bool
	VideoViews    int
	Location      string
	IsSponsored   bool
}

// EngagementScore is always derived from the current counters.
func (p *Post) EngagementScore() int {
	return p.Likes + p.Comments
}

func (p *Post) PostType() string {
	if p.IsVideo {
		return "video"
	}
	return "photo"
}

// NormalizeHashtag lowercases a tag and strips any leading '#'.
func NormalizeHashtag(tag string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(tag), "#"))
}
