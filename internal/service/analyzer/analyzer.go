package analyzer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// CaptionAnalyzer extracts hashtags from captions and flags sponsored
// content by dictionary match.
type CaptionAnalyzer struct {
	sponsored *ahocorasick.Matcher
}

func NewCaptionAnalyzer() *CaptionAnalyzer {
	return &CaptionAnalyzer{
		sponsored: ahocorasick.NewStringMatcher(sponsoredMarkers),
	}
}

// ExtractHashtags returns every hashtag of the caption in order of
// appearance, without the leading '#' and with original casing preserved.
func (a *CaptionAnalyzer) ExtractHashtags(caption string) []string {
	tags := make([]string, 0)
	for _, token := range strings.Fields(caption) {
		if !strings.HasPrefix(token, "#") {
			continue
		}
		tag := strings.Trim(token, "#.,!?:;()[]\"'")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// IsSponsored reports whether the caption contains any sponsored-content
// marker. Matching is case-insensitive.
func (a *CaptionAnalyzer) IsSponsored(caption string) bool {
	matches := a.sponsored.Match([]byte(strings.ToLower(caption)))
	return len(matches) > 0
}
