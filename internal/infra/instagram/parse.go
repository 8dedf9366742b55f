package instagram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
)

// rawPost is what the in-page JavaScript hands back for a single post.
type rawPost struct {
	Shortcode         string `json:"shortcode"`
	OwnerUsername     string `json:"ownerUsername"`
	OwnerID           string `json:"ownerId"`
	Timestamp         string `json:"timestamp"`
	Likes             string `json:"likes"`
	Comments          string `json:"comments"`
	Caption           string `json:"caption"`
	IsVideo           bool   `json:"isVideo"`
	VideoViews        string `json:"videoViews"`
	Location          string `json:"location"`
	IsPaidPartnership bool   `json:"isPaidPartnership"`
}

var countSuffixes = map[byte]float64{'K': 1e3, 'M': 1e6, 'B': 1e9}

// parseCount converts display counts like "1,234", "12.5K" or "3M" into a
// plain integer. Unparseable input counts as zero.
func parseCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}

	mult := 1.0
	last := s[len(s)-1]
	if last >= 'a' && last <= 'z' {
		last -= 'a' - 'A'
	}
	if m, ok := countSuffixes[last]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(value * mult)
}

var ogDescriptionRe = regexp.MustCompile(`^([\d.,KMBkmb]+)\s+[Ll]ikes?,\s+([\d.,KMBkmb]+)\s+[Cc]omments?\s+-\s+(\S+)\s+on`)

// parseOGDescription pulls likes, comments and the author handle out of an
// og:description meta value, the fallback when the page scripts expose
// nothing better. Returns ok=false when the value has a different shape.
func parseOGDescription(desc string) (likes, comments int, username string, ok bool) {
	m := ogDescriptionRe.FindStringSubmatch(strings.TrimSpace(desc))
	if m == nil {
		return 0, 0, "", false
	}
	return parseCount(m[1]), parseCount(m[2]), strings.TrimPrefix(m[3], "@"), true
}

// convertPost builds the immutable domain post from raw page data. The
// query hashtag is appended when the caption did not already carry it.
func (f *BrowserFetcher) convertPost(raw rawPost, queryTag string) (*model.Post, error) {
	if raw.Shortcode == "" {
		return nil, fmt.Errorf("post has no shortcode")
	}

	postedAt, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("post %s: bad timestamp %q: %w", raw.Shortcode, raw.Timestamp, err)
	}

	hashtags := f.captions.ExtractHashtags(raw.Caption)
	found := false
	for _, tag := range hashtags {
		if strings.EqualFold(tag, queryTag) {
			found = true
			break
		}
	}
	if !found {
		hashtags = append(hashtags, queryTag)
	}

	videoViews := 0
	if raw.IsVideo {
		videoViews = parseCount(raw.VideoViews)
	}

	return &model.Post{
		Shortcode:     raw.Shortcode,
		PostURL:       fmt.Sprintf("%s/p/%s/", f.cfg.BaseURL, raw.Shortcode),
		OwnerUsername: raw.OwnerUsername,
		OwnerID:       raw.OwnerID,
		PostedAt:      postedAt.UTC(),
		Likes:         parseCount(raw.Likes),
		Comments:      parseCount(raw.Comments),
		Caption:       raw.Caption,
		Hashtags:      hashtags,
		IsVideo:       raw.IsVideo,
		VideoViews:    videoViews,
		Location:      raw.Location,
		IsSponsored:   raw.IsPaidPartnership || f.captions.IsSponsored(raw.Caption),
	}, nil
}
