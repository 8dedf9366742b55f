package reporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
)

// exportExcel writes one workbook with Posts, Summary and Top Hashtags
// sheets.
func (r *Reporter) exportExcel(report *model.AnalysisReport) (string, error) {
	path := r.filename("xlsx")

	f := excelize.NewFile()
	defer f.Close()

	const postsSheet = "Posts"
	f.SetSheetName(f.GetSheetName(0), postsSheet)

	for col, name := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(postsSheet, cell, name); err != nil {
			return "", err
		}
	}
	for rowIdx, post := range report.TopPosts {
		values := []interface{}{
			post.PostURL, post.Shortcode, post.PostedAt.Format("2006-01-02 15:04:05"),
			post.Likes, post.Comments, post.EngagementScore(), post.OwnerUsername,
			post.Caption, strings.Join(post.Hashtags, ", "), post.PostType(),
			post.VideoViews, post.Location, post.IsSponsored,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(postsSheet, cell, value); err != nil {
				return "", err
			}
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", err
	}
	summary := report.Summary
	summaryRows := [][]interface{}{
		{"total_posts_analyzed", summary.TotalPostsAnalyzed},
		{"filtered_posts", summary.FilteredPosts},
		{"total_engagement", summary.TotalEngagement},
		{"average_engagement", summary.AverageEngagement},
		{"video_posts", summary.VideoPosts},
		{"photo_posts", summary.PhotoPosts},
		{"hashtags_searched", strings.Join(summary.HashtagsSearched, ", ")},
	}
	for rowIdx, row := range summaryRows {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", rowIdx+1), row[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", rowIdx+1), row[1])
	}

	const hashtagSheet = "Top Hashtags"
	if _, err := f.NewSheet(hashtagSheet); err != nil {
		return "", err
	}
	f.SetCellValue(hashtagSheet, "A1", "hashtag")
	f.SetCellValue(hashtagSheet, "B1", "count")
	for rowIdx, tag := range report.TopCoOccurringHashtags {
		f.SetCellValue(hashtagSheet, fmt.Sprintf("A%d", rowIdx+2), tag.Hashtag)
		f.SetCellValue(hashtagSheet, fmt.Sprintf("B%d", rowIdx+2), tag.Count)
	}

	if err := f.SaveAs(path); err != nil {
		return "", err
	}

	r.log.Info("Exported Excel workbook", "path", path, "posts", len(report.TopPosts))
	return path, nil
}
