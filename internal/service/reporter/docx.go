package reporter

import (
	"fmt"
	"strings"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
)

// exportDocx writes a readable trend digest: the run summary followed by
// the top posts with links back to Instagram.
func (r *Reporter) exportDocx(report *model.AnalysisReport) (string, error) {
	path := r.filename("docx")

	doc := document.New()

	title := doc.AddParagraph()
	title.Properties().SetAlignment(wml.ST_JcCenter)
	title.SetStyle("Heading1")
	run := title.AddRun()
	run.Properties().SetBold(true)
	run.AddText("Instagram Trend Digest")

	summary := report.Summary
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Hashtags searched: %s",
		strings.Join(summary.HashtagsSearched, ", ")))
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Posts analyzed: %d (after filter: %d)",
		summary.TotalPostsAnalyzed, summary.FilteredPosts))
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Total engagement: %d (average %.2f)",
		summary.TotalEngagement, summary.AverageEngagement))
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Videos: %d, photos: %d",
		summary.VideoPosts, summary.PhotoPosts))
	doc.AddParagraph().AddRun().AddText("----------")

	for i, post := range report.TopPosts {
		header := doc.AddParagraph()
		headerRun := header.AddRun()
		headerRun.Properties().SetBold(true)
		headerRun.AddText(fmt.Sprintf("%d. @%s - %d likes, %d comments",
			i+1, post.OwnerUsername, post.Likes, post.Comments))

		doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Posted: %v",
			post.PostedAt.Format("2006-01-02 15:04:05")))

		for idx, line := range strings.Split(post.Caption, "\n") {
			para := doc.AddParagraph()
			captionRun := para.AddRun()
			if idx == 0 {
				captionRun.Properties().SetBold(true)
			}
			para.Properties().SetAlignment(wml.ST_JcBoth)
			captionRun.AddText(strings.TrimSpace(line))
		}

		para := doc.AddParagraph()
		hl := para.AddHyperLink()
		hl.SetTarget(post.PostURL)
		linkRun := hl.AddRun()
		linkRun.Properties().SetStyle("Hyperlink")
		linkRun.AddText("Open post on Instagram")

		doc.AddParagraph().AddRun().AddText("----------")
	}

	if len(report.TopCoOccurringHashtags) > 0 {
		tagsHeader := doc.AddParagraph()
		tagsRun := tagsHeader.AddRun()
		tagsRun.Properties().SetBold(true)
		tagsRun.AddText("Top co-occurring hashtags")
		for _, tag := range report.TopCoOccurringHashtags {
			doc.AddParagraph().AddRun().AddText(fmt.Sprintf("#%s: %d", tag.Hashtag, tag.Count))
		}
	}

	if err := doc.SaveToFile(path); err != nil {
		return "", err
	}

	r.log.Info("Exported docx digest", "path", path, "posts", len(report.TopPosts))
	return path, nil
}
