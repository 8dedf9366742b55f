package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

const notifyTopPosts = 5

// SlackNotifier posts a run summary to an incoming webhook. An empty
// webhook URL disables it.
type SlackNotifier struct {
	log        pkg.Logger
	webhookURL string
}

func NewSlackNotifier(log pkg.Logger, cfg config.SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		log:        log,
		webhookURL: cfg.WebhookURL,
	}
}

func (n *SlackNotifier) Notify(ctx context.Context, report *model.AnalysisReport) error {
	if n.webhookURL == "" {
		n.log.Warn("Slack webhook URL not configured, skipping notification")
		return nil
	}

	msg := &slack.WebhookMessage{Blocks: buildBlocks(report)}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}

	n.log.Info("Sent Slack notification", "report_id", report.ReportID)
	return nil
}

func buildBlocks(report *model.AnalysisReport) *slack.Blocks {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "Instagram Trend Analysis Results", false, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Total Posts:* %d", report.Summary.TotalPostsAnalyzed), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Avg Engagement:* %.0f", report.Summary.AverageEngagement), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Hashtags:* %s", strings.Join(report.Summary.HashtagsSearched, ", ")), false, false),
		}, nil),
	}

	top := report.TopPosts
	if len(top) > notifyTopPosts {
		top = top[:notifyTopPosts]
	}

	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Top %d Posts by Engagement:*", len(top)), false, false),
		nil, nil))

	for i, post := range top {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%d. *@%s* - %d likes | %d comments\n   <%s|View Post>",
					i+1, post.OwnerUsername, post.Likes, post.Comments, post.PostURL),
				false, false),
			nil, nil))
	}

	return &slack.Blocks{BlockSet: blocks}
}
