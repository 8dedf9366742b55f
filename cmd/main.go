package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ScrpTrx-Go/GoInstaTrend/application"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/contracts"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/infra/cache"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/infra/database"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/infra/instagram"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/scheduler"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/service/analyzer"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/service/notifier"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/service/processor"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/service/reporter"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/web"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "./internal/config/config.yaml", "path to the YAML config file")
		tagsFlag   = flag.String("tags", "", "comma-separated hashtags to search (without #)")
		sinceFlag  = flag.String("since", "", "start date YYYY-MM-DD (default: days_back before until)")
		untilFlag  = flag.String("until", "", "end date YYYY-MM-DD (default: today)")
		topFlag    = flag.Int("top", 0, "number of top posts to retrieve (default from config)")
		minLikes   = flag.Int("min-likes", 0, "minimum likes filter, 0 disables the filter")
		outputFlag = flag.String("output", "csv", "output format: csv, json, excel, docx or all")
		archive    = flag.Bool("archive", false, "re-analyze archived posts instead of fetching")
		serve      = flag.Bool("serve", false, "run the HTTP server and scheduler instead of a one-shot analysis")
		noSlack    = flag.Bool("no-slack", false, "disable the Slack notification even if configured")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("error load config %v", err)
	}

	zaplogger, err := pkg.NewZapLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("error initialize logger: %v", err)
	}
	defer zaplogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	captions := analyzer.NewCaptionAnalyzer()

	var resultCache contracts.ResultCache
	if redisCache := cache.NewRedisCache(zaplogger.WithPackage("cache"), cfg.Cache); redisCache != nil {
		resultCache = redisCache
		defer redisCache.Close()
	}

	progress := func(p model.FetchProgress) {
		zaplogger.Info("Fetch progress", "status", p.StatusMessage())
	}
	fetcher := instagram.NewBrowserFetcher(zaplogger.WithPackage("instagram"), cfg.Instagram, cfg.Fetch, resultCache, captions, progress)

	trendProcessor := processor.NewTrendProcessor(zaplogger.WithPackage("processor"))
	trendReporter := reporter.NewReporter(zaplogger.WithPackage("reporter"), cfg.Export)
	slackNotifier := notifier.NewSlackNotifier(zaplogger.WithPackage("notifier"), cfg.Slack)

	var postArchive contracts.PostArchive
	if cfg.DatabaseConfig.DSN != "" {
		db, err := database.NewPostgresPool(zaplogger.WithPackage("database"), cfg.DatabaseConfig)
		if err != nil {
			zaplogger.Error("failed to init DB", "err", err)
			return
		}
		defer db.Pool.Close()
		postArchive = db
	}

	app := application.NewApp(fetcher, trendProcessor, trendReporter, slackNotifier, postArchive, zaplogger)

	if *serve {
		runServer(ctx, zaplogger, app, cfg, *outputFlag, !*noSlack)
		return
	}

	params, err := resolveParams(cfg, *tagsFlag, *sinceFlag, *untilFlag, *topFlag, *minLikes, *outputFlag, *archive, !*noSlack)
	if err != nil {
		zaplogger.Error("invalid arguments", "err", err)
		os.Exit(1)
	}

	if _, err := app.Run(ctx, params); err != nil {
		zaplogger.Error("analysis run failed", "err", err)
		os.Exit(1)
	}
}

func resolveParams(cfg config.Config, tags, since, until string, top, minLikes int, output string, fromArchive, notify bool) (application.RunParams, error) {
	tagList := splitTags(tags)
	if len(tagList) == 0 {
		return application.RunParams{}, fmt.Errorf("at least one hashtag is required, use -tags")
	}

	untilDate := time.Now()
	if until != "" {
		parsed, err := time.Parse(time.DateOnly, until)
		if err != nil {
			return application.RunParams{}, fmt.Errorf("invalid until date %q, use YYYY-MM-DD", until)
		}
		untilDate = parsed
	}

	sinceDate := untilDate.AddDate(0, 0, -cfg.Analysis.DefaultDaysBack)
	if since != "" {
		parsed, err := time.Parse(time.DateOnly, since)
		if err != nil {
			return application.RunParams{}, fmt.Errorf("invalid since date %q, use YYYY-MM-DD", since)
		}
		sinceDate = parsed
	}

	if sinceDate.After(untilDate) {
		return application.RunParams{}, fmt.Errorf("start date must be before end date")
	}

	if top <= 0 {
		top = cfg.Analysis.DefaultTopCount
	}
	if minLikes <= 0 {
		minLikes = cfg.Analysis.MinLikes
	}

	return application.RunParams{
		Tags:        tagList,
		From:        sinceDate,
		To:          untilDate,
		TopN:        top,
		MinLikes:    minLikes,
		Formats:     parseFormats(output),
		Notify:      notify,
		FromArchive: fromArchive,
	}, nil
}

func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseFormats(output string) []string {
	if strings.EqualFold(output, "all") {
		return []string{"csv", "json", "excel", "docx"}
	}
	return splitTags(output)
}

func runServer(ctx context.Context, logger pkg.Logger, app *application.App, cfg config.Config, output string, notify bool) {
	addr := cfg.Web.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := web.NewServer(logger.WithPackage("web"), app, cfg.Analysis)

	sched := scheduler.New(logger.WithPackage("scheduler"))
	if cfg.Schedule.Cron != "" && len(cfg.Schedule.Tags) > 0 {
		err := sched.AddJob("trend-analysis", cfg.Schedule.Cron, func(jobCtx context.Context) error {
			until := time.Now()
			_, err := app.Run(jobCtx, application.RunParams{
				Tags:     cfg.Schedule.Tags,
				From:     until.AddDate(0, 0, -cfg.Analysis.DefaultDaysBack),
				To:       until,
				TopN:     cfg.Analysis.DefaultTopCount,
				MinLikes: cfg.Analysis.MinLikes,
				Formats:  parseFormats(output),
				Notify:   notify,
			})
			return err
		})
		if err != nil {
			logger.Error("failed to schedule analysis job", "err", err)
			return
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	go func() {
		if err := server.Listen(addr); err != nil {
			logger.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	if err := server.Shutdown(); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}
