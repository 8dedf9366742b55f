package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ScrpTrx-Go/GoInstaTrend/application"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

// TrendRunner runs one analysis cycle. Satisfied by *application.App.
type TrendRunner interface {
	Run(ctx context.Context, params application.RunParams) (*model.AnalysisReport, error)
}

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	app      *fiber.App
	runner   TrendRunner
	log      pkg.Logger
	defaults config.AnalysisConfig
}

func NewServer(log pkg.Logger, runner TrendRunner, defaults config.AnalysisConfig) *Server {
	s := &Server{
		runner:   runner,
		log:      log,
		defaults: defaults,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Minute,
	})
	app.Use(recover.New())

	app.Get("/healthz", s.handleHealth)
	app.Post("/api/analyze", s.handleAnalyze)

	s.app = app
	return s
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type analyzeRequest struct {
	Tags     []string `json:"tags"`
	Since    string   `json:"since"`
	Until    string   `json:"until"`
	Top      int      `json:"top"`
	MinLikes int      `json:"min_likes"`
}

// handleAnalyze runs the pipeline for the requested tags and returns the
// report. An empty top_posts list is a normal result, not an error.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Tags) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "at least one hashtag is required"})
	}

	until := time.Now()
	if req.Until != "" {
		parsed, err := time.Parse(time.DateOnly, req.Until)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid until date, use YYYY-MM-DD"})
		}
		until = parsed
	}
	since := until.AddDate(0, 0, -s.defaults.DefaultDaysBack)
	if req.Since != "" {
		parsed, err := time.Parse(time.DateOnly, req.Since)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid since date, use YYYY-MM-DD"})
		}
		since = parsed
	}
	if since.After(until) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start date must be before end date"})
	}

	top := req.Top
	if top <= 0 {
		top = s.defaults.DefaultTopCount
	}

	report, err := s.runner.Run(c.Context(), application.RunParams{
		Tags:     req.Tags,
		From:     since,
		To:       until,
		TopN:     top,
		MinLikes: req.MinLikes,
	})
	if err != nil {
		s.log.Error("Analysis run failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

func (s *Server) Listen(addr string) error {
	s.log.Info("HTTP server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber instance for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
