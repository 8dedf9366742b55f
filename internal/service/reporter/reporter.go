package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

const toolVersion = "1.0.0"

// Reporter writes analysis reports to the configured output directory in
// the requested formats and prints the console summary.
type Reporter struct {
	log       pkg.Logger
	outputDir string
}

func NewReporter(log pkg.Logger, cfg config.ExportConfig) *Reporter {
	return &Reporter{
		log:       log,
		outputDir: cfg.OutputDir,
	}
}

// Export writes one file per requested format and returns the paths.
func (r *Reporter) Export(report *model.AnalysisReport, formats []string) ([]string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", r.outputDir, err)
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		var path string
		var err error
		switch strings.ToLower(format) {
		case "csv":
			path, err = r.exportCSV(report)
		case "json":
			path, err = r.exportJSON(report)
		case "excel", "xlsx":
			path, err = r.exportExcel(report)
		case "docx":
			path, err = r.exportDocx(report)
		default:
			r.log.Warn("Unknown export format, skipping", "format", format)
			continue
		}
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Reporter) filename(ext string) string {
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(r.outputDir, fmt.Sprintf("instagram_trends_%s.%s", timestamp, ext))
}

var csvHeader = []string{
	"post_url", "shortcode", "posted_at", "likes", "comments",
	"engagement_score", "owner_username", "caption", "hashtags",
	"post_type", "video_views", "location", "is_sponsored",
}

func postRow(p *model.Post) []string {
	videoViews := ""
	if p.IsVideo {
		videoViews = strconv.Itoa(p.VideoViews)
	}
	return []string{
		p.PostURL,
		p.Shortcode,
		p.PostedAt.Format("2006-01-02 15:04:05"),
		strconv.Itoa(p.Likes),
		strconv.Itoa(p.Comments),
		strconv.Itoa(p.EngagementScore()),
		p.OwnerUsername,
		p.Caption,
		strings.Join(p.Hashtags, ", "),
		p.PostType(),
		videoViews,
		p.Location,
		strconv.FormatBool(p.IsSponsored),
	}
}

func (r *Reporter) exportCSV(report *model.AnalysisReport) (string, error) {
	path := r.filename("csv")

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// UTF-8 BOM keeps Excel from mangling non-ASCII captions.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return "", err
	}
	for _, post := range report.TopPosts {
		if err := writer.Write(postRow(post)); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	r.log.Info("Exported CSV", "path", path, "posts", len(report.TopPosts))
	return path, nil
}

type jsonPost struct {
	PostURL         string `json:"post_url"`
	Shortcode       string `json:"shortcode"`
	PostedAt        string `json:"posted_at"`
	Likes           int    `json:"likes"`
	Comments        int    `json:"comments"`
	EngagementScore int    `json:"engagement_score"`
	OwnerUsername   string `json:"owner_username"`
	Caption         string `json:"caption"`
	Hashtags        string `json:"hashtags"`
	PostType        string `json:"post_type"`
	VideoViews      *int   `json:"video_views"`
	Location        string `json:"location"`
	IsSponsored     bool   `json:"is_sponsored"`
}

type jsonExport struct {
	Metadata struct {
		ExportTimestamp string `json:"export_timestamp"`
		TotalPosts      int    `json:"total_posts"`
		ToolVersion     string `json:"tool_version"`
		ReportID        string `json:"report_id"`
	} `json:"metadata"`
	Posts    []jsonPost            `json:"posts"`
	Analysis *model.AnalysisReport `json:"analysis"`
}

func (r *Reporter) exportJSON(report *model.AnalysisReport) (string, error) {
	path := r.filename("json")

	export := jsonExport{Analysis: report}
	export.Metadata.ExportTimestamp = time.Now().Format(time.RFC3339)
	export.Metadata.TotalPosts = len(report.TopPosts)
	export.Metadata.ToolVersion = toolVersion
	export.Metadata.ReportID = report.ReportID

	export.Posts = make([]jsonPost, 0, len(report.TopPosts))
	for _, p := range report.TopPosts {
		row := jsonPost{
			PostURL:         p.PostURL,
			Shortcode:       p.Shortcode,
			PostedAt:        p.PostedAt.Format(time.RFC3339),
			Likes:           p.Likes,
			Comments:        p.Comments,
			EngagementScore: p.EngagementScore(),
			OwnerUsername:   p.OwnerUsername,
			Caption:         p.Caption,
			Hashtags:        strings.Join(p.Hashtags, ", "),
			PostType:        p.PostType(),
			Location:        p.Location,
			IsSponsored:     p.IsSponsored,
		}
		if p.IsVideo {
			views := p.VideoViews
			row.VideoViews = &views
		}
		export.Posts = append(export.Posts, row)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	r.log.Info("Exported JSON", "path", path, "posts", len(report.TopPosts))
	return path, nil
}

// PrintSummaryTable renders the top posts as a plain console table.
func (r *Reporter) PrintSummaryTable(posts []*model.Post, topN int) {
	if len(posts) == 0 {
		fmt.Println("\nNo posts to display.")
		return
	}

	if topN > len(posts) {
		topN = len(posts)
	}
	display := posts[:topN]

	line := strings.Repeat("=", 100)
	fmt.Println("\n" + line)
	fmt.Printf("TOP %d POSTS BY ENGAGEMENT\n", len(display))
	fmt.Println(line)
	fmt.Printf("%-5s %-20s %-10s %-10s %-10s %-20s %-30s\n",
		"Rank", "Username", "Likes", "Comments", "Total", "Posted", "URL")
	fmt.Println(strings.Repeat("-", 100))

	for i, post := range display {
		username := post.OwnerUsername
		if len(username) > 19 {
			username = username[:19]
		}
		url := post.PostURL
		if len(url) > 29 {
			url = url[:29]
		}
		fmt.Printf("%-5d %-20s %-10d %-10d %-10d %-20s %-30s\n",
			i+1, username, post.Likes, post.Comments, post.EngagementScore(),
			post.PostedAt.Format("2006-01-02 15:04"), url)
	}
	fmt.Println(line)
}
