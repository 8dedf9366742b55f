package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

// Database archives analyzed posts so past windows can be re-analyzed
// without refetching.
type Database struct {
	Pool *pgxpool.Pool
	Log  pkg.Logger
}

func NewPostgresPool(log pkg.Logger, cfg config.DatabaseConfig) (*Database, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &Database{
		Pool: pool,
		Log:  log,
	}, nil
}

func (d *Database) SavePosts(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		d.Log.Info("No posts to save")
		return nil
	}

	rows := make([][]interface{}, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []interface{}{
			p.Shortcode,
			p.PostURL,
			p.OwnerUsername,
			p.OwnerID,
			p.PostedAt,
			p.Likes,
			p.Comments,
			p.Caption,
			p.Hashtags,
			p.IsVideo,
			p.VideoViews,
			p.Location,
			p.IsSponsored,
		})
	}

	_, err := d.Pool.CopyFrom(
		ctx,
		pgx.Identifier{"posts"},
		[]string{"shortcode", "post_url", "owner_username", "owner_id", "posted_at",
			"likes", "comments", "caption", "hashtags", "is_video", "video_views",
			"location", "is_sponsored"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		d.Log.Error("CopyFrom failed", "err", err)
		return err
	}

	d.Log.Info("Saved posts to database", "count", len(posts))
	return nil
}

func (d *Database) GetMinMaxTimestamps(ctx context.Context) (min time.Time, max time.Time, ok bool, err error) {
	query := `SELECT MIN(posted_at), MAX(posted_at) FROM posts`
	row := d.Pool.QueryRow(ctx, query)

	var minPtr, maxPtr *time.Time
	if err := row.Scan(&minPtr, &maxPtr); err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	if minPtr == nil || maxPtr == nil {
		return time.Time{}, time.Time{}, false, nil
	}

	return *minPtr, *maxPtr, true, nil
}

func (d *Database) GetPostsByPeriod(ctx context.Context, from, to time.Time) ([]*model.Post, error) {
	query := `SELECT shortcode, post_url, owner_username, owner_id, posted_at,
			  likes, comments, caption, hashtags, is_video, video_views,
			  location, is_sponsored
			  FROM posts
			  WHERE posted_at BETWEEN $1 AND $2
			  ORDER BY posted_at ASC`

	rows, err := d.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by period: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.Shortcode,
			&post.PostURL,
			&post.OwnerUsername,
			&post.OwnerID,
			&post.PostedAt,
			&post.Likes,
			&post.Comments,
			&post.Caption,
			&post.Hashtags,
			&post.IsVideo,
			&post.VideoViews,
			&post.Location,
			&post.IsSponsored,
		)
		if err != nil {
			d.Log.Warn("Failed to scan post", "err", err)
			continue
		}
		posts = append(posts, &post)
	}
	return posts, nil
}
