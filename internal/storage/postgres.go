package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"leadscout/internal/model"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

// PostgresStore is the relational backend built on sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects with the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: connect postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

// Migrate applies the embedded schema files in name order. They are idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("storage: migrate %s: %w", name, err)
		}
	}
	return nil
}

type signalRow struct {
	ID            int64          `db:"id"`
	Platform      string         `db:"platform"`
	ExternalID    string         `db:"external_id"`
	Title         string         `db:"title"`
	Content       string         `db:"content"`
	URL           string         `db:"url"`
	Author        string         `db:"author"`
	Score         int            `db:"score"`
	CommentsCount int            `db:"comments_count"`
	Priority      string         `db:"priority"`
	Keywords      pq.StringArray `db:"keywords"`
	Subgroup      string         `db:"subgroup"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	IngestedAt    time.Time      `db:"ingested_at"`
}

func (r signalRow) toModel() model.Signal {
	kws := []string(r.Keywords)
	if kws == nil {
		kws = []string{}
	}
	return model.Signal{
		ID:              r.ID,
		Platform:        model.Platform(r.Platform),
		ExternalID:      r.ExternalID,
		Title:           r.Title,
		Content:         r.Content,
		URL:             r.URL,
		Author:          r.Author,
		EngagementScore: r.Score,
		CommentCount:    r.CommentsCount,
		Priority:        model.Priority(r.Priority),
		Keywords:        kws,
		Subgroup:        r.Subgroup,
		Status:          model.Status(r.Status),
		CreatedAt:       r.CreatedAt.UTC(),
		IngestedAt:      r.IngestedAt.UTC(),
	}
}

const signalColumns = `id, platform, external_id, title, content, url, author, score,
	comments_count, priority, keywords, subgroup, status, created_at, ingested_at`

func (s *PostgresStore) Insert(ctx context.Context, sig *model.Signal) (int64, error) {
	if sig.Status == "" {
		sig.Status = model.StatusNew
	}
	if sig.IngestedAt.IsZero() {
		sig.IngestedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO signals (
			platform, external_id, title, content, url, author, score,
			comments_count, priority, keywords, subgroup, status, created_at, ingested_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		sig.Platform,
		sig.ExternalID,
		sig.Title,
		sig.Content,
		sig.URL,
		sig.Author,
		sig.EngagementScore,
		sig.CommentCount,
		sig.Priority,
		pq.Array(sig.Keywords),
		sig.Subgroup,
		sig.Status,
		sig.CreatedAt,
		sig.IngestedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	sig.ID = id
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (model.Signal, error) {
	var row signalRow
	err := s.db.GetContext(ctx, &row, `SELECT `+signalColumns+` FROM signals WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Signal{}, ErrNotFound
	}
	if err != nil {
		return model.Signal{}, err
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListAll(ctx context.Context, limit int) ([]model.Signal, error) {
	return s.List(ctx, Filter{}, limit)
}

func (s *PostgresStore) List(ctx context.Context, f Filter, limit int) ([]model.Signal, error) {
	var (
		where []string
		args  []any
	)
	if f.Platform != "" {
		args = append(args, string(f.Platform))
		where = append(where, fmt.Sprintf("platform = $%d", len(args)))
	}
	if ps := f.priorities(); ps != nil {
		args = append(args, pq.Array(ps))
		where = append(where, fmt.Sprintf("priority = ANY($%d)", len(args)))
	}
	query := `SELECT ` + signalColumns + ` FROM signals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limitOr(limit))
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	var rows []signalRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]model.Signal, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id int64, status model.Status) error {
	if err := validStatus(status); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE signals SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InsertResponse(ctx context.Context, signalID int64, text string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO responses (signal_id, response_text) VALUES ($1, $2) RETURNING id`,
		signalID, text,
	).Scan(&id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) ListResponses(ctx context.Context, limit int) ([]model.OutreachResponse, error) {
	var rows []struct {
		ID          int64     `db:"id"`
		SignalID    int64     `db:"signal_id"`
		Text        string    `db:"response_text"`
		GeneratedAt time.Time `db:"generated_at"`
		Title       string    `db:"title"`
		Platform    string    `db:"platform"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.signal_id, r.response_text, r.generated_at, s.title, s.platform
		FROM responses r
		JOIN signals s ON r.signal_id = s.id
		ORDER BY r.generated_at DESC, r.id DESC
		LIMIT $1`, limitOr(limit))
	if err != nil {
		return nil, err
	}
	out := make([]model.OutreachResponse, len(rows))
	for i, r := range rows {
		out[i] = model.OutreachResponse{
			ID:             r.ID,
			SignalID:       r.SignalID,
			Text:           r.Text,
			GeneratedAt:    r.GeneratedAt.UTC(),
			SignalTitle:    r.Title,
			SignalPlatform: model.Platform(r.Platform),
		}
	}
	return out, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
