package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leadscout/internal/model"
)

// sqliteSignal is the gorm model of the signals table.
type sqliteSignal struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Platform      string `gorm:"not null;index:idx_platform_external"`
	ExternalID    string `gorm:"index:idx_platform_external"`
	Title         string `gorm:"not null"`
	Content       string `gorm:"not null"`
	URL           string
	Author        string `gorm:"default:anonymous"`
	Score         int
	CommentsCount int
	Priority      string `gorm:"default:medium"`
	// comma separated
	Keywords   string
	Subgroup   string
	Status     string    `gorm:"default:new"`
	CreatedAt  time.Time `gorm:"index;autoCreateTime:false"`
	IngestedAt time.Time
}

func (sqliteSignal) TableName() string { return "signals" }

type sqliteResponse struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	SignalID     int64     `gorm:"not null;index"`
	ResponseText string    `gorm:"not null"`
	GeneratedAt  time.Time `gorm:"autoCreateTime:false"`
}

func (sqliteResponse) TableName() string { return "responses" }

func fromSignal(s model.Signal) sqliteSignal {
	return sqliteSignal{
		ID:            s.ID,
		Platform:      string(s.Platform),
		ExternalID:    s.ExternalID,
		Title:         s.Title,
		Content:       s.Content,
		URL:           s.URL,
		Author:        s.Author,
		Score:         s.EngagementScore,
		CommentsCount: s.CommentCount,
		Priority:      string(s.Priority),
		Keywords:      strings.Join(s.Keywords, ","),
		Subgroup:      s.Subgroup,
		Status:        string(s.Status),
		CreatedAt:     s.CreatedAt,
		IngestedAt:    s.IngestedAt,
	}
}

func (r sqliteSignal) toModel() model.Signal {
	kws := []string{}
	if r.Keywords != "" {
		kws = strings.Split(r.Keywords, ",")
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

// SQLiteStore is the single-file backend built on gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file and migrates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&sqliteSignal{}, &sqliteResponse{}); err != nil {
		return nil, fmt.Errorf("storage: migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, sig *model.Signal) (int64, error) {
	if sig.Status == "" {
		sig.Status = model.StatusNew
	}
	if sig.IngestedAt.IsZero() {
		sig.IngestedAt = time.Now().UTC()
	}
	row := fromSignal(*sig)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	sig.ID = row.ID
	return row.ID, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (model.Signal, error) {
	var row sqliteSignal
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Signal{}, ErrNotFound
	}
	if err != nil {
		return model.Signal{}, err
	}
	return row.toModel(), nil
}

func (s *SQLiteStore) ListAll(ctx context.Context, limit int) ([]model.Signal, error) {
	return s.List(ctx, Filter{}, limit)
}

func (s *SQLiteStore) List(ctx context.Context, f Filter, limit int) ([]model.Signal, error) {
	q := s.db.WithContext(ctx).Model(&sqliteSignal{})
	if f.Platform != "" {
		q = q.Where("platform = ?", string(f.Platform))
	}
	if ps := f.priorities(); ps != nil {
		q = q.Where("priority IN ?", ps)
	}
	var rows []sqliteSignal
	err := q.Order("created_at DESC").Order("id DESC").Limit(limitOr(limit)).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.Signal, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status model.Status) error {
	if err := validStatus(status); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&sqliteSignal{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) InsertResponse(ctx context.Context, signalID int64, text string) (int64, error) {
	if _, err := s.Get(ctx, signalID); err != nil {
		return 0, err
	}
	row := sqliteResponse{SignalID: signalID, ResponseText: text, GeneratedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *SQLiteStore) ListResponses(ctx context.Context, limit int) ([]model.OutreachResponse, error) {
	var rows []struct {
		ID           int64
		SignalID     int64
		ResponseText string
		GeneratedAt  time.Time
		Title        string
		Platform     string
	}
	err := s.db.WithContext(ctx).
		Table("responses r").
		Select("r.id, r.signal_id, r.response_text, r.generated_at, s.title, s.platform").
		Joins("JOIN signals s ON r.signal_id = s.id").
		Order("r.generated_at DESC").Order("r.id DESC").
		Limit(limitOr(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.OutreachResponse, len(rows))
	for i, r := range rows {
		out[i] = model.OutreachResponse{
			ID:             r.ID,
			SignalID:       r.SignalID,
			Text:           r.ResponseText,
			GeneratedAt:    r.GeneratedAt.UTC(),
			SignalTitle:    r.Title,
			SignalPlatform: model.Platform(r.Platform),
		}
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
