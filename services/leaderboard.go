package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"prono-league/models"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// ObjectStore uploads a blob and returns the URL it is served from.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type LeaderboardService struct {
	DB     *gorm.DB
	store  ObjectStore
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewLeaderboardService accepts a nil store, in which case Export is disabled.
func NewLeaderboardService(db *gorm.DB, store ObjectStore, clock clockwork.Clock, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{DB: db, store: store, clock: clock, logger: logger}
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
}

type LeaderboardSnapshot struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type LeaderboardExport struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Entries     int       `json:"entries"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Standings ranks users by total points, earlier registrations first on ties.
// A limit of zero or less returns everyone.
func (s *LeaderboardService) Standings(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	q := s.DB.WithContext(ctx).Model(&models.User{}).Order("total_points DESC, created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, storageError("load leaderboard", err)
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			TotalPoints: u.TotalPoints,
		}
	}
	return entries, nil
}

// Export uploads the full standings as a JSON snapshot.
func (s *LeaderboardService) Export(ctx context.Context) (*LeaderboardExport, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	entries, err := s.Standings(ctx, 0)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	body, err := json.Marshal(LeaderboardSnapshot{GeneratedAt: now, Leaderboard: entries})
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}

	key := fmt.Sprintf("leaderboards/%s.json", now.Format("20060102T150405Z"))
	url, err := s.store.PutObject(ctx, key, "application/json", body)
	if err != nil {
		return nil, fmt.Errorf("upload leaderboard: %w", err)
	}

	s.logger.Info("leaderboard exported", "key", key, "entries", len(entries))
	return &LeaderboardExport{Key: key, URL: url, Entries: len(entries), GeneratedAt: now}, nil
}
