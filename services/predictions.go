package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"prono-league/models"
	"prono-league/scoring"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPredictionCutoff closes predictions this long before kickoff.
const DefaultPredictionCutoff = 5 * time.Minute

type PredictionService struct {
	DB      *gorm.DB
	clock   clockwork.Clock
	cutoff  time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

func NewPredictionService(db *gorm.DB, clock clockwork.Clock, cutoff time.Duration, logger *slog.Logger, metrics *Metrics) *PredictionService {
	return &PredictionService{DB: db, clock: clock, cutoff: cutoff, logger: logger, metrics: metrics}
}

type ScoreInput struct {
	TeamA *int `json:"teamA" validate:"required,gte=0"`
	TeamB *int `json:"teamB" validate:"required,gte=0"`
}

type SubmitPredictionInput struct {
	UserID     string      `json:"userId" validate:"required"`
	MatchID    string      `json:"matchId" validate:"required"`
	ExactScore *ScoreInput `json:"exactScore" validate:"required"`
	BestScorer string      `json:"bestScorer" validate:"required"`
}

type PredictionFilter struct {
	UserID  string
	MatchID string
}

// Submit stores a user's prediction for a match that is still open. Every check
// runs before anything is written.
func (s *PredictionService) Submit(ctx context.Context, in SubmitPredictionInput) (*models.Prediction, error) {
	prediction, err := s.submit(ctx, in)
	if err != nil {
		s.metrics.PredictionsRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}
	s.metrics.PredictionsSubmitted.Inc()
	s.logger.Info("prediction submitted",
		"prediction_id", prediction.ID,
		"user_id", prediction.UserID,
		"match_id", prediction.MatchID,
	)
	return prediction, nil
}

func (s *PredictionService) submit(ctx context.Context, in SubmitPredictionInput) (*models.Prediction, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.MatchID = strings.TrimSpace(in.MatchID)
	in.BestScorer = strings.TrimSpace(in.BestScorer)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", in.UserID).Error; err != nil {
		return nil, lookupError("user", err)
	}

	var match models.Match
	if err := db.Preload("Players", orderedPlayers).First(&match, "id = ?", in.MatchID).Error; err != nil {
		return nil, lookupError("match", err)
	}

	if match.IsFinished {
		return nil, ErrMatchFinished
	}
	now := s.clock.Now()
	if match.HasStarted(now) {
		return nil, fmt.Errorf("%w (kicked off at %s)", ErrPredictionsClosed, match.MatchDate.UTC().Format(time.RFC3339))
	}
	if !now.Before(match.PredictionCutoff(s.cutoff)) {
		return nil, ErrPredictionsClosed
	}

	player, ok := scoring.FindPlayer(match.Players, in.BestScorer)
	if !ok {
		return nil, fmt.Errorf("%w (got %q)", ErrUnknownScorer, in.BestScorer)
	}

	var existing int64
	err := db.Model(&models.Prediction{}).
		Where("user_id = ? AND match_id = ?", user.ID, match.ID).
		Count(&existing).Error
	if err != nil {
		return nil, storageError("check existing prediction", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: a prediction for this match already exists", ErrConflict)
	}

	scoreA, scoreB := *in.ExactScore.TeamA, *in.ExactScore.TeamB
	prediction := &models.Prediction{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		MatchID:    match.ID,
		ScoreA:     scoreA,
		ScoreB:     scoreB,
		BestScorer: player.Name,
		Result:     scoring.Classify(scoreA, scoreB),
		Points:     0,
	}
	if err := db.Omit(clause.Associations).Create(prediction).Error; err != nil {
		return nil, storageError("create prediction", err)
	}

	prediction.User = &user
	prediction.Match = &match
	return prediction, nil
}

// List returns predictions newest first, with their user and match loaded.
func (s *PredictionService) List(ctx context.Context, f PredictionFilter) ([]models.Prediction, error) {
	q := s.DB.WithContext(ctx).Preload("User").Preload("Match")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.MatchID != "" {
		q = q.Where("match_id = ?", f.MatchID)
	}

	var predictions []models.Prediction
	if err := q.Order("created_at DESC, id DESC").Find(&predictions).Error; err != nil {
		return nil, storageError("list predictions", err)
	}
	return predictions, nil
}
