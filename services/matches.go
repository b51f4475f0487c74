package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"prono-league/models"
	"prono-league/scoring"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upcomingGrace keeps a match in the upcoming list for the first hour after kickoff.
const upcomingGrace = time.Hour

type MatchService struct {
	DB     *gorm.DB
	recalc *Recalculator
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewMatchService(db *gorm.DB, recalc *Recalculator, clock clockwork.Clock, logger *slog.Logger) *MatchService {
	return &MatchService{DB: db, recalc: recalc, clock: clock, logger: logger}
}

type PlayerInput struct {
	Name string      `json:"name" validate:"required"`
	Team models.Team `json:"team" validate:"required,oneof=A B"`
}

type CreateMatchInput struct {
	TeamA     string        `json:"teamA" validate:"required"`
	TeamB     string        `json:"teamB" validate:"required"`
	MatchDate time.Time     `json:"matchDate" validate:"required"`
	Players   []PlayerInput `json:"players" validate:"required,min=1,dive"`
}

type ResultInput struct {
	TeamA      *int   `json:"teamA" validate:"required,gte=0"`
	TeamB      *int   `json:"teamB" validate:"required,gte=0"`
	BestScorer string `json:"bestScorer"`
}

type MatchFilter struct {
	Upcoming bool
	Finished bool
}

func orderedPlayers(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// Create stores a scheduled match together with its roster.
func (s *MatchService) Create(ctx context.Context, in CreateMatchInput) (*models.Match, error) {
	in.TeamA = strings.TrimSpace(in.TeamA)
	in.TeamB = strings.TrimSpace(in.TeamB)
	for i := range in.Players {
		in.Players[i].Name = strings.TrimSpace(in.Players[i].Name)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	match := &models.Match{
		ID:        uuid.NewString(),
		Slug:      slug.Make(fmt.Sprintf("%s vs %s %s", in.TeamA, in.TeamB, in.MatchDate.UTC().Format("2006-01-02"))),
		TeamA:     in.TeamA,
		TeamB:     in.TeamB,
		MatchDate: in.MatchDate.UTC(),
	}

	players := make([]models.MatchPlayer, len(in.Players))
	for i, p := range in.Players {
		players[i] = models.MatchPlayer{
			ID:        uuid.NewString(),
			MatchID:   match.ID,
			Name:      p.Name,
			Team:      p.Team,
			SortOrder: i,
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(match).Error; err != nil {
			return storageError("create match", err)
		}
		if err := tx.Create(&players).Error; err != nil {
			return storageError("create roster", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.Players = players
	s.logger.Info("match created", "match_id", match.ID, "slug", match.Slug, "players", len(players))
	return match, nil
}

// List returns matches in kickoff order.
func (s *MatchService) List(ctx context.Context, f MatchFilter) ([]models.Match, error) {
	q := s.DB.WithContext(ctx).Preload("Players", orderedPlayers)

	switch {
	case f.Finished:
		q = q.Where("is_finished = ?", true)
	case f.Upcoming:
		q = q.Where("is_finished = ?", false).
			Where("match_date >= ?", s.clock.Now().Add(-upcomingGrace))
	}

	var matches []models.Match
	if err := q.Order("match_date ASC, id ASC").Find(&matches).Error; err != nil {
		return nil, storageError("list matches", err)
	}
	return matches, nil
}

// Get looks a match up by ID, then by slug.
func (s *MatchService) Get(ctx context.Context, idOrSlug string) (*models.Match, error) {
	db := s.DB.WithContext(ctx)

	var match models.Match
	err := db.Preload("Players", orderedPlayers).First(&match, "id = ?", idOrSlug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Preload("Players", orderedPlayers).Order("created_at ASC").First(&match, "slug = ?", idOrSlug).Error
	}
	if err != nil {
		return nil, lookupError("match", err)
	}
	return &match, nil
}

// SetResult records the final score, marks the match finished and rescores its
// predictions, all in one transaction. Entering a result again replaces it.
func (s *MatchService) SetResult(ctx context.Context, id string, in ResultInput) (*models.Match, *RecalculationSummary, error) {
	in.BestScorer = strings.TrimSpace(in.BestScorer)
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}

	var (
		match       models.Match
		summary     *RecalculationSummary
		recalcStart time.Time
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Players", orderedPlayers).First(&match, "id = ?", id).Error; err != nil {
			return lookupError("match", err)
		}

		scorer := in.BestScorer
		if p, ok := scoring.FindPlayer(match.Players, scorer); ok {
			scorer = p.Name
		}
		winner := scoring.Classify(*in.TeamA, *in.TeamB)

		match.FinalScoreA = in.TeamA
		match.FinalScoreB = in.TeamB
		match.BestScorer = scorer
		match.Winner = &winner
		match.IsFinished = true
		if err := tx.Omit(clause.Associations).Save(&match).Error; err != nil {
			return storageError("save result", err)
		}

		var err error
		recalcStart = time.Now()
		summary, err = s.recalc.RecalculateMatchTx(tx, match.ID)
		return err
	})
	// Reported after commit so a rolled back result never counts as scored.
	if !recalcStart.IsZero() {
		s.recalc.observe(id, summary, err, time.Since(recalcStart))
	}
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("match result entered",
		"match_id", match.ID,
		"score", fmt.Sprintf("%d-%d", *match.FinalScoreA, *match.FinalScoreB),
		"best_scorer", match.BestScorer,
	)
	return &match, summary, nil
}

// Recalculate rescores a match without touching its result.
func (s *MatchService) Recalculate(ctx context.Context, id string) (*RecalculationSummary, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Match{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, storageError("load match", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("match %w", ErrNotFound)
	}
	return s.recalc.RecalculateMatch(ctx, id)
}
