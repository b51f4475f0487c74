package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"prono-league/database/dbtest"
	"prono-league/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var kickoff = time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)

type fixture struct {
	db          *gorm.DB
	clock       *clockwork.FakeClock
	metrics     *Metrics
	recalc      *Recalculator
	users       *UserService
	matches     *MatchService
	predictions *PredictionService
	leaderboard *LeaderboardService
	fake        *gofakeit.Faker
	seq         int
}

// newFixture wires every service against a fresh database with the clock one day
// before kickoff.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.New(t)
	clock := clockwork.NewFakeClockAt(kickoff.Add(-24 * time.Hour))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := NewMetrics(nil)
	recalc := NewRecalculator(db, logger, metrics)

	return &fixture{
		db:          db,
		clock:       clock,
		metrics:     metrics,
		recalc:      recalc,
		users:       NewUserService(db, logger, metrics),
		matches:     NewMatchService(db, recalc, clock, logger),
		predictions: NewPredictionService(db, clock, DefaultPredictionCutoff, logger, metrics),
		leaderboard: NewLeaderboardService(db, nil, clock, logger),
		fake:        gofakeit.New(42),
	}
}

func (f *fixture) user(t *testing.T) *models.User {
	t.Helper()
	f.seq++
	name := f.fake.Username()
	if len(name) > 20 {
		name = name[:20]
	}
	u, err := f.users.Register(context.Background(), RegisterInput{Username: fmt.Sprintf("%s_%d", name, f.seq)})
	require.NoError(t, err)
	return u
}

func (f *fixture) match(t *testing.T) *models.Match {
	t.Helper()
	return f.matchAt(t, kickoff)
}

func (f *fixture) matchAt(t *testing.T, date time.Time) *models.Match {
	t.Helper()
	players := []PlayerInput{
		{Name: "Achraf Hakimi", Team: models.TeamA},
		{Name: "Youssef En-Nesyri", Team: models.TeamA},
		{Name: "Sadio Mané", Team: models.TeamB},
		{Name: "Ismaïla Sarr", Team: models.TeamB},
	}
	for i := 0; i < 2; i++ {
		players = append(players, PlayerInput{Name: f.fake.Name(), Team: models.TeamB})
	}
	m, err := f.matches.Create(context.Background(), CreateMatchInput{
		TeamA:     "Maroc",
		TeamB:     "Sénégal",
		MatchDate: date,
		Players:   players,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) predict(t *testing.T, user *models.User, match *models.Match, a, b int, scorer string) *models.Prediction {
	t.Helper()
	p, err := f.predictions.Submit(context.Background(), SubmitPredictionInput{
		UserID:     user.ID,
		MatchID:    match.ID,
		ExactScore: &ScoreInput{TeamA: &a, TeamB: &b},
		BestScorer: scorer,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) reloadUser(t *testing.T, id string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, "id = ?", id).Error)
	return u
}

func (f *fixture) reloadPrediction(t *testing.T, id string) models.Prediction {
	t.Helper()
	var p models.Prediction
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p
}

func ptr(v int) *int { return &v }
