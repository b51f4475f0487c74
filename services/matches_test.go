package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"prono-league/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.matches.Create(ctx, CreateMatchInput{
		TeamA:     "  Côte d'Ivoire ",
		TeamB:     "Nigeria",
		MatchDate: time.Date(2026, 1, 18, 17, 0, 0, 0, time.UTC),
		Players: []PlayerInput{
			{Name: " Sébastien Haller ", Team: models.TeamA},
			{Name: "Victor Osimhen", Team: models.TeamB},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Côte d'Ivoire", m.TeamA)
	assert.True(t, strings.HasPrefix(m.Slug, "cote-d"), m.Slug)
	assert.True(t, strings.HasSuffix(m.Slug, "ivoire-vs-nigeria-2026-01-18"), m.Slug)
	assert.False(t, m.IsFinished)
	assert.Nil(t, m.Winner)
	assert.Nil(t, m.FinalScore())

	got, err := f.matches.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got.Players, 2)
	assert.Equal(t, "Sébastien Haller", got.Players[0].Name)
	assert.Equal(t, models.TeamB, got.Players[1].Team)

	bySlug, err := f.matches.Get(ctx, m.Slug)
	require.NoError(t, err)
	assert.Equal(t, m.ID, bySlug.ID)
}

func TestMatchService_CreateValidation(t *testing.T) {
	valid := func() CreateMatchInput {
		return CreateMatchInput{
			TeamA:     "Maroc",
			TeamB:     "Sénégal",
			MatchDate: kickoff,
			Players:   []PlayerInput{{Name: "Achraf Hakimi", Team: models.TeamA}},
		}
	}

	tests := []struct {
		name   string
		mutate func(in *CreateMatchInput)
	}{
		{name: "missing team A", mutate: func(in *CreateMatchInput) { in.TeamA = " " }},
		{name: "missing team B", mutate: func(in *CreateMatchInput) { in.TeamB = "" }},
		{name: "missing date", mutate: func(in *CreateMatchInput) { in.MatchDate = time.Time{} }},
		{name: "no players", mutate: func(in *CreateMatchInput) { in.Players = nil }},
		{name: "blank player name", mutate: func(in *CreateMatchInput) { in.Players[0].Name = "  " }},
		{name: "bad team", mutate: func(in *CreateMatchInput) { in.Players[0].Team = "C" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := valid()
			tt.mutate(&in)

			_, err := f.matches.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)

			var count int64
			require.NoError(t, f.db.Model(&models.Match{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestMatchService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	later := f.matchAt(t, now.Add(48*time.Hour))
	soon := f.matchAt(t, now.Add(2*time.Hour))
	justStarted := f.matchAt(t, now.Add(-30*time.Minute))
	long := f.matchAt(t, now.Add(-3*time.Hour))
	done := f.matchAt(t, now.Add(-5*time.Hour))
	_, _, err := f.matches.SetResult(ctx, done.ID, ResultInput{TeamA: ptr(1), TeamB: ptr(0)})
	require.NoError(t, err)

	ids := func(ms []models.Match) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}

	all, err := f.matches.List(ctx, MatchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{done.ID, long.ID, justStarted.ID, soon.ID, later.ID}, ids(all))

	upcoming, err := f.matches.List(ctx, MatchFilter{Upcoming: true})
	require.NoError(t, err)
	assert.Equal(t, []string{justStarted.ID, soon.ID, later.ID}, ids(upcoming))

	finished, err := f.matches.List(ctx, MatchFilter{Finished: true})
	require.NoError(t, err)
	assert.Equal(t, []string{done.ID}, ids(finished))
	require.NotNil(t, finished[0].FinalScore())
	assert.Len(t, finished[0].Players, 6)
}

func TestMatchService_SetResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.match(t)

	t.Run("validation", func(t *testing.T) {
		_, _, err := f.matches.SetResult(ctx, m.ID, ResultInput{TeamA: ptr(1)})
		assert.ErrorIs(t, err, ErrValidation)
		_, _, err = f.matches.SetResult(ctx, m.ID, ResultInput{TeamA: ptr(-1), TeamB: ptr(0)})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, _, err := f.matches.SetResult(ctx, "nope", ResultInput{TeamA: ptr(1), TeamB: ptr(0)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("canonical scorer", func(t *testing.T) {
		got, summary, err := f.matches.SetResult(ctx, m.ID, ResultInput{TeamA: ptr(0), TeamB: ptr(2), BestScorer: " ISMAÏLA sarr"})
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.True(t, got.IsFinished)
		require.NotNil(t, got.Winner)
		assert.Equal(t, models.OutcomeTeamB, *got.Winner)
		assert.Equal(t, "Ismaïla Sarr", got.BestScorer)
	})

	t.Run("off-roster scorer kept as typed", func(t *testing.T) {
		got, _, err := f.matches.SetResult(ctx, m.ID, ResultInput{TeamA: ptr(1), TeamB: ptr(1), BestScorer: "Own Goal"})
		require.NoError(t, err)
		assert.Equal(t, "Own Goal", got.BestScorer)
		assert.Equal(t, models.OutcomeDraw, *got.Winner)

		stored, err := f.matches.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, &models.FinalScore{Score: models.Score{TeamA: 1, TeamB: 1}, BestScorer: "Own Goal"}, stored.FinalScore())
	})
}

func TestMatchService_Recalculate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.matches.Recalculate(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	m := f.match(t)
	summary, err := f.matches.Recalculate(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
}
