package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"prono-league/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (s *fakeStore) PutObject(_ context.Context, key, contentType string, body []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.key, s.contentType, s.body = key, contentType, body
	return "https://cdn.example.com/" + key, nil
}

func seedStandings(t *testing.T, f *fixture) {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: "u1", Username: "amine", TotalPoints: 7, Timestamps: models.Timestamps{CreatedAt: base.Add(3 * time.Hour)}},
		{ID: "u2", Username: "fatou", TotalPoints: 12, Timestamps: models.Timestamps{CreatedAt: base.Add(2 * time.Hour)}},
		{ID: "u3", Username: "kwame", TotalPoints: 7, Timestamps: models.Timestamps{CreatedAt: base}},
		{ID: "u4", Username: "nadia", Timestamps: models.Timestamps{CreatedAt: base.Add(time.Hour)}},
	}
	require.NoError(t, f.db.Create(&users).Error)
}

func TestLeaderboardService_Standings(t *testing.T) {
	f := newFixture(t)
	seedStandings(t, f)

	tests := []struct {
		name  string
		limit int
		want  []LeaderboardEntry
	}{
		{
			name:  "everyone",
			limit: 0,
			want: []LeaderboardEntry{
				{Rank: 1, UserID: "u2", Username: "fatou", TotalPoints: 12},
				{Rank: 2, UserID: "u3", Username: "kwame", TotalPoints: 7},
				{Rank: 3, UserID: "u1", Username: "amine", TotalPoints: 7},
				{Rank: 4, UserID: "u4", Username: "nadia", TotalPoints: 0},
			},
		},
		{
			name:  "limited",
			limit: 2,
			want: []LeaderboardEntry{
				{Rank: 1, UserID: "u2", Username: "fatou", TotalPoints: 12},
				{Rank: 2, UserID: "u3", Username: "kwame", TotalPoints: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.leaderboard.Standings(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLeaderboardService_Export(t *testing.T) {
	t.Run("disabled without store", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.leaderboard.Export(context.Background())
		assert.ErrorIs(t, err, ErrExportDisabled)
	})

	t.Run("uploads snapshot", func(t *testing.T) {
		f := newFixture(t)
		seedStandings(t, f)
		store := &fakeStore{}
		f.leaderboard.store = store

		export, err := f.leaderboard.Export(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "leaderboards/20260114T200000Z.json", export.Key)
		assert.Equal(t, "https://cdn.example.com/leaderboards/20260114T200000Z.json", export.URL)
		assert.Equal(t, 4, export.Entries)
		assert.Equal(t, "application/json", store.contentType)

		var snapshot LeaderboardSnapshot
		require.NoError(t, json.Unmarshal(store.body, &snapshot))
		assert.True(t, snapshot.GeneratedAt.Equal(kickoff.Add(-24*time.Hour)))
		require.Len(t, snapshot.Leaderboard, 4)
		assert.Equal(t, "fatou", snapshot.Leaderboard[0].Username)
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture(t)
		f.leaderboard.store = &fakeStore{err: errors.New("bucket unavailable")}

		_, err := f.leaderboard.Export(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket unavailable")
	})
}
