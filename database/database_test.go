package database_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"prono-league/database"
	"prono-league/database/dbtest"
	"prono-league/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db := dbtest.New(t)

	for _, model := range []any{&models.User{}, &models.Match{}, &models.MatchPlayer{}, &models.Prediction{}} {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Prediction{}, "idx_predictions_user_match"))
}

func TestUniqueIndexes(t *testing.T) {
	tests := []struct {
		name   string
		second func(db *gorm.DB) error
	}{
		{
			name: "duplicate username",
			second: func(db *gorm.DB) error {
				return db.Create(&models.User{ID: "u2", Username: "amine"}).Error
			},
		},
		{
			name: "duplicate prediction",
			second: func(db *gorm.DB) error {
				return db.Create(&models.Prediction{ID: "p2", UserID: "u1", MatchID: "m1", BestScorer: "x", Result: models.OutcomeDraw}).Error
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := dbtest.New(t)
			require.NoError(t, db.Create(&models.User{ID: "u1", Username: "amine"}).Error)
			require.NoError(t, db.Omit("Players").Create(&models.Match{ID: "m1", TeamA: "A", TeamB: "B"}).Error)
			require.NoError(t, db.Create(&models.Prediction{ID: "p1", UserID: "u1", MatchID: "m1", BestScorer: "x", Result: models.OutcomeDraw}).Error)

			err := tt.second(db)
			require.Error(t, err)
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: database.NewLogger(log)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	buf.Reset()

	t.Run("record not found is silent", func(t *testing.T) {
		var u models.User
		err := db.First(&u, "id = ?", "nobody").Error
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Zero(t, buf.Len())
	})

	t.Run("failed query is logged", func(t *testing.T) {
		buf.Reset()
		err := db.Exec("SELECT * FROM missing_table").Error
		require.Error(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "gorm", entry["component"])
		assert.Contains(t, entry["msg"], "missing_table")
	})
}
