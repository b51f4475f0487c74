package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"prono-league/models"
	"prono-league/scoring"

	"gorm.io/gorm"
)

// Recalculator rescores the predictions of a finished match and refreshes the
// totals of every user who predicted it.
type Recalculator struct {
	DB      *gorm.DB
	logger  *slog.Logger
	metrics *Metrics
}

func NewRecalculator(db *gorm.DB, logger *slog.Logger, metrics *Metrics) *Recalculator {
	return &Recalculator{DB: db, logger: logger, metrics: metrics}
}

// RecalculationSummary reports what one recalculation wrote.
type RecalculationSummary struct {
	MatchID           string `json:"matchId"`
	Skipped           bool   `json:"skipped"`
	PredictionsScored int    `json:"predictionsScored"`
	UsersUpdated      int    `json:"usersUpdated"`
	PointsAwarded     int    `json:"pointsAwarded"`
}

// AuditResult reports a full pass over the user totals.
type AuditResult struct {
	UsersChecked   int `json:"usersChecked"`
	UsersCorrected int `json:"usersCorrected"`
}

// RecalculateMatch rescores a match in its own transaction. A missing match or one
// without a final score is skipped without error.
func (r *Recalculator) RecalculateMatch(ctx context.Context, matchID string) (*RecalculationSummary, error) {
	start := time.Now()

	var summary *RecalculationSummary
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		summary, err = r.RecalculateMatchTx(tx, matchID)
		return err
	})
	r.observe(matchID, summary, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// RecalculateMatchTx joins the caller's transaction so that a result update and
// the rescoring it triggers commit or roll back together. It records no metrics;
// the caller reports the outcome once the transaction has ended.
func (r *Recalculator) RecalculateMatchTx(tx *gorm.DB, matchID string) (*RecalculationSummary, error) {
	return r.recalculate(tx, matchID)
}

// observe reports a recalculation after its transaction committed or failed.
func (r *Recalculator) observe(matchID string, summary *RecalculationSummary, err error, elapsed time.Duration) {
	r.metrics.RecalculationDuration.Observe(elapsed.Seconds())

	switch {
	case err != nil:
		r.metrics.Recalculations.WithLabelValues("failed").Inc()
		r.logger.Error("recalculation failed", "match_id", matchID, "error", err)
	case summary.Skipped:
		r.metrics.Recalculations.WithLabelValues("skipped").Inc()
		r.logger.Debug("recalculation skipped", "match_id", matchID)
	default:
		r.metrics.Recalculations.WithLabelValues("scored").Inc()
		r.metrics.PointsAwarded.Add(float64(summary.PointsAwarded))
		r.logger.Info("match recalculated",
			"match_id", matchID,
			"predictions", summary.PredictionsScored,
			"users", summary.UsersUpdated,
			"points", summary.PointsAwarded,
		)
	}
}

func (r *Recalculator) recalculate(tx *gorm.DB, matchID string) (*RecalculationSummary, error) {
	summary := &RecalculationSummary{MatchID: matchID}

	var match models.Match
	if err := tx.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			summary.Skipped = true
			return summary, nil
		}
		return nil, storageError("load match", err)
	}
	if match.FinalScore() == nil {
		summary.Skipped = true
		return summary, nil
	}

	var predictions []models.Prediction
	if err := tx.Where("match_id = ?", matchID).Order("created_at ASC, id ASC").Find(&predictions).Error; err != nil {
		return nil, storageError("load predictions", err)
	}

	affected := make(map[string]struct{}, len(predictions))
	for _, p := range predictions {
		points := scoring.Points(p, match)
		// Written unconditionally so a corrected result can lower earlier points.
		if err := tx.Model(&models.Prediction{}).Where("id = ?", p.ID).Update("points", points).Error; err != nil {
			return nil, storageError("update prediction points", err)
		}
		summary.PredictionsScored++
		summary.PointsAwarded += points
		affected[p.UserID] = struct{}{}
	}

	userIDs := make([]string, 0, len(affected))
	for id := range affected {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		if _, err := refreshUserTotal(tx, userID); err != nil {
			return nil, err
		}
		summary.UsersUpdated++
	}
	return summary, nil
}

// refreshUserTotal stores the full sum of the user's prediction points.
func refreshUserTotal(tx *gorm.DB, userID string) (int, error) {
	var total int64
	err := tx.Model(&models.Prediction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, storageError("sum user points", err)
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("total_points", total).Error; err != nil {
		return 0, storageError("update user total", err)
	}
	return int(total), nil
}

// RecalculateAllTotals recomputes every user's total from their predictions and
// corrects the ones that drifted.
func (r *Recalculator) RecalculateAllTotals(ctx context.Context) (*AuditResult, error) {
	result := &AuditResult{}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users []models.User
		if err := tx.Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
			return storageError("load users", err)
		}

		type userSum struct {
			UserID string
			Total  int
		}
		var sums []userSum
		err := tx.Model(&models.Prediction{}).
			Select("user_id, COALESCE(SUM(points), 0) AS total").
			Group("user_id").
			Scan(&sums).Error
		if err != nil {
			return storageError("sum points", err)
		}

		want := make(map[string]int, len(sums))
		for _, s := range sums {
			want[s.UserID] = s.Total
		}

		for _, u := range users {
			result.UsersChecked++
			total := want[u.ID]
			if u.TotalPoints == total {
				continue
			}
			if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Update("total_points", total).Error; err != nil {
				return storageError("update user total", err)
			}
			r.logger.Warn("user total corrected",
				"user_id", u.ID,
				"stored", u.TotalPoints,
				"computed", total,
			)
			result.UsersCorrected++
		}
		return nil
	})
	if err != nil {
		r.logger.Error("totals audit failed", "error", err)
		return nil, err
	}
	return result, nil
}
