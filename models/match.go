package models

import "time"

// Match is a scheduled game between two teams with a declared roster.
// FinalScoreA/FinalScoreB/Winner stay NULL until an administrator enters the result.
type Match struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug      string        `gorm:"index;size:160" json:"slug"`
	TeamA     string        `gorm:"not null" json:"teamA"`
	TeamB     string        `gorm:"not null" json:"teamB"`
	MatchDate time.Time     `gorm:"not null;index" json:"matchDate"`
	Players   []MatchPlayer `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"players"`

	// Final result
	FinalScoreA *int     `json:"-"`
	FinalScoreB *int     `json:"-"`
	BestScorer  string   `json:"-"`
	Winner      *Outcome `gorm:"type:varchar(8)" json:"winner"`
	IsFinished  bool     `gorm:"not null;default:false;index" json:"isFinished"`

	Timestamps
}

// MatchPlayer is one entry of a match roster.
type MatchPlayer struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"-"`
	MatchID   string `gorm:"index;not null" json:"-"`
	Name      string `gorm:"not null" json:"name"`
	Team      Team   `gorm:"type:varchar(1);not null" json:"team"`
	SortOrder int    `gorm:"column:sort_order;default:0" json:"-"`
}

// Score is a pair of goal counts.
type Score struct {
	TeamA int `json:"teamA"`
	TeamB int `json:"teamB"`
}

// FinalScore is the recorded result of a finished match.
type FinalScore struct {
	Score
	BestScorer string `json:"bestScorer,omitempty"`
}

// FinalScore returns nil while no result has been entered.
func (m *Match) FinalScore() *FinalScore {
	if m.FinalScoreA == nil || m.FinalScoreB == nil {
		return nil
	}
	return &FinalScore{
		Score:      Score{TeamA: *m.FinalScoreA, TeamB: *m.FinalScoreB},
		BestScorer: m.BestScorer,
	}
}

// HasStarted reports whether kick-off is at or before now.
func (m *Match) HasStarted(now time.Time) bool {
	return !now.Before(m.MatchDate)
}

// PredictionCutoff is the instant from which new predictions are refused.
func (m *Match) PredictionCutoff(margin time.Duration) time.Time {
	return m.MatchDate.Add(-margin)
}
