package models

// Prediction is one user's forecast for one match. Points is written only by
// score recalculation; every other field is fixed at submission.
type Prediction struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_predictions_user_match;index" json:"userId"`
	MatchID    string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_predictions_user_match;index" json:"matchId"`
	ScoreA     int     `gorm:"not null" json:"-"`
	ScoreB     int     `gorm:"not null" json:"-"`
	BestScorer string  `gorm:"not null" json:"bestScorer"`
	Result     Outcome `gorm:"type:varchar(8);not null" json:"result"`
	Points     int     `gorm:"not null;default:0" json:"points"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Match *Match `gorm:"foreignKey:MatchID" json:"-"`

	Timestamps
}

// ExactScore returns the predicted score pair.
func (p *Prediction) ExactScore() Score {
	return Score{TeamA: p.ScoreA, TeamB: p.ScoreB}
}
