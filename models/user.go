package models

// User is a registered contestant. TotalPoints is a denormalized projection of the
// points stored on the user's predictions and is only ever rewritten as a full sum.
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username    string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	TotalPoints int    `gorm:"not null;default:0;index" json:"totalPoints"`

	Timestamps
}
