package models

// Outcome is the overall result of a match, derived from a score pair.
type Outcome string

const (
	OutcomeTeamA Outcome = "A"
	OutcomeTeamB Outcome = "B"
	OutcomeDraw  Outcome = "DRAW"
)

// Team identifies one side of a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)
