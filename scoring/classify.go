// Package scoring holds the pure rules of the contest: how a score pair maps to an
// outcome, how a prediction is graded against a finished match, and how player names
// are compared.
package scoring

import "prono-league/models"

// Classify maps a score pair to the match outcome.
func Classify(scoreA, scoreB int) models.Outcome {
	switch {
	case scoreA > scoreB:
		return models.OutcomeTeamA
	case scoreB > scoreA:
		return models.OutcomeTeamB
	default:
		return models.OutcomeDraw
	}
}
