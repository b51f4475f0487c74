package scoring

import "prono-league/models"

// Point weights. The three awards are independent and add up.
const (
	ExactScorePoints = 3
	BestScorerPoints = 2
	OutcomePoints    = 1

	MaxPoints = ExactScorePoints + BestScorerPoints + OutcomePoints
)

// Points grades a prediction against a match. A match without a final score
// yields 0.
func Points(p models.Prediction, m models.Match) int {
	final := m.FinalScore()
	if final == nil {
		return 0
	}

	points := 0
	if p.ScoreA == final.TeamA && p.ScoreB == final.TeamB {
		points += ExactScorePoints
	}
	if NormalizeName(final.BestScorer) != "" && SameName(p.BestScorer, final.BestScorer) {
		points += BestScorerPoints
	}
	if Classify(p.ScoreA, p.ScoreB) == Classify(final.TeamA, final.TeamB) {
		points += OutcomePoints
	}
	return points
}
