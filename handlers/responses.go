package handlers

import (
	"time"

	"prono-league/models"
)

type matchResponse struct {
	ID         string               `json:"id"`
	Slug       string               `json:"slug"`
	TeamA      string               `json:"teamA"`
	TeamB      string               `json:"teamB"`
	MatchDate  time.Time            `json:"matchDate"`
	Players    []models.MatchPlayer `json:"players"`
	FinalScore *models.FinalScore   `json:"finalScore"`
	Winner     *models.Outcome      `json:"winner"`
	IsFinished bool                 `json:"isFinished"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func newMatchResponse(m *models.Match) matchResponse {
	players := m.Players
	if players == nil {
		players = []models.MatchPlayer{}
	}
	return matchResponse{
		ID:         m.ID,
		Slug:       m.Slug,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		MatchDate:  m.MatchDate,
		Players:    players,
		FinalScore: m.FinalScore(),
		Winner:     m.Winner,
		IsFinished: m.IsFinished,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func newMatchResponses(ms []models.Match) []matchResponse {
	out := make([]matchResponse, len(ms))
	for i := range ms {
		out[i] = newMatchResponse(&ms[i])
	}
	return out
}

// Embedded summaries keep prediction listings small.
type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type matchSummary struct {
	ID         string    `json:"id"`
	TeamA      string    `json:"teamA"`
	TeamB      string    `json:"teamB"`
	MatchDate  time.Time `json:"matchDate"`
	IsFinished bool      `json:"isFinished"`
}

type predictionResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	MatchID    string         `json:"matchId"`
	ExactScore models.Score   `json:"exactScore"`
	BestScorer string         `json:"bestScorer"`
	Result     models.Outcome `json:"result"`
	Points     int            `json:"points"`
	CreatedAt  time.Time      `json:"createdAt"`
	User       *userSummary   `json:"user,omitempty"`
	Match      *matchSummary  `json:"match,omitempty"`
}

func newPredictionResponse(p *models.Prediction) predictionResponse {
	resp := predictionResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		MatchID:    p.MatchID,
		ExactScore: p.ExactScore(),
		BestScorer: p.BestScorer,
		Result:     p.Result,
		Points:     p.Points,
		CreatedAt:  p.CreatedAt,
	}
	if p.User != nil {
		resp.User = &userSummary{ID: p.User.ID, Username: p.User.Username}
	}
	if p.Match != nil {
		resp.Match = &matchSummary{
			ID:         p.Match.ID,
			TeamA:      p.Match.TeamA,
			TeamB:      p.Match.TeamB,
			MatchDate:  p.Match.MatchDate,
			IsFinished: p.Match.IsFinished,
		}
	}
	return resp
}
