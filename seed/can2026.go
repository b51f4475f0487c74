// Package seed loads the demonstration fixtures of the 2026 Africa Cup of Nations.
package seed

import (
	"context"
	"fmt"
	"time"

	"prono-league/models"
	"prono-league/services"
)

func roster(teamA, teamB []string) []services.PlayerInput {
	players := make([]services.PlayerInput, 0, len(teamA)+len(teamB))
	for _, name := range teamA {
		players = append(players, services.PlayerInput{Name: name, Team: models.TeamA})
	}
	for _, name := range teamB {
		players = append(players, services.PlayerInput{Name: name, Team: models.TeamB})
	}
	return players
}

// CAN2026 returns the two group matches used to demo the contest.
func CAN2026() []services.CreateMatchInput {
	return []services.CreateMatchInput{
		{
			TeamA:     "Maroc",
			TeamB:     "Sénégal",
			MatchDate: time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC),
			Players: roster(
				[]string{
					"Yassine Bounou", "Achraf Hakimi", "Nayef Aguerd", "Romain Saïss",
					"Sofyan Amrabat", "Azzedine Ounahi", "Hakim Ziyech", "Youssef En-Nesyri",
					"Sofiane Boufal", "Amine Harit", "Selim Amallah",
				},
				[]string{
					"Édouard Mendy", "Kalidou Koulibaly", "Abdou Diallo", "Youssouf Sabaly",
					"Idrissa Gueye", "Pape Matar Sarr", "Ismaïla Sarr", "Sadio Mané",
					"Boulaye Dia", "Iliman Ndiaye", "Nicolas Jackson",
				},
			),
		},
		{
			TeamA:     "Côte d'Ivoire",
			TeamB:     "Nigeria",
			MatchDate: time.Date(2026, 1, 18, 17, 0, 0, 0, time.UTC),
			Players: roster(
				[]string{
					"Yahia Fofana", "Serge Aurier", "Willy Boly", "Evan Ndicka",
					"Ghislain Konan", "Franck Kessié", "Seko Fofana", "Max Gradel",
					"Sébastien Haller", "Nicolas Pépé", "Simon Adingra",
				},
				[]string{
					"Stanley Nwabali", "William Troost-Ekong", "Calvin Bassey", "Ola Aina",
					"Zaidu Sanusi", "Alex Iwobi", "Frank Onyeka", "Ademola Lookman",
					"Victor Osimhen", "Moses Simon", "Kelechi Iheanacho",
				},
			),
		},
	}
}

// Run creates every fixture through the match service.
func Run(ctx context.Context, matches *services.MatchService) ([]*models.Match, error) {
	fixtures := CAN2026()
	created := make([]*models.Match, 0, len(fixtures))
	for _, in := range fixtures {
		m, err := matches.Create(ctx, in)
		if err != nil {
			return created, fmt.Errorf("seed %s vs %s: %w", in.TeamA, in.TeamB, err)
		}
		created = append(created, m)
	}
	return created, nil
}
