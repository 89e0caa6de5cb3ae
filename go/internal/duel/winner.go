package duel

import "fmt"

// FinalScore is one player's side of the verdict.
type FinalScore struct {
	Name        string `json:"name"`
	PassedTests int    `json:"passedTests"`
	TotalTests  int    `json:"totalTests"`
	AllPassed   bool   `json:"allPassed"`
}

// FinalScores pairs both sides for the game-over broadcast.
type FinalScores struct {
	Host     FinalScore `json:"host"`
	Opponent FinalScore `json:"opponent"`
}

// Verdict is the outcome of winner resolution.
type Verdict struct {
	Winner      Winner
	WinReason   string
	FinalScores FinalScores
}

// ResolveWinner adjudicates a match from the latest test outcomes.
// Precedence: a lone full pass wins; two full passes draw; otherwise
// the higher passed count wins and equal counts draw.
func ResolveWinner(hostName, opponentName string, host, opponent *TestRunResult) Verdict {
	hostPassed, hostTotal, hostAll := scoreOf(host)
	oppPassed, oppTotal, oppAll := scoreOf(opponent)

	if opponentName == "" {
		opponentName = "Opponent"
	}

	var winner Winner
	var reason string
	switch {
	case hostAll && !oppAll:
		winner = WinnerHost
		reason = fmt.Sprintf("%s completed all test cases!", hostName)
	case oppAll && !hostAll:
		winner = WinnerOpponent
		reason = fmt.Sprintf("%s completed all test cases!", opponentName)
	case hostAll && oppAll:
		winner = WinnerDraw
		reason = "Both players completed all tests - Perfect tie!"
	case hostPassed > oppPassed:
		winner = WinnerHost
		reason = fmt.Sprintf("%s passed more tests (%d vs %d)", hostName, hostPassed, oppPassed)
	case oppPassed > hostPassed:
		winner = WinnerOpponent
		reason = fmt.Sprintf("%s passed more tests (%d vs %d)", opponentName, oppPassed, hostPassed)
	default:
		winner = WinnerDraw
		reason = fmt.Sprintf("Tie - Both passed %d tests", hostPassed)
	}

	return Verdict{
		Winner:    winner,
		WinReason: reason,
		FinalScores: FinalScores{
			Host:     FinalScore{Name: hostName, PassedTests: hostPassed, TotalTests: hostTotal, AllPassed: hostAll},
			Opponent: FinalScore{Name: opponentName, PassedTests: oppPassed, TotalTests: oppTotal, AllPassed: oppAll},
		},
	}
}

func scoreOf(r *TestRunResult) (passed, total int, allPassed bool) {
	if r == nil {
		return 0, 0, false
	}
	return r.PassedTests, r.TotalTests, r.AllPassed
}
