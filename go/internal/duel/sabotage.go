package duel

import "time"

// SabotageEffect is one purchasable distraction. Duration is a
// contract with the presentation layer: the server records the
// activation and notifies the victim, the client animates the effect
// for Duration and clears it locally.
type SabotageEffect struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	ManaCost int           `json:"manaCost"`
	Duration time.Duration `json:"duration"`
}

// Sabotages is the fixed effect table.
var Sabotages = []SabotageEffect{
	{ID: "fog", Name: "Foggy Screen", ManaCost: 30, Duration: 5 * time.Second},
	{ID: "earthquake", Name: "Screen Shake", ManaCost: 25, Duration: 3 * time.Second},
	{ID: "glitch", Name: "Glitch Effect", ManaCost: 35, Duration: 4 * time.Second},
	{ID: "backspace", Name: "Backspace Lock", ManaCost: 40, Duration: 8 * time.Second},
	{ID: "invisible", Name: "Invisible Cursor", ManaCost: 30, Duration: 6 * time.Second},
	{ID: "slowmo", Name: "Slow Motion", ManaCost: 35, Duration: 7 * time.Second},
	{ID: "flip", Name: "Code Flip", ManaCost: 45, Duration: 5 * time.Second},
	{ID: "scroll", Name: "Random Scroll", ManaCost: 20, Duration: 6 * time.Second},
	{ID: "caps", Name: "Caps Lock", ManaCost: 25, Duration: 10 * time.Second},
}

// SabotageByID looks up an effect in the table.
func SabotageByID(id string) (SabotageEffect, bool) {
	for _, s := range Sabotages {
		if s.ID == id {
			return s, true
		}
	}
	return SabotageEffect{}, false
}
