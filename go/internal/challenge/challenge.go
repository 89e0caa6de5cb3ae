package challenge

import (
	"github.com/google/uuid"
)

// Example is a worked example shown to players alongside the problem
// statement. Explanation is optional.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// TestCase is a single stdin/stdout check used to judge a submission.
// Test cases are never sent to clients.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// Challenge is the canonical challenge record a room owns. It is
// immutable once attached to a room.
type Challenge struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Difficulty  string            `json:"difficulty"`
	TimeLimit   int               `json:"timeLimit"` // seconds
	Examples    []Example         `json:"examples"`
	Constraints []string          `json:"constraints"`
	StarterCode map[string]string `json:"starterCode"`
	TestCases   []TestCase        `json:"testCases"`
}

// Public returns the view of the challenge that is safe to send to
// clients in room listings: test cases and starter code are withheld.
type Public struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Difficulty  string    `json:"difficulty"`
	Description string    `json:"description"`
	Examples    []Example `json:"examples"`
	Constraints []string  `json:"constraints"`
	TimeLimit   int       `json:"timeLimit"`
}

func (c *Challenge) Public() Public {
	return Public{
		ID:          c.ID,
		Title:       c.Title,
		Difficulty:  c.Difficulty,
		Description: c.Description,
		Examples:    c.Examples,
		Constraints: c.Constraints,
		TimeLimit:   c.TimeLimit,
	}
}

// StarterFor returns the starter source for a language, falling back
// to a placeholder comment when the challenge has none for it.
func (c *Challenge) StarterFor(language string) string {
	if code, ok := c.StarterCode[language]; ok && code != "" {
		return code
	}
	return "// Starter code not available for " + language + "\n// Try switching to JavaScript or Python\n"
}

// CustomDefinition is a caller-supplied challenge used instead of a
// catalog entry. Test cases are derived one-to-one from the examples.
type CustomDefinition struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	TimeLimit   int       `json:"timeLimit"`
	Examples    []Example `json:"examples"`
	Constraints []string  `json:"constraints"`
}

// Usable reports whether the custom definition carries enough content
// to build a challenge from. Anything less falls back to the catalog.
func (d *CustomDefinition) Usable() bool {
	return d != nil && d.Title != "" && d.Description != ""
}

const (
	defaultDifficulty = "Medium"
	defaultTimeLimit  = 300
)

// placeholderStarters returns generic starter text for every supported
// submission language. Custom challenges have no language-specific
// harness, so every language gets the same placeholder.
func placeholderStarters() map[string]string {
	starters := make(map[string]string, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		switch lang {
		case "python":
			starters[lang] = "# Write your solution here\n"
		default:
			starters[lang] = "// Write your solution here\n"
		}
	}
	return starters
}

// Normalize turns a custom definition into a canonical Challenge.
// The caller must have checked Usable first.
func Normalize(def *CustomDefinition) *Challenge {
	difficulty := def.Difficulty
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	timeLimit := def.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimit
	}

	tests := make([]TestCase, 0, len(def.Examples))
	for _, ex := range def.Examples {
		tests = append(tests, TestCase{
			Input:          ex.Input,
			ExpectedOutput: ex.Output,
		})
	}

	return &Challenge{
		ID:          "custom-" + uuid.NewString(),
		Title:       def.Title,
		Description: def.Description,
		Difficulty:  difficulty,
		TimeLimit:   timeLimit,
		Examples:    def.Examples,
		Constraints: def.Constraints,
		StarterCode: placeholderStarters(),
		TestCases:   tests,
	}
}
