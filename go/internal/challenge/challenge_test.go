package challenge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/codeduel/go/internal/challenge"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		def      *challenge.CustomDefinition
		validate func(t *testing.T, ch *challenge.Challenge)
	}{
		{
			name: "defaults fill missing fields",
			def: &challenge.CustomDefinition{
				Title:       "Sum Digits",
				Description: "Sum the digits of n.",
			},
			validate: func(t *testing.T, ch *challenge.Challenge) {
				assert.Equal(t, "Medium", ch.Difficulty)
				assert.Equal(t, 300, ch.TimeLimit)
				assert.Empty(t, ch.TestCases)
			},
		},
		{
			name: "examples become test cases verbatim",
			def: &challenge.CustomDefinition{
				Title:       "Echo",
				Description: "Print the input.",
				Difficulty:  "Easy",
				TimeLimit:   120,
				Examples: []challenge.Example{
					{Input: "5", Output: "5", Explanation: "identity"},
					{Input: "hello", Output: "hello"},
				},
			},
			validate: func(t *testing.T, ch *challenge.Challenge) {
				assert.Equal(t, "Easy", ch.Difficulty)
				assert.Equal(t, 120, ch.TimeLimit)
				require.Len(t, ch.TestCases, 2)
				assert.Equal(t, challenge.TestCase{Input: "5", ExpectedOutput: "5"}, ch.TestCases[0])
				assert.Equal(t, challenge.TestCase{Input: "hello", ExpectedOutput: "hello"}, ch.TestCases[1])
			},
		},
		{
			name: "negative time limit replaced",
			def: &challenge.CustomDefinition{
				Title:       "Echo",
				Description: "Print the input.",
				TimeLimit:   -5,
			},
			validate: func(t *testing.T, ch *challenge.Challenge) {
				assert.Equal(t, 300, ch.TimeLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := challenge.Normalize(tt.def)
			require.NotNil(t, ch)
			assert.Regexp(t, `^custom-[0-9a-f-]{36}$`, ch.ID)
			assert.Equal(t, tt.def.Title, ch.Title)

			// Every supported language gets a starter.
			for _, lang := range challenge.SupportedLanguages {
				assert.NotEmpty(t, ch.StarterCode[lang])
			}
			tt.validate(t, ch)
		})
	}
}

func TestCustomDefinitionUsable(t *testing.T) {
	var nilDef *challenge.CustomDefinition
	assert.False(t, nilDef.Usable())
	assert.False(t, (&challenge.CustomDefinition{Title: "x"}).Usable())
	assert.False(t, (&challenge.CustomDefinition{Description: "y"}).Usable())
	assert.True(t, (&challenge.CustomDefinition{Title: "x", Description: "y"}).Usable())
}

func TestStarterFor(t *testing.T) {
	ch := &challenge.Challenge{
		StarterCode: map[string]string{
			"javascript": "function solve() {}",
			"python":     "",
		},
	}

	assert.Equal(t, "function solve() {}", ch.StarterFor("javascript"))

	// Missing or empty entries fall back to the placeholder.
	assert.Contains(t, ch.StarterFor("python"), "Starter code not available for python")
	assert.Contains(t, ch.StarterFor("rust"), "Starter code not available for rust")
}

func TestIsSupported(t *testing.T) {
	for _, lang := range challenge.SupportedLanguages {
		assert.True(t, challenge.IsSupported(lang))
	}
	assert.False(t, challenge.IsSupported("brainfuck"))
	assert.False(t, challenge.IsSupported("JavaScript"), "lookup is case sensitive")
	assert.False(t, challenge.IsSupported(""))
}

func TestCatalog(t *testing.T) {
	catalog := challenge.NewCatalog()

	all := catalog.All()
	require.NotEmpty(t, all)

	known := make(map[string]bool)
	for _, public := range all {
		known[public.ID] = true
		full := catalog.ByID(public.ID)
		require.NotNil(t, full)
		assert.Equal(t, public.Title, full.Title)
		assert.NotEmpty(t, full.TestCases)
		assert.Greater(t, full.TimeLimit, 0)
	}

	assert.Nil(t, catalog.ByID("no-such-challenge"))

	for i := 0; i < 20; i++ {
		assert.True(t, known[catalog.Random().ID])
	}
}

func TestPublicWithholdsAnswers(t *testing.T) {
	catalog := challenge.NewCatalog()
	full := catalog.ByID("two-sum")
	require.NotNil(t, full)

	public := full.Public()
	assert.Equal(t, full.ID, public.ID)
	assert.Equal(t, full.Description, public.Description)
	assert.Equal(t, full.Examples, public.Examples)
	assert.Equal(t, full.Constraints, public.Constraints)
}
