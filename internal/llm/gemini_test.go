package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   bool
	}{
		{
			name:  "plain json",
			input: `{"behavior": "Napping"}`,
			want:  `{"behavior": "Napping"}`,
		},
		{
			name:  "markdown wrapped",
			input: "```json\n{\"behavior\": \"Napping\"}\n```",
			want:  `{"behavior": "Napping"}`,
		},
		{
			name:  "surrounding prose",
			input: `Here you go: {"behavior": "Napping"} hope that helps`,
			want:  `{"behavior": "Napping"}`,
		},
		{
			name:  "no object",
			input: "I can't help with that",
			err:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInterpretation(t *testing.T) {
	interp, err := parseInterpretation(`{"behavior": "Comfort Seeking", "explanation": "He wants to be close to you.", "tip": "Make room on the couch."}`)
	require.NoError(t, err)
	assert.Equal(t, "Comfort Seeking", interp.Behavior)
	assert.Equal(t, "He wants to be close to you.", interp.Explanation)
	assert.Equal(t, "Make room on the couch.", interp.Tip)
}

func TestParseInterpretationRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing tip", `{"behavior": "Napping", "explanation": "Asleep."}`},
		{"missing behavior", `{"explanation": "Asleep.", "tip": "Let him rest."}`},
		{"empty field", `{"behavior": "", "explanation": "Asleep.", "tip": "Let him rest."}`},
		{"whitespace field", `{"behavior": "Napping", "explanation": "   ", "tip": "Let him rest."}`},
		{"wrong types", `{"behavior": 1, "explanation": 2, "tip": 3}`},
		{"not json", `behavior: Napping`},
		{"empty response", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInterpretation(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	got := buildAnalysisPrompt(media.KindImage, "he keeps doing this at night")
	assert.Equal(t, `Analyze the bulldog's behavior in this image. Additional context from the owner: "he keeps doing this at night".`, got)

	got = buildAnalysisPrompt(media.KindAudio, "")
	assert.Equal(t, `Analyze the bulldog's behavior in this audio clip. Additional context from the owner: "None".`, got)

	got = buildAnalysisPrompt(media.KindVideo, "   ")
	assert.Contains(t, got, `"None"`)
}
