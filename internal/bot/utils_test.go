package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	got := formatMessage(`
		Hello %s!

		Line two.
	`, "world")
	assert.Equal(t, "Hello world!\n\nLine two.", got)
}

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("/camera watching the door")
	assert.Equal(t, "/camera", cmd)
	assert.Equal(t, []string{"watching", "the", "door"}, args)

	cmd, args = parseCommand("/history")
	assert.Equal(t, "/history", cmd)
	assert.Empty(t, args)
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `play\_bow \*alert\* \[sic]`, escapeMarkdown("play_bow *alert* [sic]"))
	assert.Equal(t, "plain text", escapeMarkdown("plain text"))
}
