package botkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
)

func TestParseJSON(t *testing.T) {
	type args struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	parsed, err := ParseJSON[args](`{"name": "Motor1", "url": "https://motor1.example.com/rss"}`)
	require.NoError(t, err)
	assert.Equal(t, "Motor1", parsed.Name)
	assert.Equal(t, "https://motor1.example.com/rss", parsed.URL)

	_, err = ParseJSON[args]("")
	assert.Error(t, err)

	_, err = ParseJSON[args]("name=Motor1")
	assert.Error(t, err)
}

func TestEscapeForMarkdown(t *testing.T) {
	assert.Equal(t, `Hello\! \(v1\.2\) \- \*bold\* \[x\]`, markup.EscapeForMarkdown("Hello! (v1.2) - *bold* [x]"))
	assert.Equal(t, "plain text", markup.EscapeForMarkdown("plain text"))
}

func TestStripMarkdown(t *testing.T) {
	assert.Equal(t, "Published Camry (2024)\nhttps://blog.example.com", markup.StripMarkdown(
		"Published *Camry \\(2024\\)*\nhttps://blog\\.example\\.com",
	))
	assert.Equal(t, "a*b `c` \\ d", markup.StripMarkdown(markup.EscapeForMarkdown("a*b `c` \\ d")))
	assert.Equal(t, "3 Title", markup.StripMarkdown("`3` *Title*"))
}
