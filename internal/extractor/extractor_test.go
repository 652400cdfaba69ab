package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longParagraph = strings.Repeat("The new hybrid drivetrain delivers more torque. ", 4)

func TestExtractPrefersArticle(t *testing.T) {
	t.Parallel()

	html := `<html><head><title> Hybrid  Review </title><script>var x = 1;</script></head>
	<body>
	  <nav><p>Home | Cars | Reviews</p></nav>
	  <main><p>Main text that should be ignored because article wins.</p></main>
	  <article>
	    <h1>Ignored heading</h1>
	    <p>` + longParagraph + `</p>
	    <p>Second   paragraph
	       with newlines.</p>
	    <iframe src="https://ads.example.com"></iframe>
	  </article>
	  <footer><p>Copyright</p></footer>
	</body></html>`

	result, err := Extract(html, "https://www.cars.example.com/review")
	require.NoError(t, err)

	assert.Equal(t, "Hybrid Review", result.Title)
	assert.Equal(t, strings.TrimSpace(longParagraph)+"\n\nSecond paragraph with newlines.", result.Body)
	assert.NotContains(t, result.Body, "Main text")
	assert.NotContains(t, result.Body, "Copyright")
}

func TestExtractFallsBackToBodyParagraphs(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	  <header><h1>Site name</h1></header>
	  <p>` + longParagraph + `</p>
	  <form><p>Subscribe to our newsletter</p></form>
	</body></html>`

	result, err := Extract(html, "https://cars.example.com/x")
	require.NoError(t, err)

	assert.Equal(t, "Site name", result.Title)
	assert.Equal(t, strings.TrimSpace(longParagraph), result.Body)
}

func TestExtractUsesContainerTextWhenParagraphsAreShort(t *testing.T) {
	t.Parallel()

	html := `<html><body><main>
	  <div>` + longParagraph + `</div>
	  <p>Tiny.</p>
	</main></body></html>`

	result, err := Extract(html, "https://cars.example.com/x")
	require.NoError(t, err)

	assert.Equal(t, strings.TrimSpace(longParagraph)+" Tiny.", result.Body)
}

func TestExtractTitleFallsBackToHostname(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>` + longParagraph + `</p></body></html>`

	result, err := Extract(html, "https://www.motors.example.org/path?q=1")
	require.NoError(t, err)
	assert.Equal(t, "Article from motors.example.org", result.Title)
}

func TestExtractShortContent(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>Short</title></head><body><p>Too short.</p></body></html>`

	result, err := Extract(html, "https://cars.example.com/x")

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, MinContentLength, extractionErr.Threshold)
	assert.Equal(t, len("Too short."), extractionErr.Length)
	assert.Equal(t, "Short", result.Title)
}
