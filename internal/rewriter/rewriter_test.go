package rewriter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейковый генератор: отвечает по тому, какой шаблон пришел
type fakeGenerator struct {
	responses map[string]string
	failures  map[string]error
	prompts   map[string]Prompt
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		responses: map[string]string{
			StepTitle:           "Optimized Title",
			StepBody:            "Rewritten body [see also: EV charging]",
			StepKeywords:        `["hybrid", "SUV", "fuel economy"]`,
			StepMetaDescription: "A short meta description.",
		},
		failures: map[string]error{},
		prompts:  map[string]Prompt{},
	}
}

func stepOf(p Prompt) string {
	switch {
	case strings.HasPrefix(p.User, "Rewrite the following article title"):
		return StepTitle
	case strings.HasPrefix(p.User, "Rewrite the article below"):
		return StepBody
	case strings.HasPrefix(p.User, "Extract between 3 and 5"):
		return StepKeywords
	default:
		return StepMetaDescription
	}
}

func (f *fakeGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	step := stepOf(p)
	f.prompts[step] = p
	if err := f.failures[step]; err != nil {
		return "", err
	}
	return f.responses[step], nil
}

var input = Input{
	Title:    "Original title",
	Body:     "Original body about a hybrid SUV.",
	Category: "Reviews",
}

func TestProcessBlogPost(t *testing.T) {
	gen := newFakeGenerator()

	article, err := New(gen).ProcessBlogPost(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "Optimized Title", article.Title)
	assert.Equal(t, "Rewritten body [see also: EV charging]", article.Body)
	assert.Equal(t, []string{"hybrid", "SUV", "fuel economy"}, article.SEOKeywords)
	assert.Equal(t, "A short meta description.", article.MetaDescription)
	assert.Empty(t, article.Error)

	assert.Contains(t, gen.prompts[StepTitle].User, "Original title")
	assert.Contains(t, gen.prompts[StepTitle].User, `"Reviews"`)
	assert.Contains(t, gen.prompts[StepBody].User, `"Optimized Title"`)
	assert.Contains(t, gen.prompts[StepBody].User, "[see also: TOPIC]")
	assert.Contains(t, gen.prompts[StepKeywords].User, "Rewritten body")
	assert.Contains(t, gen.prompts[StepMetaDescription].User, `"Optimized Title"`)
	assert.NotEmpty(t, gen.prompts[StepBody].System)
}

func TestProcessBlogPostBodyFallsBackToOriginal(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[StepBody] = ""

	article, err := New(gen).ProcessBlogPost(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "Optimized Title", article.Title)
	assert.Equal(t, input.Body, article.Body)
	assert.Equal(t, "A short meta description.", article.MetaDescription)
	assert.Len(t, article.SEOKeywords, 3)
	// ключевые слова извлекаются уже из исходного текста
	assert.Contains(t, gen.prompts[StepKeywords].User, input.Body)
}

func TestProcessBlogPostTitleFailureIsHard(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[StepTitle] = "   "

	_, err := New(gen).ProcessBlogPost(context.Background(), input)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, StepTitle, genErr.Step)
	assert.NotContains(t, gen.prompts, StepBody)
}

func TestProcessBlogPostTitleBackendError(t *testing.T) {
	gen := newFakeGenerator()
	backendErr := errors.New("rate limited")
	gen.failures[StepTitle] = backendErr

	_, err := New(gen).ProcessBlogPost(context.Background(), input)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.ErrorIs(t, err, backendErr)
}

func TestProcessBlogPostSoftFailures(t *testing.T) {
	gen := newFakeGenerator()
	gen.failures[StepKeywords] = errors.New("boom")
	gen.responses[StepMetaDescription] = ""

	article, err := New(gen).ProcessBlogPost(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "Rewritten body [see also: EV charging]", article.Body)
	assert.NotNil(t, article.SEOKeywords)
	assert.Empty(t, article.SEOKeywords)
	assert.Empty(t, article.MetaDescription)
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		"Plain":                      "Plain",
		`"Quoted Title"`:             "Quoted Title",
		"## Heading Title\nextra":    "Heading Title",
		"Title: **Bold one**":        "Bold one",
		"  «Guillemets»  ":           "Guillemets",
	}
	for raw, want := range cases {
		assert.Equal(t, want, cleanTitle(raw), raw)
	}
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, parseKeywords(`["a", "b", "c"]`))
	assert.Equal(t, []string{"a", "b"}, parseKeywords("```json\n[\"a\", \"b\"]\n```"))
	assert.Equal(t, []string{"hybrid", "SUV", "2024 Camry"}, parseKeywords("1. hybrid\n2. SUV\n- 2024 Camry"))
	assert.Equal(t, []string{"EV", "range"}, parseKeywords("EV, range, ev"))
	assert.Len(t, parseKeywords("a,b,c,d,e,f,g"), maxKeywords)
}

func TestCleanMetaDescription(t *testing.T) {
	assert.Equal(t, "Short and sweet.", cleanMetaDescription(`"Short   and sweet."`))

	long := cleanMetaDescription(strings.Repeat("word ", 60))
	assert.LessOrEqual(t, len([]rune(long)), maxMetaDescription)
	assert.True(t, strings.HasSuffix(long, "..."))
}
