package blog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomakado/containers/set"
)

const fallbackSlug = "post"

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugNonWord = regexp.MustCompile(`[^\w-]+`)
	slugHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify превращает заголовок в часть URL.
// Повторный вызов на результате ничего не меняет
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugNonWord.ReplaceAllString(slug, "")
	slug = slugHyphens.ReplaceAllString(slug, "-")

	if slug == "" || slug == "-" {
		return fallbackSlug
	}

	return slug
}

// Первый свободный вариант: base, base-1, base-2...
func uniqueSlug(base string, existing []string) string {
	taken := set.New(existing...)

	if !taken.Contains(base) {
		return base
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken.Contains(candidate) {
			return candidate
		}
	}
}
