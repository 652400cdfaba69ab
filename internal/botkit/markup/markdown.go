package markup

import "strings"

// Спец символы MarkdownV2 телеграма
var replacer = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
	"\\", "\\\\",
)

// EscapeForMarkdown экранирует текст, который вставляется в сообщение с ParseMode MarkdownV2
func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}

// StripMarkdown превращает размеченный MarkdownV2 текст обратно в простой:
// экранированные символы остаются, символы разметки убираются
func StripMarkdown(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	escaped := false
	for _, r := range src {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case strings.ContainsRune("*_~`|", r):
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
