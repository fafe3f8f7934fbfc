package telegram

import "strings"

const markdownSpecial = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdown backslash-escapes every character MarkdownV2 treats as
// markup, so arbitrary addresses and amounts can be embedded in replies.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
