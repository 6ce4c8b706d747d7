package filter

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// emailPattern captures local part, domain label and top-level domain.
var emailPattern = regexp.MustCompile(`([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+)\.([a-zA-Z]{2,})`)

// EmailRedactor masks email addresses in a payload. Every character of the
// local part, the domain label and the top-level domain becomes '*'; the
// '@' and the final '.' are kept, so per-group character counts survive.
type EmailRedactor struct {
	pattern *regexp.Regexp
}

func NewEmailRedactor() *EmailRedactor {
	return &EmailRedactor{pattern: emailPattern}
}

func (f *EmailRedactor) Name() string { return "email_redactor" }

// Transform decodes data as UTF-8, replacing invalid sequences with
// U+FFFD, and masks every match. When the text changed the re-encoded
// text is returned; otherwise the payload is left alone byte for byte.
func (f *EmailRedactor) Transform(_ context.Context, data []byte) ([]byte, bool) {
	text := decodeLossy(data)
	masked := f.mask(text)
	if masked == text {
		return nil, false
	}
	return []byte(masked), true
}

func (f *EmailRedactor) mask(text string) string {
	matches := f.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		writeStars(&sb, text[m[2]:m[3]])
		sb.WriteByte('@')
		writeStars(&sb, text[m[4]:m[5]])
		sb.WriteByte('.')
		writeStars(&sb, text[m[6]:m[7]])
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// writeStars writes one '*' per character of s.
func writeStars(sb *strings.Builder, s string) {
	for range utf8.RuneCountInString(s) {
		sb.WriteByte('*')
	}
}

// decodeLossy interprets data as UTF-8 text. It never fails.
func decodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	return string(out)
}
