// Package sanitizer produces the cleaned copy of a submission that the channels receive.
package sanitizer

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/samims/contactrelay/internal/model"
)

// Sanitizer returns a cleaned copy; the input is never modified.
type Sanitizer interface {
	Sanitize(s model.Submission) model.Submission
}

type policySanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer that strips all markup.
func New() Sanitizer {
	return &policySanitizer{policy: bluemonday.StrictPolicy()}
}

func (p *policySanitizer) Sanitize(s model.Submission) model.Submission {
	return model.Submission{
		Name:    p.line(s.Name),
		Email:   strings.ToLower(p.line(s.Email)),
		Message: p.text(s.Message),
		Company: p.line(s.Company),
		Phone:   p.line(s.Phone),
		Service: p.line(s.Service),
	}
}

// line cleans a single-line field: no control characters at all.
func (p *policySanitizer) line(v string) string {
	v = p.strip(v)
	v = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, v)
	return strings.Join(strings.Fields(v), " ")
}

// text cleans a multi-line field, keeping line breaks and tabs.
func (p *policySanitizer) text(v string) string {
	v = strings.ReplaceAll(p.strip(v), "\r\n", "\n")
	v = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

// quotes and ampersands come back; angle brackets stay escaped so no markup survives
var unescaper = strings.NewReplacer("&#39;", "'", "&#34;", `"`, "&quot;", `"`, "&amp;", "&")

func (p *policySanitizer) strip(v string) string {
	return unescaper.Replace(p.policy.Sanitize(v))
}
