package validation

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/folio-dev/folio/shared/domain"
)

// RawContactInput holds the form values exactly as posted. Absent fields are "".
type RawContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	Privacy string
}

// ContactInput holds sanitized values.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	Privacy bool
}

// Value returns the field as the rule table sees it.
func (in ContactInput) Value(field domain.Field) string {
	switch field {
	case domain.FieldName:
		return in.Name
	case domain.FieldEmail:
		return in.Email
	case domain.FieldSubject:
		return in.Subject
	case domain.FieldMessage:
		return in.Message
	case domain.FieldPrivacy:
		if in.Privacy {
			return "1"
		}
	}
	return ""
}

// StripTags removes tags and comments and keeps every text byte exactly as
// typed: entities are not decoded and the content of script or style
// elements stays. Passes repeat until nothing changes, so text left between
// removed tags cannot join into a new tag.
func StripTags(s string) string {
	for {
		out := stripOnce(s)
		if out == s {
			return out
		}
		s = out
	}
}

func stripOnce(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// Sanitize trims every field, strips markup from free text and lower-cases the email.
func Sanitize(raw RawContactInput) ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(StripTags(raw.Name)),
		Email:   strings.TrimSpace(strings.ToLower(raw.Email)),
		Subject: strings.TrimSpace(StripTags(raw.Subject)),
		Message: strings.TrimSpace(StripTags(raw.Message)),
		Privacy: IsChecked(raw.Privacy),
	}
}
