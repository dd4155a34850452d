package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the on-disk format of Submission.Timestamp (server local time).
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultSubject replaces an empty subject before storage.
const DefaultSubject = "Sans objet"

type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
	FieldPrivacy Field = "privacy"
)

// Fields lists the form fields in validation and reporting order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage, FieldPrivacy}

// Submission is one accepted contact form entry.
type Submission struct {
	Timestamp       time.Time
	Name            string
	Email           string
	Subject         string
	Message         string
	PrivacyAccepted bool
}

// FormattedTimestamp returns the timestamp as written to the log.
func (s Submission) FormattedTimestamp() string {
	return s.Timestamp.Format(TimestampLayout)
}

// NormalizeSubject applies the storage rules for subjects: fallback when empty,
// CR and LF replaced by spaces.
func NormalizeSubject(subject string) string {
	if subject == "" {
		subject = DefaultSubject
	}
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(subject)
}

// ValidationResult is Accepted when Messages is empty.
type ValidationResult struct {
	Messages []string
}

func (v ValidationResult) Accepted() bool {
	return len(v.Messages) == 0
}

// Joined returns the violations as one space separated sentence list.
func (v ValidationResult) Joined() string {
	return strings.Join(v.Messages, " ")
}
