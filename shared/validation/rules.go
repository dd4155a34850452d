package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/folio-dev/folio/shared/domain"
)

// Surface selects which message set a rule reports with. The bounds are the
// same everywhere; only the wording differs.
type Surface int

const (
	// Server is authoritative and aggregates every failing field.
	Server Surface = iota
	// ClientSubmit runs over the whole form before posting.
	ClientSubmit
	// ClientBlur runs on a single field when it loses focus.
	ClientBlur
)

type Messages struct {
	Required string
	TooShort string
	TooLong  string
	Invalid  string
}

type Rule struct {
	Field domain.Field
	Min   int
	Max   int
	// Pattern is checked on every surface.
	Pattern *regexp.Regexp
	// StrictEmail adds the mail address grammar check on the Server surface.
	StrictEmail bool
	// Checkbox rules only test presence.
	Checkbox bool
	// A surface without messages does not check the field.
	Messages map[Surface]Messages
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = validator.New()

// ContactRules is the single rule table shared by the endpoint and the form controller.
var ContactRules = []Rule{
	{
		Field: domain.FieldName,
		Min:   2,
		Max:   100,
		Messages: map[Surface]Messages{
			Server: {
				Required: "Le nom est requis.",
				TooShort: "Le nom doit contenir au moins 2 caractères.",
				TooLong:  "Le nom ne doit pas dépasser 100 caractères.",
			},
			ClientSubmit: {
				Required: "Le nom est requis.",
				TooShort: "Le nom est trop court.",
				TooLong:  "Le nom est trop long.",
			},
			ClientBlur: {
				Required: "Le nom est requis.",
				TooShort: "Au moins 2 caractères.",
				TooLong:  "Au plus 100 caractères.",
			},
		},
	},
	{
		Field:       domain.FieldEmail,
		Max:         100,
		Pattern:     emailPattern,
		StrictEmail: true,
		Messages: map[Surface]Messages{
			Server: {
				Required: "L'email est requis.",
				Invalid:  "Adresse e-mail invalide.",
				TooLong:  "L'email est trop long.",
			},
			ClientSubmit: {
				Required: "L'email est requis.",
				Invalid:  "Email invalide.",
				TooLong:  "L'email est trop long.",
			},
			ClientBlur: {
				Required: "L'email est requis.",
				Invalid:  "Email invalide.",
				TooLong:  "L'email est trop long.",
			},
		},
	},
	{
		Field: domain.FieldSubject,
		Min:   3,
		Max:   150,
		Messages: map[Surface]Messages{
			Server: {
				Required: "L'objet est requis.",
				TooShort: "L'objet est trop court.",
				TooLong:  "L'objet est trop long.",
			},
			ClientSubmit: {
				Required: "L'objet est requis.",
				TooShort: "L'objet est trop court.",
				TooLong:  "L'objet est trop long.",
			},
			ClientBlur: {
				Required: "L'objet est requis.",
				TooShort: "Au moins 3 caractères.",
				TooLong:  "Au plus 150 caractères.",
			},
		},
	},
	{
		Field: domain.FieldMessage,
		Min:   10,
		Max:   2000,
		Messages: map[Surface]Messages{
			Server: {
				Required: "Le message est requis.",
				TooShort: "Le message doit contenir au moins 10 caractères.",
				TooLong:  "Le message ne doit pas dépasser 2000 caractères.",
			},
			ClientSubmit: {
				Required: "Le message est requis.",
				TooShort: "Le message doit contenir au moins 10 caractères.",
				TooLong:  "Le message est trop long.",
			},
			ClientBlur: {
				Required: "Le message est requis.",
				TooShort: "Au moins 10 caractères.",
				TooLong:  "Au plus 2000 caractères.",
			},
		},
	},
	{
		Field:    domain.FieldPrivacy,
		Checkbox: true,
		Messages: map[Surface]Messages{
			Server:       {Required: "Vous devez accepter le traitement de vos données."},
			ClientSubmit: {Required: "Vous devez accepter le traitement de vos données."},
		},
	},
}

// RuleFor returns the rule of field.
func RuleFor(field domain.Field) (Rule, bool) {
	for _, r := range ContactRules {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

// IsChecked reports whether a posted checkbox value counts as checked.
func IsChecked(value string) bool {
	return value != "" && value != "0"
}

// Check returns the first failing message of the rule for value, or "" when
// the value passes or the surface does not check this field.
func (r Rule) Check(surface Surface, value string) string {
	msgs, ok := r.Messages[surface]
	if !ok {
		return ""
	}
	if r.Checkbox {
		if !IsChecked(value) {
			return msgs.Required
		}
		return ""
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return msgs.Required
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return msgs.Invalid
	}
	if r.StrictEmail && surface == Server && validate.Var(value, "email") != nil {
		return msgs.Invalid
	}

	length := utf8.RuneCountInString(value)
	if r.Min > 0 && length < r.Min {
		return msgs.TooShort
	}
	if r.Max > 0 && length > r.Max {
		return msgs.TooLong
	}
	return ""
}

// CheckField runs the rule of a single field.
func CheckField(surface Surface, field domain.Field, value string) string {
	rule, ok := RuleFor(field)
	if !ok {
		return ""
	}
	return rule.Check(surface, value)
}

// ValidateForm returns at most one message per failing field.
func ValidateForm(surface Surface, in ContactInput) map[domain.Field]string {
	errs := make(map[domain.Field]string)
	for _, rule := range ContactRules {
		if msg := rule.Check(surface, in.Value(rule.Field)); msg != "" {
			errs[rule.Field] = msg
		}
	}
	return errs
}

// Validate is the authoritative server check. Every field is evaluated and the
// violations are kept in field order.
func Validate(in ContactInput) domain.ValidationResult {
	var result domain.ValidationResult
	for _, rule := range ContactRules {
		if msg := rule.Check(Server, in.Value(rule.Field)); msg != "" {
			result.Messages = append(result.Messages, msg)
		}
	}
	return result
}
