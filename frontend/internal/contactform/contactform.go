// Package contactform drives the contact form: optimistic validation, one
// submission at a time and rendering of the outcome through a View.
package contactform

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"unicode/utf8"

	"github.com/folio-dev/folio/shared/api"
	"github.com/folio-dev/folio/shared/domain"
	"github.com/folio-dev/folio/shared/logger"
	"github.com/folio-dev/folio/shared/validation"
)

// User-facing texts.
const (
	BusyLabel          = "Envoi en cours..."
	NetworkErrorNotice = "Erreur réseau. Veuillez vérifier votre connexion et réessayer."
	FailureFallback    = "Erreur lors de l'envoi."
	SuccessFallback    = "Message envoyé avec succès. Merci !"
)

// ErrSubmitInFlight is returned when Submit is called before the previous one finished.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

type State int

const (
	Idle State = iota
	Validating
	Invalid
	Submitting
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Invalid:
		return "invalid"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// View is the rendering surface of the form.
type View interface {
	// SetFieldError writes msg in the field's error slot; "" clears it.
	SetFieldError(field domain.Field, msg string)
	ClearErrors()
	SetCounter(n int)
	SetSubmitEnabled(enabled bool)
	SetSubmitLabel(label string)
	ShowNotice(kind NoticeKind, msg string)
	ResetForm()
	ScrollToNotice()
}

// Submitter posts the form to the contact endpoint. A non-2xx answer must be an error.
type Submitter interface {
	SubmitContact(ctx context.Context, form url.Values) (api.ContactResponse, error)
}

// Form holds the raw field values as typed.
type Form struct {
	Name    string
	Email   string
	Subject string
	Message string
	Privacy bool
}

func (f Form) input() validation.ContactInput {
	return validation.ContactInput{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
		Privacy: f.Privacy,
	}
}

// Values encodes the form the way a browser posts it: an unchecked box is absent.
func (f Form) Values() url.Values {
	v := url.Values{
		api.FormName:    {f.Name},
		api.FormEmail:   {f.Email},
		api.FormSubject: {f.Subject},
		api.FormMessage: {f.Message},
	}
	if f.Privacy {
		v.Set(api.FormPrivacy, "1")
	}
	return v
}

type Controller struct {
	view        View
	submitter   Submitter
	submitLabel string

	mu       sync.Mutex
	state    State
	inFlight bool
}

// New returns an idle controller. submitLabel is restored after every submission.
func New(view View, submitter Submitter, submitLabel string) *Controller {
	return &Controller{view: view, submitter: submitter, submitLabel: submitLabel}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// OnInput mirrors the message length, in characters, into the counter.
func (c *Controller) OnInput(message string) {
	c.view.SetCounter(utf8.RuneCountInString(message))
}

// OnBlur checks one field with the short blur messages.
func (c *Controller) OnBlur(field domain.Field, value string) {
	if _, ok := validation.RuleFor(field); !ok {
		return
	}
	if field == domain.FieldPrivacy {
		return
	}
	c.view.SetFieldError(field, validation.CheckField(validation.ClientBlur, field, value))
}

// Submit validates form and, when valid, posts it. It returns the state the
// attempt ended in; the controller is Idle again once Submit returns.
func (c *Controller) Submit(ctx context.Context, form Form) (State, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Submitting, ErrSubmitInFlight
	}
	c.inFlight = true
	c.state = Validating
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.state = Idle
		c.mu.Unlock()
	}()

	c.view.ClearErrors()
	if errs := validation.ValidateForm(validation.ClientSubmit, form.input()); len(errs) > 0 {
		for _, field := range domain.Fields {
			if msg, ok := errs[field]; ok {
				c.view.SetFieldError(field, msg)
			}
		}
		c.setState(Invalid)
		return Invalid, nil
	}

	c.setState(Submitting)
	c.view.SetSubmitEnabled(false)
	c.view.SetSubmitLabel(BusyLabel)
	defer func() {
		c.view.SetSubmitEnabled(true)
		c.view.SetSubmitLabel(c.submitLabel)
	}()

	resp, err := c.submitter.SubmitContact(ctx, form.Values())
	if err != nil {
		logger.Component("contactform").Warn("contact submission failed", "error", err)
		c.view.ShowNotice(NoticeError, NetworkErrorNotice)
		return Error, nil
	}

	if !resp.Success {
		c.view.ShowNotice(NoticeError, orDefault(resp.Message, FailureFallback))
		return Error, nil
	}

	c.view.ShowNotice(NoticeSuccess, orDefault(resp.Message, SuccessFallback))
	c.view.ResetForm()
	c.view.SetCounter(0)
	c.view.ScrollToNotice()
	return Success, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
