package service

import (
	"context"
	stderrors "errors"
	"html"
	"net/http"
	"time"

	"github.com/folio-dev/folio/backend/internal/notify"
	"github.com/folio-dev/folio/shared/domain"
	"github.com/folio-dev/folio/shared/errors"
	"github.com/folio-dev/folio/shared/logger"
	"github.com/folio-dev/folio/shared/middleware/metrics"
	"github.com/folio-dev/folio/shared/validation"
)

// StoreFailureMessage is the only text a client sees when the log cannot be written.
const StoreFailureMessage = "Impossible d'enregistrer votre message. Veuillez réessayer plus tard."

// to mock service in tests
type ContactService interface {
	Submit(ctx context.Context, raw validation.RawContactInput) (ContactResult, error)
}

type SubmissionStore interface {
	Append(ctx context.Context, s domain.Submission) error
}

type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, s domain.Submission) error
}

// ContactResult describes an accepted submission.
type ContactResult struct {
	Submission domain.Submission
	Notified   bool
	Message    string
}

type Contact struct {
	store    SubmissionStore
	notifier Notifier
	now      func() time.Time
}

// NewContact wires the pipeline. notifier may be nil (notifications disabled)
// and now defaults to time.Now.
func NewContact(store SubmissionStore, notifier Notifier, now func() time.Time) *Contact {
	if now == nil {
		now = time.Now
	}
	return &Contact{store: store, notifier: notifier, now: now}
}

// Submit sanitizes and validates raw, persists the submission and then tries
// to notify. A validation failure is a 400 error, a storage failure a 500 error;
// a notification failure only changes the success text.
func (c *Contact) Submit(ctx context.Context, raw validation.RawContactInput) (ContactResult, error) {
	log := logger.Component("contact")

	in := validation.Sanitize(raw)
	if result := validation.Validate(in); !result.Accepted() {
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeRejected).Inc()
		log.Debug("submission rejected", "violations", len(result.Messages))
		return ContactResult{}, errors.Validation(result.Joined())
	}

	sub := domain.Submission{
		Timestamp:       c.now(),
		Name:            in.Name,
		Email:           in.Email,
		Subject:         domain.NormalizeSubject(in.Subject),
		Message:         in.Message,
		PrivacyAccepted: in.Privacy,
	}

	if err := c.store.Append(ctx, sub); err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeStoreError).Inc()
		log.Error("failed to store submission", "error", err)
		return ContactResult{}, &errors.ErrorWithStatusCode{Message: StoreFailureMessage, StatusCode: http.StatusInternalServerError}
	}
	metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeAccepted).Inc()

	// The record is durable; a client hanging up must not abort the e-mail.
	notified, diagnostic := c.notify(context.WithoutCancel(ctx), sub)

	return ContactResult{
		Submission: sub,
		Notified:   notified,
		Message:    SuccessMessage(sub.Name, notified, diagnostic),
	}, nil
}

func (c *Contact) notify(ctx context.Context, sub domain.Submission) (bool, string) {
	if c.notifier == nil || !c.notifier.Enabled() {
		metrics.Notifications.WithLabelValues(metrics.NotificationDisabled).Inc()
		return false, ""
	}

	err := c.notifier.Send(ctx, sub)
	if err == nil {
		metrics.Notifications.WithLabelValues(metrics.NotificationSent).Inc()
		return true, ""
	}

	metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
	logger.Component("contact").Warn("notification not sent", "error", err)

	var terr *notify.TransportError
	if stderrors.As(err, &terr) {
		return false, terr.Diagnostic
	}
	if stderrors.Is(err, notify.ErrDisabled) {
		return false, ""
	}
	return false, err.Error()
}

// SuccessMessage renders the 200 response text. name is HTML-escaped.
func SuccessMessage(name string, notified bool, diagnostic string) string {
	msg := "Merci " + html.EscapeString(name) + " ! Votre message a été enregistré avec succès."
	switch {
	case notified:
		return msg + " Un e‑mail de notification a été envoyé."
	case diagnostic != "":
		return msg + " (Notification e‑mail non envoyée: " + diagnostic + ")"
	default:
		return msg + " (Notification e‑mail non envoyée.)"
	}
}
