// Package notify sends the best-effort e-mail that follows an accepted submission.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/folio-dev/folio/shared/domain"
)

const (
	defaultPort     = 587
	defaultFromName = "Site Contact"
	fallbackFrom    = "no-reply@example.com"
	defaultTimeout  = 10 * time.Second
)

// ErrDisabled is returned by Send when no SMTP host is configured.
var ErrDisabled = errors.New("notifications disabled")

// Config is the transport configuration. It is copied on construction and never mutated.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	Security      string // "ssl" for implicit TLS, anything else means STARTTLS
	FromEmail     string
	FromName      string
	ToEmail       string
	SubjectPrefix string
	// Timeout bounds dialing and the whole SMTP exchange.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.FromEmail == "" {
		c.FromEmail = c.Username
	}
	if c.FromEmail == "" {
		c.FromEmail = fallbackFrom
	}
	if c.FromName == "" {
		c.FromName = defaultFromName
	}
	if c.ToEmail == "" {
		c.ToEmail = c.FromEmail
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// ImplicitTLS reports whether the connection is TLS from the first byte.
func (c Config) ImplicitTLS() bool {
	return strings.EqualFold(c.Security, "ssl")
}

// TransportError carries a human readable diagnostic of a failed send.
type TransportError struct {
	Diagnostic string
	Err        error
}

func (e *TransportError) Error() string {
	return e.Diagnostic
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transport delivers an already built RFC 5322 message.
type Transport interface {
	Deliver(ctx context.Context, from string, to []string, msg []byte) error
}

type Dispatcher struct {
	cfg       Config
	transport Transport
	now       func() time.Time
}

// New returns a dispatcher that sends through SMTP.
func New(cfg Config) *Dispatcher {
	cfg = cfg.withDefaults()
	return NewWithTransport(cfg, NewSMTPTransport(cfg))
}

// NewWithTransport returns a dispatcher using t to deliver messages.
func NewWithTransport(cfg Config, t Transport) *Dispatcher {
	return &Dispatcher{cfg: cfg.withDefaults(), transport: t, now: time.Now}
}

// Enabled reports whether a host is configured. A disabled dispatcher is a
// normal state, not an error.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.cfg.Host != ""
}

// Send builds the notification for s and hands it to the transport. Every
// failure is returned as *TransportError.
func (d *Dispatcher) Send(ctx context.Context, s domain.Submission) error {
	if !d.Enabled() {
		return ErrDisabled
	}

	msg, err := d.BuildMessage(s)
	if err != nil {
		return &TransportError{Diagnostic: fmt.Sprintf("impossible de construire le message: %v", err), Err: err}
	}

	if err := d.transport.Deliver(ctx, d.cfg.FromEmail, []string{d.cfg.ToEmail}, msg); err != nil {
		return &TransportError{Diagnostic: err.Error(), Err: err}
	}
	return nil
}

var htmlBody = template.Must(template.New("notification").Parse(
	`<p>Nouveau message reçu depuis le formulaire de contact :</p>` +
		`<ul>` +
		`<li><strong>Date:</strong> {{.Date}}</li>` +
		`<li><strong>Nom:</strong> {{.Name}}</li>` +
		`<li><strong>Email:</strong> {{.Email}}</li>` +
		`<li><strong>Objet:</strong> {{.Subject}}</li>` +
		`</ul>` +
		`<h3>Message</h3><p>{{.Message}}</p>`))

type bodyData struct {
	Date    string
	Name    string
	Email   string
	Subject string
	Message template.HTML
}

// nl2br escapes s and inserts a line break tag before every newline.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br />\n"))
}

func (d *Dispatcher) subject(s domain.Submission) string {
	subject := domain.NormalizeSubject(s.Subject)
	if d.cfg.SubjectPrefix == "" {
		return subject
	}
	return d.cfg.SubjectPrefix + " " + subject
}

// PlainBody is the text/plain alternative.
func PlainBody(s domain.Submission) string {
	return fmt.Sprintf("Date: %s\nNom: %s\nEmail: %s\nObjet: %s\n\nMessage:\n%s",
		s.FormattedTimestamp(), s.Name, s.Email, domain.NormalizeSubject(s.Subject), s.Message)
}

// HTMLBody is the text/html alternative.
func HTMLBody(s domain.Submission) (string, error) {
	var buf bytes.Buffer
	err := htmlBody.Execute(&buf, bodyData{
		Date:    s.FormattedTimestamp(),
		Name:    s.Name,
		Email:   s.Email,
		Subject: domain.NormalizeSubject(s.Subject),
		Message: nl2br(s.Message),
	})
	return buf.String(), err
}

func messageID(from string) string {
	domainPart := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domainPart = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domainPart)
}

// BuildMessage renders the full multipart/alternative message with CRLF line endings.
func (d *Dispatcher) BuildMessage(s domain.Submission) ([]byte, error) {
	html, err := HTMLBody(s)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writePart(mw, "text/plain; charset=\"utf-8\"", PlainBody(s)); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=\"utf-8\"", html); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: d.cfg.FromName, Address: d.cfg.FromEmail}
	to := mail.Address{Address: d.cfg.ToEmail}

	var msg bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&msg, "%s: %s\r\n", k, v) }
	header("Message-ID", messageID(d.cfg.FromEmail))
	header("Date", d.now().Format(time.RFC1123Z))
	header("From", from.String())
	header("To", to.String())
	if s.Email != "" {
		replyTo := mail.Address{Name: s.Name, Address: s.Email}
		header("Reply-To", replyTo.String())
	}
	header("Subject", mime.QEncoding.Encode("utf-8", d.subject(s)))
	header("MIME-Version", "1.0")
	header("Content-Type", "multipart/alternative; boundary=\""+mw.Boundary()+"\"")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, content string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(strings.ReplaceAll(content, "\n", "\r\n"))); err != nil {
		return err
	}
	return qp.Close()
}
