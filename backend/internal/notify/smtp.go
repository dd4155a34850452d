package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/folio-dev/folio/shared/logger"
)

// SMTPTransport delivers messages to a single SMTP relay with PLAIN auth.
type SMTPTransport struct {
	cfg  Config
	auth smtp.Auth
}

func NewSMTPTransport(cfg Config) *SMTPTransport {
	cfg = cfg.withDefaults()
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPTransport{cfg: cfg, auth: auth}
}

func (t *SMTPTransport) address() string {
	return net.JoinHostPort(t.cfg.Host, fmt.Sprint(t.cfg.Port))
}

func (t *SMTPTransport) Deliver(ctx context.Context, from string, to []string, msg []byte) error {
	log := logger.Component("notify")
	address := t.address()

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	dialer := &net.Dialer{Timeout: t.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return fmt.Errorf("connexion SMTP impossible: %w", err)
	}
	defer conn.Close()

	// The whole exchange shares the dial deadline.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	tlsConfig := &tls.Config{ServerName: t.cfg.Host}
	if t.cfg.ImplicitTLS() {
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			log.Error("TLS handshake failed", "address", address, "error", err)
			return fmt.Errorf("négociation TLS échouée: %w", err)
		}
		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		log.Error("failed to create SMTP client", "error", err)
		return fmt.Errorf("client SMTP: %w", err)
	}
	defer client.Close()

	if !t.cfg.ImplicitTLS() {
		if err := client.StartTLS(tlsConfig); err != nil {
			log.Error("failed to start TLS", "error", err)
			return fmt.Errorf("STARTTLS échoué: %w", err)
		}
	}

	return t.send(client, from, to, msg)
}

func (t *SMTPTransport) send(client *smtp.Client, from string, to []string, msg []byte) error {
	log := logger.Component("notify")

	if t.auth != nil {
		if err := client.Auth(t.auth); err != nil {
			log.Error("SMTP authentication failed", "error", err)
			return fmt.Errorf("authentification SMTP échouée: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		log.Error("failed to set sender", "error", err)
		return fmt.Errorf("expéditeur refusé: %w", err)
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			log.Error("failed to set recipient", "recipient", rcpt, "error", err)
			return fmt.Errorf("destinataire refusé: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		log.Error("failed to get data writer", "error", err)
		return fmt.Errorf("commande DATA refusée: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		log.Error("failed to write message", "error", err)
		return fmt.Errorf("écriture du message échouée: %w", err)
	}

	if err = w.Close(); err != nil {
		log.Error("failed to close data writer", "error", err)
		return fmt.Errorf("message refusé: %w", err)
	}

	log.Debug("notification delivered", "address", t.address(), "recipients", len(to))
	return client.Quit()
}
