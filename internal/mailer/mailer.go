package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"

	"github.com/xelth-com/shopreply/internal/config"
)

// Message is a drafted reply ready to be delivered
type Message struct {
	To        string
	Subject   string
	Body      string
	InReplyTo string // optional Message-ID of the customer's email
}

// Sender delivers a reply to the customer
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends replies over SMTP with static credentials
type SMTPSender struct {
	config config.SMTPConfig
	dial   func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

const (
	dialTimeout    = 10 * time.Second
	sessionTimeout = 30 * time.Second
)

// NewSMTPSender creates an SMTP sender
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	s := &SMTPSender{config: cfg}
	s.dial = s.send
	return s
}

// ValidateAddress checks for header injection and RFC 5322 compliance
func ValidateAddress(addr string) error {
	if strings.ContainsAny(addr, "\r\n,;") {
		return fmt.Errorf("email contains invalid characters")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// Build renders msg as an RFC 5322 text/plain message
func Build(from string, msg Message, now time.Time) ([]byte, error) {
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	toAddr, err := mail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if strings.ContainsAny(msg.Subject, "\r\n") {
		return nil, fmt.Errorf("subject contains invalid characters")
	}

	var h gomail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*gomail.Address{{Name: fromAddr.Name, Address: fromAddr.Address}})
	h.SetAddressList("To", []*gomail.Address{{Name: toAddr.Name, Address: toAddr.Address}})
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}
	if msg.InReplyTo != "" && !strings.ContainsAny(msg.InReplyTo, "\r\n") {
		h.Set("In-Reply-To", msg.InReplyTo)
		h.Set("References", msg.InReplyTo)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		return nil, fmt.Errorf("failed to write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	return buf.Bytes(), nil
}

// Send builds and delivers msg
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ValidateAddress(msg.To); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := Build(s.config.From, msg, time.Now())
	if err != nil {
		return err
	}

	from, _ := mail.ParseAddress(s.config.From)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := s.dial(ctx, addr, auth, from.Address, []string{msg.To}, raw); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("SMTP send aborted: %w", ctxErr)
		}
		return sanitizeSMTPError(err)
	}
	return nil
}

func (s *SMTPSender) send(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	if !s.config.UseTLS && auth != nil {
		return fmt.Errorf("SMTP auth requires TLS")
	}

	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
		MinVersion: tls.VersionTLS12,
	}
	netDialer := &net.Dialer{Timeout: dialTimeout}

	var (
		conn net.Conn
		err  error
	)
	if s.config.UseTLS {
		conn, err = (&tls.Dialer{NetDialer: netDialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("TLS connection failed: %w", err)
		}
	} else {
		conn, err = netDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
	}
	defer conn.Close()

	// the whole SMTP session is bounded by ctx
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(sessionTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("SMTP deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("SMTP client creation failed: %w", err)
	}
	defer client.Close()

	if !s.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("sender rejected: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("recipient rejected: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data command failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("message write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message finalization failed: %w", err)
	}
	return client.Quit()
}

func sanitizeSMTPError(err error) error {
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "auth") {
		return fmt.Errorf("SMTP authentication failed")
	}
	if strings.Contains(s, "certificate") {
		return fmt.Errorf("TLS certificate error")
	}
	return fmt.Errorf("SMTP error: check your configuration")
}
