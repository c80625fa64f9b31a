// Package mailer delivers the few transactional emails the blog sends.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type Message struct {
	To      string
	From    string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Options struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// TLSPolicy is "opportunistic" (default), "mandatory" or "none".
	TLSPolicy string
}

// New picks a mailer by driver name. "log" (or empty) writes messages to the
// logger instead of delivering them.
func New(opts Options, logger *slog.Logger) (Mailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "log":
		return NewLogMailer(opts.From, logger), nil
	case "smtp":
		if opts.Host == "" {
			return nil, errors.New("mail.host is required for the smtp driver")
		}
		m, err := NewSMTPMailer(opts, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", opts.Driver)
	}
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("message has no recipient")
	}
	if strings.ContainsAny(msg.To+msg.ReplyTo+msg.Subject, "\r\n") {
		return errors.New("message headers contain a line break")
	}
	return nil
}

func withDefaultFrom(msg Message, from string) Message {
	if msg.From == "" {
		msg.From = from
	}
	return msg
}
