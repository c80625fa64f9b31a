package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 15 * time.Second

type sendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPMailer delivers through an SMTP relay. Each Send dials its own
// connection, so concurrent sends do not share client state.
type SMTPMailer struct {
	host       string
	clientOpts []mail.Option
	from       string
	logger     *slog.Logger
	send       sendFunc
}

func parseTLSPolicy(raw string) (mail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "opportunistic":
		return mail.TLSOpportunistic, nil
	case "mandatory":
		return mail.TLSMandatory, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, fmt.Errorf("unknown mail.tls_policy %q", raw)
	}
}

func NewSMTPMailer(opts Options, logger *slog.Logger) (*SMTPMailer, error) {
	policy, err := parseTLSPolicy(opts.TLSPolicy)
	if err != nil {
		return nil, err
	}
	port := opts.Port
	if port == 0 {
		port = 587
	}

	clientOpts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(defaultSMTPTimeout),
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}
	if _, err := mail.NewClient(opts.Host, clientOpts...); err != nil {
		return nil, fmt.Errorf("configure smtp client: %w", err)
	}

	m := &SMTPMailer{
		host:       opts.Host,
		clientOpts: clientOpts,
		from:       opts.From,
		logger:     logger.With("component", "mailer"),
	}
	m.send = m.deliver
	return m, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	msg = withDefaultFrom(msg, m.from)

	built, err := buildMsg(msg, time.Now())
	if err != nil {
		return err
	}

	if err := m.send(ctx, built); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		m.logger.ErrorContext(ctx, "smtp delivery failed", "to", msg.To, "error", err)
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	m.logger.InfoContext(ctx, "mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *SMTPMailer) deliver(ctx context.Context, msg *mail.Msg) error {
	opts := make([]mail.Option, 0, len(m.clientOpts)+1)
	opts = append(opts, m.clientOpts...)
	opts = append(opts, mail.WithDialContextFunc(dialBoundTo(ctx)))

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// dialBoundTo ties the connection's I/O deadline to ctx. go-mail only uses
// the context for the dial itself, so a server that accepts and then stalls
// would otherwise block the caller.
func dialBoundTo(ctx context.Context) mail.DialContextFunc {
	return func(dialCtx context.Context, network, address string) (net.Conn, error) {
		var dialer net.Dialer
		conn, err := dialer.DialContext(dialCtx, network, address)
		if err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(deadline)
		}
		context.AfterFunc(ctx, func() {
			_ = conn.SetDeadline(time.Now())
		})
		return conn, nil
	}
}

func buildMsg(msg Message, now time.Time) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}
	out.Subject(msg.Subject)
	out.SetDateWithValue(now)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)
	return out, nil
}
