// Package smtp implements the notify.smtp module: an email channel
// that delivers task results to recipient addresses over SMTP.
package smtp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarawad11/finsched/internal/core"
	"github.com/omarawad11/finsched/internal/notify"
	"github.com/wneessen/go-mail"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Channel{})
}

// Compile-time interface guards.
var (
	_ notify.Channel    = (*Channel)(nil)
	_ core.Module       = (*Channel)(nil)
	_ core.Configurable = (*Channel)(nil)
	_ core.Provisioner  = (*Channel)(nil)
	_ core.Validator    = (*Channel)(nil)
)

// Channel implements notify.Channel over SMTP. A fresh connection is
// dialed per Send; deliveries are independent of each other.
type Channel struct {
	config Config
	logger *slog.Logger
	client *mail.Client
}

// ModuleInfo implements core.Module.
func (c *Channel) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "notify.smtp",
		New: func() core.Module { return &Channel{} },
	}
}

// Configure implements core.Configurable.
func (c *Channel) Configure(node *yaml.Node) error {
	if err := node.Decode(&c.config); err != nil {
		return fmt.Errorf("notify.smtp: decode config: %w", err)
	}
	c.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (c *Channel) Provision(ctx *core.AppContext) error {
	c.config.defaults()
	c.logger = ctx.Logger

	opts := []mail.Option{
		mail.WithPort(c.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.config.Username),
		mail.WithPassword(c.config.Password),
	}
	if c.config.sslEnabled() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(c.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("notify.smtp: build client: %w", err)
	}
	c.client = client

	ctx.RegisterService("notify.channel", notify.Channel(c))
	return nil
}

// Validate implements core.Validator.
func (c *Channel) Validate() error {
	return c.config.validate()
}

// Send implements notify.Channel.
func (c *Channel) Send(ctx context.Context, recipient, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.config.From); err != nil {
		return fmt.Errorf("notify.smtp: from %q: %w", c.config.From, err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("notify.smtp: to %q: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("notify.smtp: send to %q: %w", recipient, err)
	}

	c.logger.Debug("email sent", "recipient", recipient, "subject", subject)
	return nil
}
