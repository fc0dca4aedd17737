package channels

import (
	"context"
	"fmt"
	"strings"

	"GoLoyalty/internal/common"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// EmailChannel renders a notification into a plain-text email. The recipient
// address travels in msg.Data["email"].
type EmailChannel struct {
	sender  common.EmailService
	limiter *rate.Limiter
	appName string
}

// NewEmailChannel limits outgoing mail to perSecond messages; zero or less disables the limit.
func NewEmailChannel(sender common.EmailService, perSecond float64, appName string) *EmailChannel {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &EmailChannel{
		sender:  sender,
		limiter: rate.NewLimiter(limit, burst),
		appName: appName,
	}
}

func (c *EmailChannel) Kind() common.ChannelKind {
	return common.ChannelEmail
}

func (c *EmailChannel) Send(ctx context.Context, msg common.NotificationMessage) error {
	to, _ := msg.Data["email"].(string)
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("recipient has no email address")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "email rate limit")
	}

	return c.sender.SendEmail(ctx, common.EmailData{
		To:      []string{to},
		Subject: c.subject(msg),
		Body:    renderBody(msg),
	})
}

func (c *EmailChannel) subject(msg common.NotificationMessage) string {
	if c.appName == "" {
		return msg.Title
	}
	return fmt.Sprintf("%s: %s", c.appName, msg.Title)
}

func renderBody(msg common.NotificationMessage) string {
	var b strings.Builder
	b.WriteString(msg.Body)
	if msg.ActionURL != nil {
		label := "Open"
		if msg.ActionLabel != nil {
			label = *msg.ActionLabel
		}
		fmt.Fprintf(&b, "\n\n%s: %s", label, *msg.ActionURL)
	}
	return b.String()
}
