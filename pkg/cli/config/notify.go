package config

import (
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"github.com/m-mizutani/pagecap/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Notify holds login page notification configuration
type Notify struct {
	SlackWebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook notified when a login page is captured",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("PAGECAP_SLACK_WEBHOOK_URL"),
		},
	}
}

// Configure returns a Notifier, or nil when no webhook is configured
func (c *Notify) Configure(profile *Profile) interfaces.Notifier {
	url := c.SlackWebhookURL
	if url == "" {
		url = profile.Notify.SlackWebhookURL
	}
	if url == "" {
		return nil
	}
	return slack.New(url)
}
