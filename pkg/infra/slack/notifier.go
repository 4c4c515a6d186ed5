package slack

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts login page captures to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

var _ interfaces.Notifier = (*Notifier)(nil)

// Option configures a Notifier
type Option func(*Notifier)

// WithHTTPClient replaces the HTTP client used for webhook calls
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = c
	}
}

// New creates a Notifier for webhookURL
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends notice as a single attachment
func (n *Notifier) Notify(ctx context.Context, notice *model.Notice) error {
	msg := &slack.WebhookMessage{
		Text: "Captured a login page instead of the requested content. Cookies need to be refreshed.",
		Attachments: []slack.Attachment{
			{
				Color: "warning",
				Fields: []slack.AttachmentField{
					{Title: "URL", Value: notice.URL},
					{Title: "Indicator", Value: "`" + notice.Indicator + "`", Short: true},
					{Title: "Request ID", Value: notice.RequestID, Short: true},
				},
			},
		},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook",
			goerr.V("url", notice.URL),
			goerr.V("request_id", notice.RequestID))
	}
	return nil
}
