// Package notify delivers push notifications. The production implementation
// posts to an ntfy.sh topic; RecordingNotifier captures deliveries for tests.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/maestro-agents/maestro/logging"
)

// Notification is one push message.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier dispatches notifications to the user's device.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NtfyOptions configure the ntfy.sh notifier.
type NtfyOptions struct {
	// BaseURL of the ntfy server.
	BaseURL string
	// Timeout per delivery attempt.
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// Logger for delivery events.
	Logger logging.Logger
}

// NtfyNotifier posts messages to an ntfy.sh topic. Subscribing to the topic
// on a phone turns every Send into a push notification.
type NtfyNotifier struct {
	topic   string
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewNtfyNotifier creates a notifier for the given topic.
func NewNtfyNotifier(topic string, optFns ...func(o *NtfyOptions)) *NtfyNotifier {
	opts := NtfyOptions{
		BaseURL: "https://ntfy.sh",
		Timeout: 10 * time.Second,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &NtfyNotifier{
		topic:   topic,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  client,
		logger:  opts.Logger,
	}
}

// Send posts the notification body to the topic, carrying the title in the
// Title header as ntfy expects.
func (n *NtfyNotifier) Send(ctx context.Context, notification Notification) error {
	url := n.baseURL + "/" + n.topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(notification.Message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	if notification.Title != "" {
		req.Header.Set("Title", notification.Title)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("notify.send.error", "topic", n.topic, "error", err.Error())
		return fmt.Errorf("post to ntfy: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Error("notify.send.rejected", "topic", n.topic, "status", resp.StatusCode)
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode)
	}

	n.logger.Info("notify.send.done", "topic", n.topic, "title", notification.Title)
	return nil
}

// RecordingNotifier captures notifications in memory for tests.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

// NewRecordingNotifier creates an empty recording notifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Fail makes every subsequent Send return the given error.
func (r *RecordingNotifier) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Send records the notification.
func (r *RecordingNotifier) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of all recorded notifications.
func (r *RecordingNotifier) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
