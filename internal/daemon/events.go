package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// PublishEvent is emitted on the events subject after every publish run.
type PublishEvent struct {
	RunID      string    `json:"run_id"`
	Remote     string    `json:"remote"`
	Branch     string    `json:"branch"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Files      int       `json:"files"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Notifier publishes run events to NATS.
type Notifier struct {
	conn    *nats.Conn
	subject string
}

// NewNotifier connects to NATS and returns a notifier bound to the given subject.
func NewNotifier(url, subject string) (*Notifier, error) {
	if subject == "" {
		return nil, fmt.Errorf("events subject is required")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS notifier initialized", "url", url, "subject", subject)

	return &Notifier{conn: conn, subject: subject}, nil
}

// Notify publishes a run event. Failures are logged, never fatal.
func (n *Notifier) Notify(event *PublishEvent) error {
	if event.FinishedAt.IsZero() {
		event.FinishedAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published run event",
		"run_id", event.RunID,
		"outcome", event.Outcome)

	return nil
}

// Close drains and closes the NATS connection.
func (n *Notifier) Close() error {
	if n.conn != nil {
		if err := n.conn.Drain(); err != nil {
			n.conn.Close()
			return err
		}
	}
	return nil
}
