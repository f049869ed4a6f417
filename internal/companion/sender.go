// Package companion pushes workout summaries to the paired watch device.
// Delivery is best-effort: the channel offers no acknowledgment beyond
// "reachable or not", and a failed push never fails the triggering save.
package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"swimcraft/app/internal/codec"
)

const defaultSendTimeout = 5 * time.Second

// Sender defines the interface for the companion-device channel.
type Sender interface {
	// Send pushes the messages to the companion. An error means the device
	// was unreachable; callers log it and move on.
	Send(ctx context.Context, messages []codec.CompanionMessage) error
}

// httpSender delivers companion messages as a JSON POST to the paired
// device's sync endpoint.
type httpSender struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPSender creates a Sender for the given companion endpoint. An empty
// endpoint yields a disabled sender that drops messages silently, for
// installs with no paired device.
func NewHTTPSender(endpoint string, timeout time.Duration, logger *zap.Logger) Sender {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &httpSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// payload mirrors the watch side's expectation: one "workouts" key holding
// the message list.
type payload struct {
	Workouts []codec.CompanionMessage `json:"workouts"`
}

func (s *httpSender) Send(ctx context.Context, messages []codec.CompanionMessage) error {
	if s.endpoint == "" {
		return nil
	}

	body, err := json.Marshal(payload{Workouts: messages})
	if err != nil {
		return fmt.Errorf("marshal companion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build companion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("companion unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("companion rejected push: status %d", resp.StatusCode)
	}
	s.logger.Debug("pushed workouts to companion",
		zap.Int("count", len(messages)),
		zap.String("endpoint", s.endpoint))
	return nil
}
