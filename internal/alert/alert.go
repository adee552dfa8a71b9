// Package alert posts a webhook when a service's status changes between two listings.
package alert

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/logging"
	"github.com/hazz-dev/svcboard/internal/watch"
)

// Alerter sends webhook notifications on service status changes.
type Alerter struct {
	webhookURL string
	cooldown   time.Duration
	client     *http.Client
	lastAlert  map[directory.ID]time.Time
	mu         sync.Mutex
	logger     *zap.SugaredLogger
}

// New creates a new Alerter. Pass nil logger to discard logs.
func New(webhookURL string, cooldown time.Duration, logger *zap.SugaredLogger) *Alerter {
	return &Alerter{
		webhookURL: webhookURL,
		cooldown:   cooldown,
		client:     &http.Client{Timeout: 10 * time.Second},
		lastAlert:  make(map[directory.ID]time.Time),
		logger:     logging.OrNop(logger),
	}
}

type webhookPayload struct {
	ID             string `json:"id"`
	Service        string `json:"service"`
	URL            string `json:"url"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	LastUpdated    string `json:"last_updated"`
	Source         string `json:"source"`
}

// Notify sends a webhook for c unless the service is still within its cooldown.
func (a *Alerter) Notify(c watch.Change) {
	id := c.Service.ID

	a.mu.Lock()
	last, exists := a.lastAlert[id]
	if exists && time.Since(last) < a.cooldown {
		a.mu.Unlock()
		a.logger.Infow("alert suppressed by cooldown", "id", id, "service", c.Service.Name)
		return
	}
	a.lastAlert[id] = time.Now()
	a.mu.Unlock()

	// Send asynchronously so Notify doesn't block the watcher.
	go a.send(c)
}

func (a *Alerter) send(c watch.Change) {
	payload := webhookPayload{
		ID:             string(c.Service.ID),
		Service:        c.Service.Name,
		URL:            c.Service.URL,
		Status:         c.Service.Status,
		PreviousStatus: c.Previous,
		LastUpdated:    c.Service.LastUpdated,
		Source:         "svcboard",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		a.logger.Errorw("marshaling webhook payload", "service", c.Service.Name, "error", err)
		return
	}

	resp, err := a.client.Post(a.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.Errorw("sending webhook", "service", c.Service.Name, "url", a.webhookURL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.logger.Warnw("webhook returned non-2xx status",
			"service", c.Service.Name,
			"status", resp.StatusCode,
		)
	}
}
