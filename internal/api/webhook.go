package api

import (
	"context"
	"encoding/json"
	"fmt"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/domain"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	EventRoundOpened    = "round.opened"
	EventRoundCompleted = "round.completed"
)

// WebhookClient posts round events to an operator-supplied URL.
type WebhookClient struct {
	url     string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewWebhookClient(cfg *config.Config) *WebhookClient {
	return &WebhookClient{
		url:     cfg.WebhookURL,
		timeout: cfg.WebhookTimeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.WebhookTimeout,
			WriteTimeout:        cfg.WebhookTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *WebhookClient) Enabled() bool {
	return c.url != ""
}

type RoundEvent struct {
	Event    string        `json:"event"`
	Round    int           `json:"round"`
	Status   string        `json:"status"`
	Pairings []PairingBody `json:"pairings"`
	SentAt   time.Time     `json:"sent_at"`
}

type PairingBody struct {
	PlayerAID   int64  `json:"player_a_id"`
	PlayerAName string `json:"player_a_name"`
	PlayerBID   int64  `json:"player_b_id"`
	PlayerBName string `json:"player_b_name"`
	Reported    bool   `json:"reported"`
}

func NewRoundEvent(event string, round *domain.Round) RoundEvent {
	pairings := make([]PairingBody, len(round.Pairings))
	for i, p := range round.Pairings {
		pairings[i] = PairingBody{
			PlayerAID:   p.PlayerAID,
			PlayerAName: p.PlayerAName,
			PlayerBID:   p.PlayerBID,
			PlayerBName: p.PlayerBName,
			Reported:    i < len(round.Reported) && round.Reported[i],
		}
	}
	return RoundEvent{
		Event:    event,
		Round:    round.Number,
		Status:   string(round.Status),
		Pairings: pairings,
		SentAt:   time.Now().UTC(),
	}
}

// NotifyRound delivers a round event. It is a no-op when no URL is set.
func (c *WebhookClient) NotifyRound(ctx context.Context, event string, round *domain.Round) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(NewRoundEvent(event, round))
	if err != nil {
		return fmt.Errorf("failed to encode round event: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("failed to deliver %s: %w", event, err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("webhook rejected %s: %d", event, code)
	}
	return nil
}
