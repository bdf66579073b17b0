package hubclient

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/constants"
	"launcher-api/internal/models"
)

// Poller re-fetches messages and broadcasts at a fixed interval and hands new ones to
// callbacks. There is no backoff; a failed poll is logged and retried on the next tick.
type Poller struct {
	client   *Client
	group    string
	interval time.Duration
	logger   *logrus.Logger

	onMessages   func([]models.Message)
	onBroadcasts func([]models.Broadcast)

	messagesSince   int
	broadcastsSince int
}

// NewPoller creates a new poller for a chat group
func NewPoller(client *Client, group string, interval time.Duration, logger *logrus.Logger) *Poller {
	if group == "" {
		group = constants.DefaultChatGroup
	}
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	return &Poller{
		client:   client,
		group:    group,
		interval: interval,
		logger:   logger,
	}
}

// OnMessages sets the callback for new chat messages
func (p *Poller) OnMessages(fn func([]models.Message)) *Poller {
	p.onMessages = fn
	return p
}

// OnBroadcasts sets the callback for new broadcasts
func (p *Poller) OnBroadcasts(fn func([]models.Broadcast)) *Poller {
	p.onBroadcasts = fn
	return p
}

// Run polls until ctx is cancelled and returns ctx.Err()
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll runs one fetch of each enabled feed
func (p *Poller) poll(ctx context.Context) {
	if p.onMessages != nil {
		resp, err := p.client.Messages(ctx, p.group, p.messagesSince)
		switch {
		case err != nil:
			p.warn(ctx, "messages", err)
		case len(resp.NewMessages) > 0:
			for _, m := range resp.NewMessages {
				if m.ID > p.messagesSince {
					p.messagesSince = m.ID
				}
			}
			p.onMessages(resp.NewMessages)
		}
	}

	if p.onBroadcasts != nil {
		resp, err := p.client.Broadcasts(ctx, p.broadcastsSince)
		switch {
		case err != nil:
			p.warn(ctx, "broadcasts", err)
		case len(resp.NewBroadcasts) > 0:
			for _, b := range resp.NewBroadcasts {
				if b.ID > p.broadcastsSince {
					p.broadcastsSince = b.ID
				}
			}
			p.onBroadcasts(resp.NewBroadcasts)
		}
	}
}

func (p *Poller) warn(ctx context.Context, feed string, err error) {
	if ctx.Err() != nil {
		return
	}
	p.logger.Warnf("Failed to poll %s: %v", feed, err)
}
