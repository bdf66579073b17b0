package services

import (
	"context"

	"launcher-api/internal/constants"
	"launcher-api/internal/helpers"
	"launcher-api/internal/models"
	"launcher-api/internal/validation"
)

// SendMessage appends a chat message with a snapshot of the sender's tier.
// The text is stored as sent; clients escape it when rendering.
func (s *HubService) SendMessage(ctx context.Context, username, text, group string) (models.Message, error) {
	if err := validation.Required("Message and group are required",
		validation.Field{Name: "message", Value: text},
		validation.Field{Name: "group", Value: group},
	); err != nil {
		return models.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	msg := models.Message{
		ID:        helpers.NextID(s.messages, models.MessageID),
		Username:  username,
		Tier:      s.perms.TierOf(userDirectory(s.users), username),
		Message:   text,
		Group:     group,
		Timestamp: s.now().UTC(),
	}
	s.messages = append(s.messages, msg)

	if err := saveLocked(ctx, s, s.store.Messages, s.messages); err != nil {
		return models.Message{}, err
	}

	s.logger.Debugf("Message %d from %q in group %q", msg.ID, username, group)
	return msg, nil
}

// Messages returns every message in group and the subset with id > since.
// Messages stored without a tier are given the sender's current tier.
func (s *HubService) Messages(ctx context.Context, group string, since int) ([]models.Message, []models.Message) {
	if group == "" {
		group = constants.DefaultChatGroup
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	dir := userDirectory(s.users)
	all := make([]models.Message, 0)
	for _, m := range s.messages {
		if m.Group != group {
			continue
		}
		if m.Tier == "" {
			m.Tier = s.perms.TierOf(dir, m.Username)
		}
		all = append(all, m)
	}

	return all, helpers.After(all, since, models.MessageID)
}
