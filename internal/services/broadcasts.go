package services

import (
	"context"

	"launcher-api/internal/helpers"
	"launcher-api/internal/models"
	"launcher-api/internal/validation"
)

// Broadcast appends an admin broadcast and forwards it to the admin chats
func (s *HubService) Broadcast(ctx context.Context, text string) (models.Broadcast, error) {
	if err := validation.Required("Message required", validation.Field{Name: "message", Value: text}); err != nil {
		return models.Broadcast{}, err
	}

	b, err := func() (models.Broadcast, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.loadLocked(ctx)

		b := models.Broadcast{
			ID:        helpers.NextID(s.broadcasts, models.BroadcastID),
			Message:   text,
			CreatedAt: s.now().UTC(),
		}
		s.broadcasts = append(s.broadcasts, b)

		if err := saveLocked(ctx, s, s.store.Broadcasts, s.broadcasts); err != nil {
			return models.Broadcast{}, err
		}
		return b, nil
	}()
	if err != nil {
		return models.Broadcast{}, err
	}

	s.logger.Infof("Broadcast %d published", b.ID)
	s.notifier.Notify(ctx, "Broadcast sent: "+validation.SanitizeText(text))
	return b, nil
}

// Broadcasts returns every broadcast and the subset with id > since
func (s *HubService) Broadcasts(ctx context.Context, since int) ([]models.Broadcast, []models.Broadcast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	all := make([]models.Broadcast, len(s.broadcasts))
	copy(all, s.broadcasts)
	return all, helpers.After(all, since, models.BroadcastID)
}
