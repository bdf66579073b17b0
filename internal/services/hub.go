package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/models"
	"launcher-api/internal/permissions"
	"launcher-api/internal/storage"
)

// HubService owns the four collections and every state-changing operation on them.
// Each operation runs one load -> mutate -> save cycle under a single mutex.
type HubService struct {
	store    *storage.Store
	perms    *permissions.PermissionController
	notifier Notifier
	reload   bool
	logger   *logrus.Logger
	now      func() time.Time

	mu         sync.Mutex
	loaded     bool
	users      []models.User
	messages   []models.Message
	payments   []models.Payment
	broadcasts []models.Broadcast
}

// NewHubService creates a new hub service.
// With reload set, every operation re-reads the store first, as serverless invocations must.
func NewHubService(
	store *storage.Store,
	perms *permissions.PermissionController,
	notifier Notifier,
	reload bool,
	logger *logrus.Logger,
) *HubService {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &HubService{
		store:    store,
		perms:    perms,
		notifier: notifier,
		reload:   reload,
		logger:   logger,
		now:      time.Now,
	}
}

// Stats summarizes the store for the health endpoint
type Stats struct {
	Backend    string `json:"backend"`
	Users      int    `json:"users"`
	Messages   int    `json:"messages"`
	Payments   int    `json:"payments"`
	Broadcasts int    `json:"broadcasts"`
}

// Stats returns collection counts
func (s *HubService) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	return Stats{
		Backend:    s.store.Backend,
		Users:      len(s.users),
		Messages:   len(s.messages),
		Payments:   len(s.payments),
		Broadcasts: len(s.broadcasts),
	}
}

// TierOf returns the display tier of a user
func (s *HubService) TierOf(ctx context.Context, username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	return s.perms.TierOf(userDirectory(s.users), username)
}

// IsAdmin checks if a username is the super-admin
func (s *HubService) IsAdmin(username string) bool {
	return s.perms.IsAdmin(username)
}

// loadLocked refreshes the in-memory collections when needed.
// It is an internal method that assumes the mutex is already locked.
func (s *HubService) loadLocked(ctx context.Context) {
	if s.loaded && !s.reload {
		return
	}

	s.users = loadCollection(ctx, s.store.Users, s.logger)
	s.messages = loadCollection(ctx, s.store.Messages, s.logger)
	s.payments = loadCollection(ctx, s.store.Payments, s.logger)
	s.broadcasts = loadCollection(ctx, s.store.Broadcasts, s.logger)
	s.loaded = true
}

// saveLocked persists one collection. On failure the cached state is dropped so the
// next operation starts again from what the store actually holds.
func saveLocked[T any](ctx context.Context, s *HubService, c storage.Collection[T], items []T) error {
	if err := c.ReplaceAll(ctx, items); err != nil {
		s.loaded = false
		s.logger.Errorf("Failed to save %s: %v", c.Name(), err)
		return &apperrors.InternalError{Operation: "save " + c.Name(), Err: err}
	}
	return nil
}

// loadCollection reads a collection, degrading to empty on any failure
func loadCollection[T any](ctx context.Context, c storage.Collection[T], logger *logrus.Logger) []T {
	items, err := c.All(ctx)
	if err != nil {
		logger.Warnf("Could not load %s, starting fresh: %v", c.Name(), err)
		return []T{}
	}
	return items
}

// userDirectory adapts the cached user slice for permission lookups
type userDirectory []models.User

// FindUser returns the user record with the given username
func (d userDirectory) FindUser(username string) (models.User, bool) {
	for _, u := range d {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// indexOfUser returns the position of username in users, or -1
func indexOfUser(users []models.User, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}
