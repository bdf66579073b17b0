package services

import (
	"context"

	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/models"
	"launcher-api/internal/validation"
)

// Signup creates a new free user
func (s *HubService) Signup(ctx context.Context, username, password, email string) (models.User, error) {
	if err := validation.Required("All fields are required",
		validation.Field{Name: "username", Value: username},
		validation.Field{Name: "password", Value: password},
		validation.Field{Name: "email", Value: email},
	); err != nil {
		return models.User{}, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if indexOfUser(s.users, username) >= 0 {
		return models.User{}, &apperrors.ValidationError{Field: "username", Message: "Username already exists"}
	}

	user := models.User{
		Username:  username,
		Password:  password,
		Email:     email,
		IsPremium: false,
		CreatedAt: s.now().UTC(),
	}
	s.users = append(s.users, user)

	if err := saveLocked(ctx, s, s.store.Users, s.users); err != nil {
		return models.User{}, err
	}

	s.logger.Infof("User %q signed up", username)
	return user, nil
}

// Login returns the user matching the credentials
func (s *HubService) Login(ctx context.Context, username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			s.logger.Debugf("User %q logged in", username)
			return u, nil
		}
	}

	return models.User{}, &apperrors.AuthError{Reason: "invalid credentials for " + username, Message: "Invalid credentials"}
}

// UserStatus returns the stored record of a user
func (s *HubService) UserStatus(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if i := indexOfUser(s.users, username); i >= 0 {
		return s.users[i], nil
	}
	return models.User{}, &apperrors.NotFoundError{Entity: "User", Key: username}
}

// ListUsers returns every user
func (s *HubService) ListUsers(ctx context.Context) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	users := make([]models.User, len(s.users))
	copy(users, s.users)
	return users
}

// DeleteUser removes a user. Messages and payments of the user are kept.
// Deleting an unknown user is not an error.
func (s *HubService) DeleteUser(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	kept := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	removed := len(kept) != len(s.users)
	s.users = kept

	if err := saveLocked(ctx, s, s.store.Users, s.users); err != nil {
		return false, err
	}

	if removed {
		s.logger.Infof("Deleted user %q", username)
	}
	return removed, nil
}

// SetPremium grants or revokes premium for an existing user
func (s *HubService) SetPremium(ctx context.Context, username string, premium bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	i := indexOfUser(s.users, username)
	if i < 0 {
		return &apperrors.NotFoundError{Entity: "User", Key: username}
	}
	s.users[i].IsPremium = premium

	if err := saveLocked(ctx, s, s.store.Users, s.users); err != nil {
		return err
	}

	s.logger.Infof("Set premium=%v for user %q", premium, username)
	return nil
}
