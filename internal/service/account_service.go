package service

import (
	"context"
	"time"

	"socialite/internal/models"
	"socialite/internal/repository"
)

// ProfilePatch carries a partial profile update. Pointer fields distinguish
// "not supplied" (nil, leave unchanged) from "set to this value"; IsPrivate
// is always applied.
type ProfilePatch struct {
	Name            *string
	Bio             *string
	AvatarURL       *string
	ProfileImageURL *string
	IsPrivate       bool
}

// AccountService handles signup, login and profile maintenance.
type AccountService struct {
	userRepo repository.UserRepository
}

// NewAccountService returns a new AccountService.
func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// Signup registers a new account. The store assigns the id; timestamps are
// set to creation time and accounts start public.
func (s *AccountService) Signup(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsPrivate = false
	if user.Followers == nil {
		user.Followers = models.IDList{}
	}
	if user.Following == nil {
		user.Following = models.IDList{}
	}
	user.FollowersCount = len(user.Followers)
	user.FollowingCount = len(user.Following)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by exact, case-sensitive password match. Passwords are
// stored and compared as given; there is deliberately no hashing here, the
// stored value is the contract.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Password != password {
		return nil, models.NewInvalidCredentialsError()
	}
	return user, nil
}

// Logout is a placeholder: no session state exists to tear down.
func (s *AccountService) Logout() {}

// GetProfile fetches a user by id.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetProfileByUsername fetches a user by username.
func (s *AccountService) GetProfileByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfile applies a partial profile update. Credentials (username,
// email, password) are never touched by this path.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	if patch.ProfileImageURL != nil {
		user.ProfileImageURL = *patch.ProfileImageURL
	}
	user.IsPrivate = patch.IsPrivate
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns users in store order.
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SearchUsers returns all users whose username, name or bio contains the
// query, case-insensitively. Results are unranked.
func (s *AccountService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	return s.userRepo.Search(ctx, query)
}
