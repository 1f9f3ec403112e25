// Package service contains the business logic for accounts, the follow
// graph, and profile images.
package service

import (
	"context"

	"socialite/internal/models"
	"socialite/internal/repository"
)

// RelationshipService maintains the symmetric follow graph and its
// denormalized counts. It holds no state of its own; the user store owns all
// records, so instances are safe to share.
//
// Follow and unfollow persist the two touched records as independent writes
// with no cross-record transaction. If the second write fails the edge is
// left asymmetric; callers get the error but there is no recovery path.
type RelationshipService struct {
	userRepo repository.UserRepository
}

// NewRelationshipService returns a new RelationshipService.
func NewRelationshipService(userRepo repository.UserRepository) *RelationshipService {
	return &RelationshipService{userRepo: userRepo}
}

// FollowUser adds a follow edge from follower to target: the target id is
// appended to the follower's following list and the follower id to the
// target's followers list, with both counts kept equal to their list lengths.
func (s *RelationshipService) FollowUser(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.NewSelfFollowError()
	}

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewNotFoundError("Follower", followerID)
		}
		return err
	}
	target, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewNotFoundError("User to follow", followingID)
		}
		return err
	}

	if follower.Following.Contains(followingID) {
		return models.NewAlreadyFollowingError()
	}

	follower.Following = append(follower.Following, followingID)
	follower.FollowingCount = len(follower.Following)
	target.Followers = append(target.Followers, followerID)
	target.FollowersCount = len(target.Followers)

	// Two independent writes, follower first. No transaction spans them.
	if err := s.userRepo.Save(ctx, follower); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, target)
}

// UnfollowUser removes the follow edge from follower to target and restores
// both counts to their list lengths.
func (s *RelationshipService) UnfollowUser(ctx context.Context, followerID, followingID string) error {
	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewNotFoundError("Follower", followerID)
		}
		return err
	}
	target, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewNotFoundError("User to follow", followingID)
		}
		return err
	}

	if !follower.Following.Contains(followingID) {
		return models.NewNotFollowingError()
	}

	follower.Following = follower.Following.Remove(followingID)
	follower.FollowingCount = len(follower.Following)
	target.Followers = target.Followers.Remove(followerID)
	target.FollowersCount = len(target.Followers)

	if err := s.userRepo.Save(ctx, follower); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, target)
}

// GetFollowers resolves the user's followers list to full records, in stored
// order. Ids that no longer resolve are dropped, not repaired.
func (s *RelationshipService) GetFollowers(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Followers)
}

// GetFollowing resolves the user's following list to full records, in stored
// order. Ids that no longer resolve are dropped, not repaired.
func (s *RelationshipService) GetFollowing(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Following)
}

func (s *RelationshipService) resolve(ctx context.Context, ids models.IDList) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				// Stale reference; skip it.
				continue
			}
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}
