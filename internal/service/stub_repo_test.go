package service

import (
	"context"
	"fmt"
	"strings"

	"socialite/internal/models"
)

// stubUserRepo is an in-memory user store for service tests. Records are
// copied in and out so tests observe only persisted state, and individual
// operations can be overridden with the function fields.
type stubUserRepo struct {
	users  map[string]*models.User
	order  []string
	nextID int

	saveFn func(ctx context.Context, user *models.User) error
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.put(u)
	}
	return r
}

func (r *stubUserRepo) put(u *models.User) {
	if _, ok := r.users[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.users[u.ID] = cloneUser(u)
}

// get returns the persisted record, bypassing the repository interface.
func (r *stubUserRepo) get(id string) *models.User {
	return cloneUser(r.users[id])
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	out.Followers = append(models.IDList{}, u.Followers...)
	out.Following = append(models.IDList{}, u.Following...)
	return &out
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return models.NewConflictError("Username already exists")
		}
		if existing.Email == user.Email {
			return models.NewConflictError("Email already exists")
		}
	}
	if user.ID == "" {
		r.nextID++
		user.ID = fmt.Sprintf("id-%d", r.nextID)
	}
	r.put(user)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, models.NewNotFoundError("User", username)
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}

func (r *stubUserRepo) List(_ context.Context, limit, offset int) ([]models.User, error) {
	var out []models.User
	for i, id := range r.order {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Search(_ context.Context, query string) ([]models.User, error) {
	q := strings.ToLower(query)
	var out []models.User
	for _, id := range r.order {
		u := r.users[id]
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Bio), q) {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Save(ctx context.Context, user *models.User) error {
	if r.saveFn != nil {
		if err := r.saveFn(ctx, user); err != nil {
			return err
		}
	}
	r.put(user)
	return nil
}
