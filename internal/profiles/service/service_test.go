package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/profiles/cache"
	"github.com/reoutfit/reoutfit-backend/internal/profiles/domain"
)

type countingRepo struct {
	ensures int
	updates int
	stored  domain.Profile
}

func (r *countingRepo) Ensure(_ context.Context, p access.Principal) (*domain.Profile, error) {
	r.ensures++
	if r.stored.UserID == "" {
		r.stored = domain.Profile{UserID: p.ID, Email: &p.Email}
	}
	out := r.stored
	return &out, nil
}

func (r *countingRepo) Update(_ context.Context, p access.Principal, in domain.UpdateInput) (*domain.Profile, error) {
	r.updates++
	if in.DisplayName != nil {
		r.stored.DisplayName = in.DisplayName
	}
	out := r.stored
	return &out, nil
}

var alice = access.Principal{ID: "user-a", Email: "ada@example.com"}

func TestGetReadsThroughCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewProfileService(repo, cache.New(time.Minute))

	_, err := svc.Get(context.Background(), alice)
	require.NoError(t, err)
	p, err := svc.Get(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.ensures)
	assert.Equal(t, "ada@example.com", *p.Email)
}

func TestUpdateRefreshesCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewProfileService(repo, cache.New(time.Minute))
	_, _ = svc.Get(context.Background(), alice)

	name := "Ada"
	_, err := svc.Update(context.Background(), alice, domain.UpdateInput{DisplayName: &name})
	require.NoError(t, err)

	p, err := svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "Ada", *p.DisplayName)
	assert.Equal(t, 1, repo.ensures)
}

// racingRepo hands Ensure a snapshot taken before duringEnsure runs, like a
// read that committed before a concurrent write.
type racingRepo struct {
	stored       domain.Profile
	duringEnsure func()
}

func (r *racingRepo) Ensure(_ context.Context, _ access.Principal) (*domain.Profile, error) {
	snapshot := r.stored
	if r.duringEnsure != nil {
		hook := r.duringEnsure
		r.duringEnsure = nil
		hook()
	}
	return &snapshot, nil
}

func (r *racingRepo) Update(_ context.Context, _ access.Principal, in domain.UpdateInput) (*domain.Profile, error) {
	if in.DisplayName != nil {
		r.stored.DisplayName = in.DisplayName
	}
	r.stored.UpdatedAt = r.stored.UpdatedAt.Add(time.Second)
	out := r.stored
	return &out, nil
}

func TestStaleReadDoesNotOverwriteUpdate(t *testing.T) {
	old := "Before"
	repo := &racingRepo{stored: domain.Profile{
		UserID: "user-a", DisplayName: &old, UpdatedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}}
	svc := NewProfileService(repo, cache.New(time.Minute))

	repo.duringEnsure = func() {
		name := "After"
		_, err := svc.Update(context.Background(), alice, domain.UpdateInput{DisplayName: &name})
		require.NoError(t, err)
	}
	stale, err := svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "Before", *stale.DisplayName)

	p, err := svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "After", *p.DisplayName)
}

func TestUpdateValidatesFirst(t *testing.T) {
	repo := &countingRepo{}
	svc := NewProfileService(repo, cache.New(time.Minute))

	blank := "   "
	bad := "not a url"
	_, err := svc.Update(context.Background(), alice, domain.UpdateInput{DisplayName: &blank, AvatarURL: &bad})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "display_name")
	assert.Contains(t, appErr.Details, "avatar_url")
	assert.Equal(t, 0, repo.updates)
}

func TestForgetDropsCachedProfile(t *testing.T) {
	repo := &countingRepo{}
	svc := NewProfileService(repo, cache.New(time.Minute))

	_, _ = svc.Get(context.Background(), alice)
	svc.Forget(alice.ID)
	_, _ = svc.Get(context.Background(), alice)

	assert.Equal(t, 2, repo.ensures)
}
