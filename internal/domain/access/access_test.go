package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// fakeRepo is a minimal in-test Repository.
type fakeRepo struct {
	educators map[shared.Address]bool
	paused    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{educators: make(map[shared.Address]bool)}
}

func (r *fakeRepo) IsEducator(_ context.Context, addr shared.Address) (bool, error) {
	return r.educators[addr], nil
}

func (r *fakeRepo) SetEducator(_ context.Context, addr shared.Address, granted bool) error {
	if granted {
		r.educators[addr] = true
	} else {
		delete(r.educators, addr)
	}
	return nil
}

func (r *fakeRepo) IsPaused(_ context.Context) (bool, error) {
	return r.paused, nil
}

func (r *fakeRepo) SetPaused(_ context.Context, paused bool) error {
	r.paused = paused
	return nil
}

const owner = shared.Address("0xowner")

func TestAuthorizer_RequireOwner(t *testing.T) {
	auth := NewAuthorizer(owner, newFakeRepo())

	assert.NoError(t, auth.RequireOwner(owner))
	assert.ErrorIs(t, auth.RequireOwner("0xother"), ErrNotOwner)
}

func TestAuthorizer_EducatorGrants(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthorizer(owner, newFakeRepo())
	educator := shared.Address("0xeducator")

	assert.ErrorIs(t, auth.RequireEducator(ctx, educator), ErrNotEducator)

	require.NoError(t, auth.GrantEducator(ctx, educator))
	assert.NoError(t, auth.RequireEducator(ctx, educator))

	require.NoError(t, auth.RevokeEducator(ctx, educator))
	assert.ErrorIs(t, auth.RequireEducator(ctx, educator), ErrNotEducator)
}

func TestAuthorizer_OwnerIsNotImplicitEducator(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthorizer(owner, newFakeRepo())

	// Owning the ledger does not confer the educator role.
	assert.ErrorIs(t, auth.RequireEducator(ctx, owner), ErrNotEducator)

	// Granting the role to the owner is a silent no-op; the grant set
	// never contains the owner address.
	require.NoError(t, auth.GrantEducator(ctx, owner))
	granted, err := auth.IsEducator(ctx, owner)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestAuthorizer_RevokeWithoutGrant(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthorizer(owner, newFakeRepo())

	assert.NoError(t, auth.RevokeEducator(ctx, "0xnever-granted"))
}

func TestAuthorizer_Pause(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthorizer(owner, newFakeRepo())

	assert.NoError(t, auth.EnsureActive(ctx))

	require.NoError(t, auth.SetPaused(ctx, true))
	assert.ErrorIs(t, auth.EnsureActive(ctx), ErrPaused)

	// Pausing twice keeps the same state.
	require.NoError(t, auth.SetPaused(ctx, true))
	paused, err := auth.IsPaused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)

	require.NoError(t, auth.SetPaused(ctx, false))
	assert.NoError(t, auth.EnsureActive(ctx))
}
