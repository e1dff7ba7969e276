package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/store"
	"autoparts.dev/storefront/internal/testutil"
)

func newDirectory(t *testing.T, s store.Store) *auth.Directory {
	t.Helper()
	return auth.NewDirectory(s, auth.Options{
		BcryptCost:    bcrypt.MinCost,
		SeedDemoUsers: true,
	})
}

func TestDirectory_SeedsDemoAccounts(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	dir := newDirectory(t, mem)

	assert.Equal(t, len(auth.DemoAccounts), dir.Count(ctx))

	raw, err := mem.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "customer123", "passwords are stored hashed")

	for _, acc := range auth.DemoAccounts {
		u, err := dir.Authenticate(ctx, acc.Email, acc.Password)
		require.NoError(t, err, acc.Email)
		assert.Equal(t, acc.Role, u.Role)
	}
}

func TestDirectory_NoSeed(t *testing.T) {
	dir := auth.NewDirectory(store.NewMemory(), auth.Options{BcryptCost: bcrypt.MinCost})
	assert.Zero(t, dir.Count(context.Background()))
}

func TestDirectory_Authenticate(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(t, store.NewMemory())

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantRole domain.Role
	}{
		{"admin", "admin@autoparts.demo", "admin123", nil, domain.RoleAdmin},
		{"email case and space ignored", "  Vendor@AutoParts.Demo ", "vendor123", nil, domain.RoleVendor},
		{"unknown email", "nobody@autoparts.demo", "whatever1", auth.ErrAccountNotFound, ""},
		{"wrong password", "admin@autoparts.demo", "wrongpass", auth.ErrWrongPassword, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := dir.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, u.Role)
		})
	}
}

func TestDirectory_Register(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	dir := newDirectory(t, mem)

	u, err := dir.Register(ctx, auth.NewUser{
		Name:            "Sara",
		Email:           "sara@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.RoleCustomer, u.Role)

	// A second directory over the same store sees the registration.
	other := newDirectory(t, mem)
	got, err := other.Authenticate(ctx, "SARA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = dir.Register(ctx, auth.NewUser{Name: "Dup", Email: "Sara@Example.com", Password: "secret2"})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	v, err := dir.Register(ctx, auth.NewUser{Name: "Vee", Email: "vee@example.com", Password: "secret3", Role: domain.RoleVendor})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendor, v.Role)
	assert.NotEqual(t, u.ID, v.ID)
}

func TestDirectory_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(t, store.NewMemory())

	tests := []struct {
		name   string
		input  auth.NewUser
		fields []string
	}{
		{"missing name", auth.NewUser{Email: "a@b.co", Password: "secret1"}, []string{"name"}},
		{"bad email", auth.NewUser{Name: "A", Email: "not-an-email", Password: "secret1"}, []string{"email"}},
		{"short password", auth.NewUser{Name: "A", Email: "a@b.co", Password: "123"}, []string{"password"}},
		{"mismatch", auth.NewUser{Name: "A", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2"}, []string{"confirm_password"}},
		{"admin self registration", auth.NewUser{Name: "A", Email: "a@b.co", Password: "secret1", Role: domain.RoleAdmin}, []string{"role"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dir.Register(ctx, tt.input)
			require.ErrorIs(t, err, auth.ErrInvalidInput)
			var verr *auth.ValidationError
			require.ErrorAs(t, err, &verr)
			var got []string
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestDirectory_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(t, store.NewMemory())

	u, ok := dir.FindByEmail(ctx, "customer@autoparts.demo")
	require.True(t, ok)

	updated, err := dir.UpdateProfile(ctx, u.ID, auth.ProfileUpdate{Phone: "+966500000000"})
	require.NoError(t, err)
	assert.Equal(t, u.Name, updated.Name)
	assert.Equal(t, "+966500000000", updated.Phone)

	again, ok := dir.FindByID(ctx, u.ID)
	require.True(t, ok)
	assert.Equal(t, "+966500000000", again.Phone)

	_, err = dir.UpdateProfile(ctx, "missing", auth.ProfileUpdate{Name: "x"})
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}

func TestDirectory_StorageFailureFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	faulty := testutil.NewFaultyStore(store.NewMemory())
	dir := newDirectory(t, faulty)
	require.Equal(t, len(auth.DemoAccounts), dir.Count(ctx))

	faulty.FailAll()

	_, err := dir.Authenticate(ctx, "customer@autoparts.demo", "customer123")
	assert.NoError(t, err)

	_, err = dir.Register(ctx, auth.NewUser{Name: "Offline", Email: "off@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, store.ErrUnreadable)
	_, ok := dir.FindByEmail(ctx, "off@example.com")
	assert.False(t, ok)
}

func TestDirectory_UnreadableListIsNeverReseeded(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_, err := newDirectory(t, mem).Register(ctx, auth.NewUser{Name: "Sara", Email: "sara@x.io", Password: "secret1"})
	require.NoError(t, err)

	faulty := testutil.NewFaultyStore(mem)
	faulty.FailGet(store.KeyUsers)
	cold := newDirectory(t, faulty)
	assert.Zero(t, cold.Count(ctx))
	_, err = cold.Register(ctx, auth.NewUser{Name: "Omar", Email: "omar@x.io", Password: "secret1"})
	assert.ErrorIs(t, err, store.ErrUnreadable)
	_, err = cold.UpdateProfile(ctx, "demo-customer", auth.ProfileUpdate{Name: "x"})
	assert.ErrorIs(t, err, store.ErrUnreadable)
	assert.Zero(t, faulty.SetCalls)

	fresh := newDirectory(t, mem)
	_, ok := fresh.FindByEmail(ctx, "sara@x.io")
	assert.True(t, ok)
	assert.Equal(t, len(auth.DemoAccounts)+1, fresh.Count(ctx))
}
