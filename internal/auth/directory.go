package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

// Options configures a Directory.
type Options struct {
	// BcryptCost is the hashing cost; bcrypt.MinCost keeps tests fast.
	BcryptCost int
	// MinPasswordLength is enforced by Register.
	MinPasswordLength int
	// SeedDemoUsers adds DemoAccounts when the directory is empty.
	SeedDemoUsers bool
}

// Directory is the user list persisted under store.KeyUsers.
//
// The store copy is re-read on every call so several nodes sharing a backend
// see each other's registrations. When it cannot be read, lookups use the
// last good copy and writes fail with an error wrapping store.ErrUnreadable,
// so an unreadable list is never replaced. Concurrent writers are
// last-write-wins.
type Directory struct {
	store store.Store
	opts  Options

	mu    sync.Mutex
	cache []User
}

// NewDirectory creates a directory over s.
func NewDirectory(s store.Store, opts Options) *Directory {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = DefaultMinPasswordLength
	}
	return &Directory{store: s, opts: opts}
}

// load returns the current user list; d.mu must be held. Demo accounts are
// seeded only when the list is absent. On a read failure the last good copy
// is returned with the error.
func (d *Directory) load(ctx context.Context) ([]User, error) {
	var users []User
	found, err := store.ReadJSON(ctx, d.store, store.KeyUsers, &users)
	switch {
	case err != nil:
		logger.Warn("User directory unreadable, using last good copy", zap.Error(err))
		return d.cache, err
	case found:
		d.cache = users
		return users, nil
	}
	if d.cache == nil {
		d.cache = d.seed()
		if len(d.cache) > 0 {
			store.SaveJSON(ctx, d.store, store.KeyUsers, d.cache)
		}
	}
	return d.cache, nil
}

// lookup is load for read-only callers; d.mu must be held.
func (d *Directory) lookup(ctx context.Context) []User {
	users, _ := d.load(ctx)
	return users
}

// save persists users; d.mu must be held.
func (d *Directory) save(ctx context.Context, users []User) {
	d.cache = users
	store.SaveJSON(ctx, d.store, store.KeyUsers, users)
}

func (d *Directory) seed() []User {
	users := make([]User, 0, len(DemoAccounts))
	if !d.opts.SeedDemoUsers {
		return users
	}
	now := time.Now().UTC()
	for _, acc := range DemoAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), d.opts.BcryptCost)
		if err != nil {
			logger.Error("Hashing demo password failed", zap.String("email", acc.Email), zap.Error(err))
			continue
		}
		users = append(users, User{
			ID:           "demo-" + string(acc.Role),
			Name:         acc.Name,
			Email:        acc.Email,
			Role:         acc.Role,
			PasswordHash: string(hash),
			CreatedAt:    now,
		})
	}
	logger.Info("Seeded demo accounts", zap.Int("count", len(users)))
	return users
}

func findByEmail(users []User, email string) (User, bool) {
	want := NormalizeEmail(email)
	for _, u := range users {
		if NormalizeEmail(u.Email) == want {
			return u, true
		}
	}
	return User{}, false
}

// FindByEmail looks a user up by email, ignoring case and surrounding space.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := findByEmail(d.lookup(ctx), email)
	if !ok {
		return nil, false
	}
	return &u, true
}

// FindByID looks a user up by id.
func (d *Directory) FindByID(ctx context.Context, id string) (*User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.lookup(ctx) {
		if u.ID == id {
			return &u, true
		}
	}
	return nil, false
}

// Authenticate returns the user whose email and password match. It fails
// with ErrAccountNotFound or ErrWrongPassword.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, ok := d.FindByEmail(ctx, email)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return u, nil
}

// Register validates nu, rejects an email already in the directory and
// appends a new user with a fresh unique id. Role defaults to customer.
func (d *Directory) Register(ctx context.Context, nu NewUser) (*User, error) {
	if err := ValidateRegistration(nu, d.opts.MinPasswordLength); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), d.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if _, taken := findByEmail(users, nu.Email); taken {
		return nil, ErrEmailTaken
	}

	role := nu.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	u := User{
		ID:           newUserID(users),
		Name:         strings.TrimSpace(nu.Name),
		Email:        strings.TrimSpace(nu.Email),
		Role:         role,
		Phone:        strings.TrimSpace(nu.Phone),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	d.save(ctx, append(slices.Clone(users), u))

	logger.Info("User registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

// UpdateProfile applies the non-empty fields of p to the user with id.
func (d *Directory) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	users := slices.Clone(current)
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if name := strings.TrimSpace(p.Name); name != "" {
			users[i].Name = name
		}
		if phone := strings.TrimSpace(p.Phone); phone != "" {
			users[i].Phone = phone
		}
		if p.Avatar != "" {
			users[i].Avatar = p.Avatar
		}
		d.save(ctx, users)
		u := users[i]
		return &u, nil
	}
	return nil, ErrAccountNotFound
}

// Count returns the number of users.
func (d *Directory) Count(ctx context.Context) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lookup(ctx))
}

func newUserID(users []User) string {
	for {
		id := uuid.Must(uuid.NewV7()).String()
		if !slices.ContainsFunc(users, func(u User) bool { return u.ID == id }) {
			return id
		}
	}
}
