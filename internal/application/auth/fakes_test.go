package auth_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia y notificación
// ──────────────────────────────────────────────────────────────────────────────

type fakeCredentials struct {
	mu    sync.Mutex
	byID  map[int64]*entity.Credential
	fails error
}

func newFakeCredentials(creds ...*entity.Credential) *fakeCredentials {
	f := &fakeCredentials{byID: map[int64]*entity.Credential{}}
	for _, c := range creds {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCredentials) get(id int64) entity.Credential {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

func (f *fakeCredentials) FindByID(_ context.Context, id int64) (*entity.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails != nil {
		return nil, f.fails
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCredentials) FindActiveByEmail(_ context.Context, email string) (*entity.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails != nil {
		return nil, f.fails
	}
	for _, c := range f.byID {
		if strings.EqualFold(c.Email, email) && c.IsActive && !c.IsDeleted {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCredentials) SetRefreshToken(_ context.Context, userID int64, digest *string, expiry *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[userID]
	c.RefreshToken = digest
	c.RefreshTokenExpiry = expiry
	return nil
}

func (f *fakeCredentials) RotateRefreshToken(_ context.Context, userID int64, current, next string, nextExpiry, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[userID]
	if c.RefreshToken == nil || *c.RefreshToken != current || c.RefreshTokenExpiry == nil || !c.RefreshTokenExpiry.After(now) {
		return false, nil
	}
	c.RefreshToken = &next
	c.RefreshTokenExpiry = &nextExpiry
	return true, nil
}

func (f *fakeCredentials) UpdatePassword(_ context.Context, userID int64, hash string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[userID]
	c.PasswordHash = hash
	c.UpdatedAt = now
	return nil
}

func (f *fakeCredentials) ConsumeResetToken(_ context.Context, email, digest, hash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if !strings.EqualFold(c.Email, email) || c.IsDeleted {
			continue
		}
		if c.RefreshToken == nil || *c.RefreshToken != digest || c.RefreshTokenExpiry == nil || !c.RefreshTokenExpiry.After(now) {
			return false, nil
		}
		c.PasswordHash = hash
		c.RefreshToken = nil
		c.RefreshTokenExpiry = nil
		c.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

type fakeRoles map[int64]string

func (f fakeRoles) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	name, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &entity.Role{ID: id, Name: name}, nil
}

type fakePermissions map[[2]int64][]string

func (f fakePermissions) ListNames(_ context.Context, roleID, companyID int64) ([]string, error) {
	return f[[2]int64{roleID, companyID}], nil
}

type fakeResolver struct {
	calls int
	names []string
}

func (f *fakeResolver) Resolve(_ context.Context, roleID, companyID int64) ([]string, error) {
	f.calls++
	return f.names, nil
}

type sentMail struct{ to, link string }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) SendPasswordReset(_ context.Context, to, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, link: link})
	return nil
}

func (f *fakeNotifier) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time            { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
