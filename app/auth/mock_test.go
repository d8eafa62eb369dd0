package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/weavelink/weavelink/models"
)

// --- Mock Repo ---

type MockProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	Err      error
}

func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{profiles: make(map[string]*models.Profile)}
}

func (m *MockProfileStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, p := range m.profiles {
		if p.Email == profile.Email {
			return models.ErrEmailTaken
		}
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

func (m *MockProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (m *MockProfileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.profiles {
		if p.Email == email {
			out := *p
			return &out, nil
		}
	}
	return nil, models.ErrProfileNotFound
}

// setRole simulates a profile edit made outside the session.
func (m *MockProfileStore) setRole(id string, role models.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id].Role = role
}

// --- Helpers ---

const testSecret = "test-secret"

type fixture struct {
	svc      *Service
	profiles *MockProfileStore
	tokens   *Tokens
	redis    *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	profiles := NewMockProfileStore()
	tokens := NewTokens(testSecret, time.Hour)
	svc := NewService(profiles, tokens, NewRevocations(rdb), WithBcryptCost(bcrypt.MinCost))
	return &fixture{svc: svc, profiles: profiles, tokens: tokens, redis: mr}
}

func (f *fixture) signUp(t *testing.T, email string, role models.Role) *Result {
	t.Helper()
	result, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:    email,
		Password: "handloom123",
		Name:     "Meera",
		Location: "Varanasi",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return result
}
