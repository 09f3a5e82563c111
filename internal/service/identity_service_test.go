package service

import (
	"context"
	"errors"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"
	"testing"
	"time"
)

// fakeSessionStore 内存实现，记录写入次数以便断言滑动续期
type fakeSessionStore struct {
	entries map[string]*util.Claims
	puts    int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{entries: make(map[string]*util.Claims)}
}

func (s *fakeSessionStore) Put(ctx context.Context, sessionID string, claims *util.Claims, ttl time.Duration) error {
	s.entries[sessionID] = claims
	s.puts++
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, sessionID string) (*util.Claims, error) {
	claims, ok := s.entries[sessionID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return claims, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.entries, sessionID)
	return nil
}

func newIdentityFixture(t *testing.T) (*IdentityService, *fakeSessionStore, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	store := newFakeSessionStore()
	userRepo := repository.NewUserRepository(db)
	return NewIdentityService(userRepo, store, 30*time.Minute), store, userRepo
}

func TestEstablishAndResolveActiveUser(t *testing.T) {
	svc, store, userRepo := newIdentityFixture(t)
	ctx := context.Background()

	user := &model.User{Name: "Alice", Email: "alice@test.local", Role: model.Examinee}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	sessionID, err := svc.Establish(ctx, user)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session id")
	}

	claims := &util.Claims{UserID: user.ID, SessionID: sessionID, Name: user.Name, Email: user.Email}
	resolved, err := svc.GetActiveUser(ctx, claims)
	if err != nil {
		t.Fatalf("GetActiveUser: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved wrong user: %q", resolved.ID)
	}

	// 命中后滑动续期：初次 Establish 一次 Put，解析命中再续期一次
	if store.puts != 2 {
		t.Errorf("expected sliding renewal on hit, puts=%d", store.puts)
	}
}

func TestResolveFailsWithoutClaims(t *testing.T) {
	svc, _, _ := newIdentityFixture(t)

	if _, err := svc.GetActiveUser(context.Background(), nil); !errors.Is(err, util.ErrIdentityUnresolved) {
		t.Fatalf("nil claims: expected ErrIdentityUnresolved, got %v", err)
	}

	empty := &util.Claims{}
	if _, err := svc.GetActiveUser(context.Background(), empty); !errors.Is(err, util.ErrIdentityUnresolved) {
		t.Fatalf("empty session id: expected ErrIdentityUnresolved, got %v", err)
	}
}

func TestResolveFailsAfterRevoke(t *testing.T) {
	svc, _, userRepo := newIdentityFixture(t)
	ctx := context.Background()

	user := &model.User{Name: "Bob", Email: "bob@test.local", Role: model.Examinee}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	sessionID, _ := svc.Establish(ctx, user)
	if err := svc.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	claims := &util.Claims{UserID: user.ID, SessionID: sessionID, Name: user.Name, Email: user.Email}
	if _, err := svc.GetActiveUser(ctx, claims); !errors.Is(err, util.ErrIdentityUnresolved) {
		t.Fatalf("revoked session: expected ErrIdentityUnresolved, got %v", err)
	}
}

func TestResolveFailsWhenNoUserMatches(t *testing.T) {
	svc, store, _ := newIdentityFixture(t)
	ctx := context.Background()

	// 会话存在但库里没有同名同邮箱的用户
	sessionID := model.GenerateUUID()
	store.entries[sessionID] = &util.Claims{SessionID: sessionID, Name: "Ghost", Email: "ghost@test.local"}

	claims := &util.Claims{SessionID: sessionID, Name: "Ghost", Email: "ghost@test.local"}
	if _, err := svc.GetActiveUser(ctx, claims); !errors.Is(err, util.ErrIdentityUnresolved) {
		t.Fatalf("unmatched identity: expected ErrIdentityUnresolved, got %v", err)
	}
}

func TestResolveFailsForDisabledUser(t *testing.T) {
	svc, _, userRepo := newIdentityFixture(t)
	ctx := context.Background()

	user := &model.User{Name: "Carol", Email: "carol@test.local", Role: model.Examinee}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sessionID, _ := svc.Establish(ctx, user)

	user.Disabled = true
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	claims := &util.Claims{UserID: user.ID, SessionID: sessionID, Name: user.Name, Email: user.Email}
	if _, err := svc.GetActiveUser(ctx, claims); !errors.Is(err, util.ErrIdentityUnresolved) {
		t.Fatalf("disabled user: expected ErrIdentityUnresolved, got %v", err)
	}
}
