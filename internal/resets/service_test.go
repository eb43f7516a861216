package resets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/security"
	"gorm.io/gorm"
)

type stubResetRepo struct {
	mu        sync.Mutex
	requests  map[uuid.UUID]*models.PasswordResetRequest
	createErr error
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{requests: make(map[uuid.UUID]*models.PasswordResetRequest)}
}

func (s *stubResetRepo) FindByUser(_ context.Context, userID uuid.UUID) (*models.PasswordResetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.requests[userID]; ok {
		return req, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubResetRepo) Create(_ context.Context, userID uuid.UUID) (*models.PasswordResetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	req := &models.PasswordResetRequest{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.ResetStatusPending,
	}
	s.requests[userID] = req
	return req, nil
}

func (s *stubResetRepo) setStatus(id uuid.UUID, status enums.ResetStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req.ID == id {
			req.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubResetRepo) SetStatus(_ context.Context, id uuid.UUID, status enums.ResetStatus) error {
	return s.setStatus(id, status)
}

func (s *stubResetRepo) SetStatusWithTx(_ *gorm.DB, id uuid.UUID, status enums.ResetStatus) error {
	return s.setStatus(id, status)
}

func (s *stubResetRepo) ListByStatus(_ context.Context, status enums.ResetStatus) ([]models.PasswordResetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PasswordResetRequest
	for _, req := range s.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

type stubResetUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newStubResetUserRepo() *stubResetUserRepo {
	return &stubResetUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubResetUserRepo) add(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *stubResetUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubResetUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubResetUserRepo) UpdatePasswordHashWithTx(_ *gorm.DB, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = hash
	return nil
}

type stubStoreLookup struct {
	stores map[uuid.UUID]*models.Store
}

func (s *stubStoreLookup) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if s.stores != nil {
		if store, ok := s.stores[id]; ok {
			return store, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type noopTx struct{}

func (noopTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testResetPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func buildResetService(t *testing.T, requests *stubResetRepo, users *stubResetUserRepo, stores *stubStoreLookup) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ResetRepo:      requests,
		UserRepo:       users,
		StoreRepo:      stores,
		Tx:             noopTx{},
		PasswordConfig: testResetPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestRequestUnknownEmailStaysSilent(t *testing.T) {
	requests := newStubResetRepo()
	svc := buildResetService(t, requests, newStubResetUserRepo(), nil)

	if err := svc.Request(context.Background(), "ghost@shop.test"); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if len(requests.requests) != 0 {
		t.Fatalf("expected no requests recorded, got %d", len(requests.requests))
	}
}

func TestRequestUniqueViolationOnCreateStaysSilent(t *testing.T) {
	requests := newStubResetRepo()
	requests.createErr = errors.New(`duplicate key value violates unique constraint "idx_password_reset_requests_user"`)
	users := newStubResetUserRepo()
	user := &models.User{ID: uuid.New(), Email: "raced@shop.test", Active: true}
	users.add(user)

	// A simultaneous submission already inserted the row between our lookup
	// and create; the caller still gets the generic success.
	svc := buildResetService(t, requests, users, nil)
	if err := svc.Request(context.Background(), "raced@shop.test"); err != nil {
		t.Fatalf("expected unique violation to read as success, got %v", err)
	}
}

func TestRequestCreatesAndDeduplicatesPending(t *testing.T) {
	requests := newStubResetRepo()
	users := newStubResetUserRepo()
	user := &models.User{ID: uuid.New(), Email: "locked-out@shop.test", Active: true}
	users.add(user)

	svc := buildResetService(t, requests, users, nil)
	ctx := context.Background()

	if err := svc.Request(ctx, "Locked-Out@Shop.Test"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	first := requests.requests[user.ID]
	if first == nil || first.Status != enums.ResetStatusPending {
		t.Fatalf("expected pending request, got %+v", first)
	}

	// A second submission while one is pending changes nothing.
	if err := svc.Request(ctx, "locked-out@shop.test"); err != nil {
		t.Fatalf("repeat request: %v", err)
	}
	if len(requests.requests) != 1 || requests.requests[user.ID].ID != first.ID {
		t.Fatal("expected the pending request to be reused")
	}
}

func TestRequestReArmsCompletedRequest(t *testing.T) {
	requests := newStubResetRepo()
	users := newStubResetUserRepo()
	user := &models.User{ID: uuid.New(), Email: "again@shop.test", Active: true}
	users.add(user)
	requests.requests[user.ID] = &models.PasswordResetRequest{
		ID:     uuid.New(),
		UserID: user.ID,
		Status: enums.ResetStatusCompleted,
	}

	svc := buildResetService(t, requests, users, nil)
	if err := svc.Request(context.Background(), "again@shop.test"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := requests.requests[user.ID].Status; got != enums.ResetStatusPending {
		t.Fatalf("expected re-armed pending request, got %s", got)
	}
	if len(requests.requests) != 1 {
		t.Fatalf("expected single request row, got %d", len(requests.requests))
	}
}

func TestResolveIssuesTempPasswordOnce(t *testing.T) {
	requests := newStubResetRepo()
	users := newStubResetUserRepo()
	user := &models.User{ID: uuid.New(), Email: "reset-me@shop.test", PasswordHash: "old-hash"}
	users.add(user)
	requests.requests[user.ID] = &models.PasswordResetRequest{
		ID:     uuid.New(),
		UserID: user.ID,
		Status: enums.ResetStatusPending,
	}

	svc := buildResetService(t, requests, users, nil)
	result, err := svc.Resolve(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.TempPassword) != tempPasswordLength {
		t.Fatalf("expected %d-char temp password, got %q", tempPasswordLength, result.TempPassword)
	}

	if user.PasswordHash == "old-hash" {
		t.Fatal("expected password hash replaced")
	}
	ok, err := security.VerifyPassword(result.TempPassword, user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("temp password does not verify against stored hash: %v", err)
	}
	if got := requests.requests[user.ID].Status; got != enums.ResetStatusCompleted {
		t.Fatalf("expected completed status, got %s", got)
	}

	// Resolving again conflicts until the user re-arms the workflow.
	_, err = svc.Resolve(context.Background(), user.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestResolveUnknownUser(t *testing.T) {
	svc := buildResetService(t, newStubResetRepo(), newStubResetUserRepo(), nil)
	_, err := svc.Resolve(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPendingEnrichesUserAndStore(t *testing.T) {
	requests := newStubResetRepo()
	users := newStubResetUserRepo()
	storeID := uuid.New()
	user := &models.User{ID: uuid.New(), StoreID: storeID, Name: "Casey", Email: "casey@shop.test"}
	users.add(user)
	requests.requests[user.ID] = &models.PasswordResetRequest{
		ID:     uuid.New(),
		UserID: user.ID,
		Status: enums.ResetStatusPending,
	}
	stores := &stubStoreLookup{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Name: "corner shop"},
	}}

	svc := buildResetService(t, requests, users, stores)
	rows, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(rows))
	}
	if rows[0].UserName != "Casey" || rows[0].UserEmail != "casey@shop.test" {
		t.Fatalf("expected user enrichment, got %+v", rows[0])
	}
	if rows[0].StoreName != "corner shop" {
		t.Fatalf("expected store enrichment, got %q", rows[0].StoreName)
	}
}
