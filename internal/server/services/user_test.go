package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/dbx"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	users.Repository

	byID  map[string]*models.User
	byKey map[string]*models.User

	createCalls int
	lastInfo    [3]string
}

func (f *fakeUsersRepo) CreateIfAbsent(ctx context.Context, user *models.User) error {
	f.createCalls++
	if _, ok := f.byID[user.UserID]; !ok {
		f.byID[user.UserID] = &models.User{UserID: user.UserID}
	}
	return nil
}

func (f *fakeUsersRepo) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	u, ok := f.byKey[apiKey]
	if !ok {
		return nil, fmt.Errorf("db error: %w", common.ErrorNotFound)
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdateInfo(ctx context.Context, userID string, name, email string) error {
	f.lastInfo = [3]string{userID, name, email}
	return nil
}

func (f *fakeUsersRepo) UpdateAPIKey(ctx context.Context, userID string, apiKey string) error {
	u, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("db error: %w", common.ErrorNotFound)
	}
	u.APIKey = apiKey
	return nil
}

type fakeUserRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
}

func (m *fakeUserRepoManager) Users(db dbx.DBTX) users.Repository { return m.u }

func newUserService(t *testing.T, repo *fakeUsersRepo) (*UserService, *sql.DB) {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewUserService(db, &fakeUserRepoManager{u: repo}, testLogger()), db
}

func TestUserService_AddUser(t *testing.T) {
	repo := &fakeUsersRepo{byID: map[string]*models.User{}}
	svc, _ := newUserService(t, repo)

	if err := svc.AddUser(context.Background(), "github|alice"); err != nil {
		t.Fatalf("AddUser error: %v", err)
	}
	if _, ok := repo.byID["github|alice"]; !ok {
		t.Fatalf("user not registered")
	}

	// re-registering the same user is a no-op, not an error
	if err := svc.AddUser(context.Background(), "github|alice"); err != nil {
		t.Fatalf("AddUser error on repeat: %v", err)
	}
}

func TestUserService_ResetAPIKey(t *testing.T) {
	repo := &fakeUsersRepo{byID: map[string]*models.User{}}
	svc, _ := newUserService(t, repo)

	key, err := svc.ResetAPIKey(context.Background(), "github|alice")
	if err != nil {
		t.Fatalf("ResetAPIKey error: %v", err)
	}
	if !regexp.MustCompile(`^[0-9A-Za-z]{32}$`).MatchString(key) {
		t.Fatalf("key %q is not 32 alphanumeric characters", key)
	}
	if repo.byID["github|alice"].APIKey != key {
		t.Fatalf("stored key does not match returned key")
	}

	// resetting mints a fresh key and invalidates the old one
	next, err := svc.ResetAPIKey(context.Background(), "github|alice")
	if err != nil {
		t.Fatalf("ResetAPIKey error: %v", err)
	}
	if next == key {
		t.Fatalf("reset returned the same key")
	}
	if repo.byID["github|alice"].APIKey != next {
		t.Fatalf("stored key not rotated")
	}
}

func TestUserService_ResetAPIKeyRegistersUnknownUser(t *testing.T) {
	repo := &fakeUsersRepo{byID: map[string]*models.User{}}
	svc, _ := newUserService(t, repo)

	if _, err := svc.ResetAPIKey(context.Background(), "github|new"); err != nil {
		t.Fatalf("ResetAPIKey error: %v", err)
	}
	if repo.createCalls == 0 {
		t.Fatalf("user was not registered before the key update")
	}
}

func TestUserService_SetUserInfo(t *testing.T) {
	repo := &fakeUsersRepo{byID: map[string]*models.User{}}
	svc, _ := newUserService(t, repo)

	if err := svc.SetUserInfo(context.Background(), "github|alice", "Alice", "alice@example.org"); err != nil {
		t.Fatalf("SetUserInfo error: %v", err)
	}
	if repo.lastInfo != [3]string{"github|alice", "Alice", "alice@example.org"} {
		t.Fatalf("unexpected update: %v", repo.lastInfo)
	}
}

func TestUserService_UserIDForAPIKey(t *testing.T) {
	repo := &fakeUsersRepo{byKey: map[string]*models.User{
		"k3y": {UserID: "github|alice", APIKey: "k3y"},
	}}
	svc, _ := newUserService(t, repo)

	userID, err := svc.UserIDForAPIKey(context.Background(), "k3y")
	if err != nil {
		t.Fatalf("UserIDForAPIKey error: %v", err)
	}
	if userID != "github|alice" {
		t.Fatalf("resolved to %q", userID)
	}

	_, err = svc.UserIDForAPIKey(context.Background(), "unknown")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
