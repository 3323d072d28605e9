package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "name", "email", "api_key", "created_at"}).
		AddRow(u.UserID, u.Name, u.Email, u.APIKey, time.Now())
}

func TestCreateIfAbsent_InsertsOrIgnores(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users`).
		WithArgs("github|alice", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateIfAbsent(context.Background(), &models.User{UserID: "github|alice"})
	if err != nil {
		t.Fatalf("CreateIfAbsent error: %v", err)
	}

	// conflict path: zero rows affected is still success
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users`).
		WithArgs("github|alice", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.CreateIfAbsent(context.Background(), &models.User{UserID: "github|alice"})
	if err != nil {
		t.Fatalf("CreateIfAbsent conflict error: %v", err)
	}
}

func TestGetByAPIKey_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := &models.User{UserID: "github|alice", APIKey: "k123"}
	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+api_key\s*=\s*\$1`).
		WithArgs("k123").
		WillReturnRows(userRows(u))

	got, err := repo.GetByAPIKey(context.Background(), "k123")
	if err != nil {
		t.Fatalf("GetByAPIKey error: %v", err)
	}
	if got.UserID != "github|alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByAPIKey_EmptyKeyNeverMatches(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.GetByAPIKey(context.Background(), "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByUserID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateAPIKey_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+api_key`).
		WithArgs("github|alice", "newkey").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateAPIKey(context.Background(), "github|alice", "newkey"); err != nil {
		t.Fatalf("UpdateAPIKey error: %v", err)
	}
}

func TestUpdateInfo_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+name`).
		WithArgs("ghost", "n", "e").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateInfo(context.Background(), "ghost", "n", "e")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
