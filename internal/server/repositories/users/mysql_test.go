package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*MySQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewMySQLRepository(db), mock, db
}

func strPtr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\b.*VALUES\s*\(\?,\s*\?,\s*\?,\s*\?,\s*\?\)\s*$`

	mock.ExpectExec(q).
		WithArgs("alice@example.com", "hash", "Alice", "user", true).
		WillReturnResult(sqlmock.NewResult(42, 1))

	u, err := repo.Create(context.Background(), &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		DisplayName:  strPtr("Alice"),
		Role:         "user",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UserID != 42 {
		t.Fatalf("want user_id 42, got %d", u.UserID)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users\b`).
		WithArgs("alice@example.com", "hash", nil, "user", true).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Create(context.Background(), &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         "user",
		IsActive:     true,
	})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func userRows(lastLogin any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "email", "password_hash", "display_name", "role", "is_active", "last_login", "created_at",
	}).AddRow(int64(7), "alice@example.com", "hash", "Alice", "user", true, lastLogin, time.Now())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+user_id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\?\s*$`

	mock.ExpectQuery(q).
		WithArgs("alice@example.com").
		WillReturnRows(userRows(nil))

	u, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UserID != 7 || u.Email != "alice@example.com" || u.LastLogin != nil {
		t.Fatalf("unexpected row: %+v", u)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+user_id,.*WHERE\s+email\s*=\s*\?\s*$`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	lastLogin := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`(?s)^SELECT\s+user_id,.*WHERE\s+user_id\s*=\s*\?\s*$`).
		WithArgs(int64(7)).
		WillReturnRows(userRows(lastLogin))

	u, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.LastLogin == nil || !u.LastLogin.Equal(lastLogin) {
		t.Fatalf("unexpected last_login: %v", u.LastLogin)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"user_id", "email", "password_hash", "display_name", "role", "is_active", "last_login", "created_at",
	}).
		AddRow(int64(2), "b@example.com", "h2", nil, "admin", true, nil, time.Now()).
		AddRow(int64(1), "a@example.com", "h1", "A", "user", false, nil, time.Now())

	mock.ExpectQuery(`(?s)^SELECT\s+user_id,.*ORDER\s+BY\s+created_at\s+DESC\s*$`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].UserID != 2 || got[1].Email != "a@example.com" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+display_name\s*=\s*\?,\s*is_active\s*=\s*\?\s+WHERE\s+user_id\s*=\s*\?\s*$`

	active := false
	mock.ExpectExec(q).
		WithArgs("New Name", false, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 7, &UserUpdate{
		DisplayName: strPtr("New Name"),
		IsActive:    &active,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdate_NoFields(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	err := repo.Update(context.Background(), 7, &UserUpdate{})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want common.ErrorValidation, got %v", err)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+role\s*=\s*\?\s+WHERE\s+user_id\s*=\s*\?\s*$`).
		WithArgs("admin", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 99, &UserUpdate{Role: strPtr("admin")})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\?\s+WHERE\s+user_id\s*=\s*\?\s*$`).
		WithArgs("newhash", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), 7, "newhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateLastLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+last_login\s*=\s*NOW\(\)\s+WHERE\s+user_id\s*=\s*\?\s*$`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLastLogin(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+users\s+WHERE\s+user_id\s*=\s*\?\s*$`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
