package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niseko/infras/otel/mocks"
	"niseko/infras/postgres"
	"niseko/internal/domains/user/repository"
)

func newRepo(t *testing.T) (repository.User, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return repository.New(postgres.NewFromDB(sqlx.NewDb(db, "postgres")), mocks.NewOtel()), mock
}

func TestUser_EmailTakenIgnoresCase(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("SELECT EXISTS(SELECT 1 FROM users WHERE (users.email = $1))").
		ExpectQuery().
		WithArgs("front@the1898niseko.jp").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.EmailTaken(context.Background(), "  Front@The1898Niseko.JP")

	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUser_GetByEmailUnknown(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("SELECT users.id, users.email, users.password, users.role, users.full_name, users.last_login, users.active, " +
		"users.created_at, users.modified_at, users.created_by, users.modified_by FROM users WHERE (users.email = $1)").
		ExpectQuery().
		WithArgs("nobody@the1898niseko.jp").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByEmail(context.Background(), "Nobody@the1898niseko.jp")

	require.NoError(t, err)
	assert.Empty(t, user.ID)
}
