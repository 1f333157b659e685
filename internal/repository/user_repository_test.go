package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

func TestToggleRoleOnSelfIsForbidden(t *testing.T) {
	db, mock := newMock(t)
	_, err := NewUserRepo(db).ToggleRole(context.Background(), 7, 7)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleRoleFlipsRole(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id=?")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(4, "Ana", "ana@example.com", "x", "passenger", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role=? WHERE id=?")).
		WithArgs(model.RoleAdmin, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	role, err := NewUserRepo(db).ToggleRole(context.Background(), 4, 7)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
