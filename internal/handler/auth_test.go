package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/middleware"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return NewAuthHandler(testConfig(), repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func TestRegisterValidation(t *testing.T) {
	h, mock := newAuthHandler(t)
	c, rec := newCtx(http.MethodPost, "/v1/auth/register", `{"name":" ","email":"nope","password":"123"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCreatesPassenger(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role)")).
		WithArgs("Sara Khan", "sara@example.com", sqlmock.AnyArg(), model.RolePassenger).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens (user_id, token_hash, expires_at)")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := newCtx(http.MethodPost, "/v1/auth/register",
		`{"name":"Sara Khan","email":" Sara@Example.com ","password":"secret1","role":"admin"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(5), user["id"])
	assert.Equal(t, "sara@example.com", user["email"])
	assert.Equal(t, "passenger", user["role"])

	access := body["access"].(map[string]any)["token"].(string)
	uid, role, err := middleware.ParseAccessToken(h.Cfg.JWTSecret, access)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), uid)
	assert.Equal(t, model.RolePassenger, role)
	assert.NotEmpty(t, body["refresh"].(map[string]any)["token"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	c, rec := newCtx(http.MethodPost, "/v1/auth/register",
		`{"name":"Sara","email":"sara@example.com","password":"secret1"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already exists", decode(t, rec)["error"])
}

func TestLoginUnknownEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newCtx(http.MethodPost, "/v1/auth/login", `{"email":"ghost@example.com","password":"whatever"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decode(t, rec)["error"])
}

func TestLoginMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := newCtx(http.MethodPost, "/v1/auth/login", `{"email":"a@b.c"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutWithBearerRevokesAll(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ?")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, 8, model.RolePassenger, 15)
	require.NoError(t, err)
	c, rec := newCtx(http.MethodPost, "/v1/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer "+tok.Token)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutWithoutCredentials(t *testing.T) {
	h, mock := newAuthHandler(t)
	c, rec := newCtx(http.MethodPost, "/v1/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer not-a-token")

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRequiresToken(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := newCtx(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"  "}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeUnauthenticated(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := newCtx(http.MethodGet, "/v1/me", "")
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
