package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newFakeUserRepo(models.User{ID: 1, Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin})
	svc := NewAuthService(repo, validation.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "school-api",
	}, NewMetricsService())
	return svc, repo
}

func TestAuthServiceLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "Admin@Example.com", Password: "password", IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(1), resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionLogin, repo.audits[0].Action)
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
}

func TestAuthServiceRegister(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{Name: "New", Email: "New@Example.com", Password: "secret1"}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, resp.User.Role)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Len(t, repo.rows, 2)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Name: "Again", Email: "new@example.com", Password: "secret1"}, models.RequestMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "User already exists", appErr.Message)
}

func TestAuthServiceTokenExpired(t *testing.T) {
	svc, _ := newAuthFixture(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, _, err = svc.Authenticate(context.Background(), resp.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrTokenExpired)
	assert.Equal(t, "Token expired", appErrors.FromError(err).Message)
}

func TestAuthServiceTokenInvalid(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, _, err = svc.Authenticate(context.Background(), signed)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
	assert.Equal(t, "Invalid token", appErrors.FromError(err).Message)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)

	user, claims, err := svc.Authenticate(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	require.NoError(t, svc.Logout(context.Background(), claims, models.RequestMeta{}))
	assert.Contains(t, repo.revoked, claims.ID)

	_, _, err = svc.Authenticate(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestAuthServiceRefresh(t *testing.T) {
	svc, repo := newAuthFixture(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)
	user, claims, err := svc.Authenticate(context.Background(), resp.AccessToken)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), user, claims)
	require.NoError(t, err)
	assert.NotEqual(t, resp.AccessToken, refreshed.AccessToken)
	assert.Contains(t, repo.revoked, claims.ID)

	_, _, err = svc.Authenticate(context.Background(), refreshed.AccessToken)
	assert.NoError(t, err)
}

func TestAuthServiceDeletedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)

	delete(repo.rows, 1)
	_, _, err = svc.Authenticate(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}
