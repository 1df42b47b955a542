package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

var (
	testClient  = models.User{ID: 1, Name: "Client", Email: "client@example.com", Role: models.RoleClient}
	testManager = models.User{ID: 2, Name: "Manager", Email: "manager@example.com", Role: models.RoleManager}
	testAdmin   = models.User{ID: 3, Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
)

func newUserFixture() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo(testClient, testManager, testAdmin)
	return NewUserService(repo, validation.New(), zap.NewNop()), repo
}

func TestUserServiceCreateByClient(t *testing.T) {
	svc, repo := newUserFixture()
	actor := testClient
	meta := models.RequestMeta{IP: "10.0.0.1", UserAgent: "test"}

	_, err := svc.Create(context.Background(), &actor, CreateUserRequest{Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: "admin"}, meta)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	assert.Len(t, repo.rows, 3)

	user, err := svc.Create(context.Background(), &actor, CreateUserRequest{Name: "Bob", Email: "Bob@Example.com", Password: "secret1", Role: "client"}, meta)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.audits[0].Action)
	assert.Equal(t, "10.0.0.1", repo.audits[0].IPAddress)
	require.NotNil(t, repo.audits[0].UserID)
	assert.Equal(t, actor.ID, *repo.audits[0].UserID)
}

func TestUserServiceCreateInvalidPayload(t *testing.T) {
	svc, _ := newUserFixture()
	actor := testAdmin

	_, err := svc.Create(context.Background(), &actor, CreateUserRequest{Name: "Bob", Email: "bob", Password: "123", Role: "owner"}, models.RequestMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
	assert.Contains(t, appErr.Fields, "role")

	_, err = svc.Create(context.Background(), &actor, CreateUserRequest{Name: "Dup", Email: "CLIENT@example.com", Password: "secret1", Role: "client"}, models.RequestMeta{})
	require.Error(t, err)
	appErr = appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, []string{"The email has already been taken."}, appErr.Fields["email"])
}

func TestUserServiceGet(t *testing.T) {
	svc, _ := newUserFixture()
	client := testClient

	user, err := svc.Get(context.Background(), &client, client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.Email, user.Email)

	_, err = svc.Get(context.Background(), &client, testManager.ID)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	_, err = svc.Get(context.Background(), &client, 999)
	require.Error(t, err)
	assert.Equal(t, "User not found", appErrors.FromError(err).Message)
}

func TestUserServiceList(t *testing.T) {
	svc, _ := newUserFixture()
	client, manager := testClient, testManager

	_, _, err := svc.List(context.Background(), &client, models.ListQuery{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	users, pagination, err := svc.List(context.Background(), &manager, models.ListQuery{Page: 1, PerPage: 2, Paginated: true})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, pagination.TotalPages)
}

func TestUserServiceUpdate(t *testing.T) {
	svc, repo := newUserFixture()
	client, admin := testClient, testAdmin

	_, err := svc.Update(context.Background(), &client, client.ID, UpdateUserRequest{Role: ptr("admin")}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "You are not authorized to update user roles.", appErrors.FromError(err).Message)

	updated, err := svc.Update(context.Background(), &client, client.ID, UpdateUserRequest{Name: ptr("Renamed"), Password: ptr("newsecret")}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.rows[client.ID].PasswordHash), []byte("newsecret")))

	updated, err = svc.Update(context.Background(), &admin, client.ID, UpdateUserRequest{Role: ptr("manager")}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, updated.Role)

	_, err = svc.Update(context.Background(), &admin, client.ID, UpdateUserRequest{Email: ptr("admin@example.com")}, models.RequestMeta{})
	assert.Contains(t, appErrors.FromError(err).Fields, "email")
}

func TestUserServiceDelete(t *testing.T) {
	svc, repo := newUserFixture()
	client, manager, admin := testClient, testManager, testAdmin

	err := svc.Delete(context.Background(), &manager, admin.ID, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	err = svc.Delete(context.Background(), &admin, admin.ID, models.RequestMeta{})
	assert.Equal(t, "Admin users cannot be deleted for security reasons.", appErrors.FromError(err).Message)

	err = svc.Delete(context.Background(), &client, manager.ID, models.RequestMeta{})
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	require.NoError(t, svc.Delete(context.Background(), &manager, client.ID, models.RequestMeta{}))
	assert.Equal(t, []int64{client.ID}, repo.deleted)
	assert.Equal(t, models.AuditActionUserDelete, repo.audits[len(repo.audits)-1].Action)

	err = svc.Delete(context.Background(), &admin, 999, models.RequestMeta{})
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestUserServiceDeleteByClientOfMissingUser(t *testing.T) {
	svc, repo := newUserFixture()
	client := testClient

	err := svc.Delete(context.Background(), &client, 9999, models.RequestMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.Equal(t, "You are not authorized to delete users.", appErr.Message)
	assert.Empty(t, repo.deleted)
}
