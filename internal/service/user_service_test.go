package service

import (
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUserService(t *testing.T, db *gorm.DB) (UserService, *model.Role) {
	role := model.Role{Code: model.RoleVendor, Name: "Vendor"}
	require.NoError(t, db.Create(&role).Error)
	return NewUserService(repository.NewUserRepo(db), repository.NewRoleRepo(db)), &role
}

func TestCreateUserAssignsRole(t *testing.T) {
	db := setupTestDB(t)
	svc, role := newTestUserService(t, db)

	user, err := svc.CreateUser(&CreateUserRequest{
		Email:    "new@test.local",
		Password: "secret123",
		FullName: "New User",
		RoleID:   role.ID,
	}, "creator")
	require.NoError(t, err)
	require.Equal(t, role.ID, *user.RoleID)
	require.True(t, user.IsActive)
	require.True(t, user.CheckPassword("secret123"))
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc, role := newTestUserService(t, db)

	req := CreateUserRequest{
		Email:    "dupe@test.local",
		Password: "secret123",
		FullName: "First",
		RoleID:   role.ID,
	}
	_, err := svc.CreateUser(&req, "creator")
	require.NoError(t, err)

	_, err = svc.CreateUser(&req, "creator")
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestUserService(t, db)

	_, err := svc.CreateUser(&CreateUserRequest{
		Email:    "norole@test.local",
		Password: "secret123",
		FullName: "No Role",
		RoleID:   999,
	}, "creator")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestUpdateUserCanDeactivate(t *testing.T) {
	db := setupTestDB(t)
	svc, role := newTestUserService(t, db)

	user, err := svc.CreateUser(&CreateUserRequest{
		Email:    "active@test.local",
		Password: "secret123",
		FullName: "Active User",
		RoleID:   role.ID,
	}, "creator")
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(user.ID, &UpdateUserRequest{
		Email:    user.Email,
		FullName: user.FullName,
		RoleID:   role.ID,
		IsActive: &inactive,
	}, "updater")
	require.NoError(t, err)
	require.False(t, updated.IsActive)
}
