package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/bcrypt"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewAuthAccountRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func seedMember(t *testing.T, db *gorm.DB, email, password string, mustChange bool) *models.User {
	t.Helper()

	hash, err := bcrypt.HashPassword(password)
	require.NoError(t, err)

	account := &models.AuthAccount{Email: email, PasswordHash: hash}
	require.NoError(t, db.Create(account).Error)

	user := &models.User{
		AccountID:          account.ID,
		Name:               "Tester",
		Email:              email,
		Roles:              []string{models.RoleMember},
		MustChangePassword: mustChange,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLogin_Succeeds(t *testing.T) {
	svc, db := newAuthFixture(t)
	seedMember(t, db, "ravi@example.com", "s3cret-pass", true)

	auth, err := svc.Login(models.LoginRequest{Email: " Ravi@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.True(t, auth.MustChangePassword)
	assert.Equal(t, "ravi@example.com", auth.User.Email)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, db := newAuthFixture(t)
	seedMember(t, db, "ravi@example.com", "s3cret-pass", false)

	_, errWrong := svc.Login(models.LoginRequest{Email: "ravi@example.com", Password: "nope"})
	_, errUnknown := svc.Login(models.LoginRequest{Email: "ghost@example.com", Password: "nope"})

	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(errWrong))
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(errUnknown))
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_OrphanedAccountIsForbidden(t *testing.T) {
	svc, db := newAuthFixture(t)

	hash, err := bcrypt.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AuthAccount{
		Email:        "orphan@example.com",
		PasswordHash: hash,
	}).Error)

	_, err = svc.Login(models.LoginRequest{Email: "orphan@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestChangePassword_ClearsMustChangeFlag(t *testing.T) {
	svc, db := newAuthFixture(t)
	user := seedMember(t, db, "ravi@example.com", "temp-password", true)

	err := svc.ChangePassword(user.AccountID, models.ChangePasswordRequest{
		CurrentPassword: "temp-password",
		NewPassword:     "my-real-password",
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.MustChangePassword)

	// The old credential stopped working, the new one works.
	_, err = svc.Login(models.LoginRequest{Email: "ravi@example.com", Password: "temp-password"})
	require.Error(t, err)
	auth, err := svc.Login(models.LoginRequest{Email: "ravi@example.com", Password: "my-real-password"})
	require.NoError(t, err)
	assert.False(t, auth.MustChangePassword)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	svc, db := newAuthFixture(t)
	user := seedMember(t, db, "ravi@example.com", "temp-password", false)

	err := svc.ChangePassword(user.AccountID, models.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "whatever-else",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}
