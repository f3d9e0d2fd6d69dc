package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Str0ng!pass"

type AuthServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memStore
	maker *token.JWTMaker
	svc   *AuthService
	now   time.Time
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	maker, err := token.NewJWTMaker("0123456789abcdef0123456789abcdef", "storefront")
	require.NoError(suite.T(), err)
	suite.maker = maker
	suite.svc = NewAuthService(suite.store, maker, AuthConfig{
		MaxFailedLogins: 5,
		LockoutDuration: 15 * time.Minute,
		TokenDuration:   time.Hour,
		BcryptCost:      bcrypt.MinCost,
	})
	suite.now = time.Now().UTC()
	suite.svc.now = func() time.Time { return suite.now }
}

func (suite *AuthServiceTestSuite) register(email string) *model.User {
	user, err := suite.svc.Register(suite.ctx, RegisterInput{
		Email:    email,
		Password: testPassword,
		FullName: "Ada Lovelace",
	})
	require.NoError(suite.T(), err)
	return user
}

func (suite *AuthServiceTestSuite) TestRegister() {
	user := suite.register("  Ada@Example.com ")
	require.Equal(suite.T(), "ada@example.com", user.Email)
	require.Equal(suite.T(), model.RoleCustomer, user.Role)
	require.True(suite.T(), user.IsActive)
	require.NotEqual(suite.T(), testPassword, user.PasswordHash)

	_, err := suite.svc.Register(suite.ctx, RegisterInput{Email: "ADA@example.com", Password: testPassword, FullName: "Other"})
	require.True(suite.T(), apperr.IsKind(err, apperr.Conflict))

	for _, pw := range []string{"short1!", "alllower1!", "ALLUPPER1!", "NoDigits!!", "NoSpecial11"} {
		_, err := suite.svc.Register(suite.ctx, RegisterInput{Email: "weak@example.com", Password: pw, FullName: "Weak"})
		require.True(suite.T(), apperr.IsKind(err, apperr.InvalidArgument), pw)
	}

	_, err = suite.svc.Register(suite.ctx, RegisterInput{Email: "not-an-email", Password: testPassword, FullName: "X"})
	require.True(suite.T(), apperr.IsKind(err, apperr.InvalidArgument))
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsOverlongFields() {
	cases := map[string]RegisterInput{
		"full name": {Email: "long1@example.com", Password: testPassword, FullName: strings.Repeat("名", model.MaxFullNameLength+1)},
		"phone":     {Email: "long2@example.com", Password: testPassword, FullName: "Ada", Phone: strings.Repeat("9", model.MaxPhoneLength+1)},
		"address":   {Email: "long3@example.com", Password: testPassword, FullName: "Ada", Address: strings.Repeat("a", model.MaxUserAddressLength+1)},
		"email":     {Email: strings.Repeat("a", model.MaxEmailLength) + "@example.com", Password: testPassword, FullName: "Ada"},
	}
	for name, in := range cases {
		_, err := suite.svc.Register(suite.ctx, in)
		require.True(suite.T(), apperr.IsKind(err, apperr.InvalidArgument), name)
	}

	// 以字元數計算, 100 個中文字剛好可以
	_, err := suite.svc.Register(suite.ctx, RegisterInput{
		Email:    "edge@example.com",
		Password: testPassword,
		FullName: strings.Repeat("名", model.MaxFullNameLength),
		Phone:    strings.Repeat("9", model.MaxPhoneLength),
	})
	require.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestLoginIssuesToken() {
	user := suite.register("ada@example.com")

	res, err := suite.svc.Login(suite.ctx, "ADA@example.com", testPassword, token.ScopeCustomer)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), user.UserID, res.User.UserID)
	require.NotNil(suite.T(), res.User.LastLoginAt)

	payload, err := suite.maker.VertifyToken(res.Token)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), user.UserID, payload.UserID)
	require.Equal(suite.T(), token.ScopeCustomer, payload.Scope)
	require.Equal(suite.T(), string(model.RoleCustomer), payload.Role)

	_, err = suite.svc.Login(suite.ctx, "ada@example.com", testPassword, token.ScopeAdmin)
	require.True(suite.T(), apperr.IsKind(err, apperr.Unauthorized))
}

func (suite *AuthServiceTestSuite) TestLoginUnknownAndWrongPassword() {
	suite.register("ada@example.com")

	_, err := suite.svc.Login(suite.ctx, "nobody@example.com", testPassword, token.ScopeCustomer)
	require.True(suite.T(), apperr.IsKind(err, apperr.Unauthenticated))
	require.Equal(suite.T(), "Invalid email or password.", apperr.MessageOf(err, ""))

	_, err = suite.svc.Login(suite.ctx, "ada@example.com", "Wrong!pass1", token.ScopeCustomer)
	require.True(suite.T(), apperr.IsKind(err, apperr.Unauthenticated))
	require.Equal(suite.T(), "Invalid email or password.", apperr.MessageOf(err, ""))
}

func (suite *AuthServiceTestSuite) TestLockoutAfterRepeatedFailures() {
	user := suite.register("ada@example.com")

	for i := 0; i < 5; i++ {
		_, err := suite.svc.Login(suite.ctx, "ada@example.com", "Wrong!pass1", token.ScopeCustomer)
		require.True(suite.T(), apperr.IsKind(err, apperr.Unauthenticated))
	}

	// 鎖定中, 即使密碼正確也不能登入
	suite.now = suite.now.Add(time.Second)
	_, err := suite.svc.Login(suite.ctx, "ada@example.com", testPassword, token.ScopeCustomer)
	require.True(suite.T(), apperr.IsKind(err, apperr.LockedOut))
	require.Equal(suite.T(), "Account is locked. Try again in 15 minutes.", apperr.MessageOf(err, ""))

	suite.now = suite.now.Add(10*time.Minute + 30*time.Second)
	_, err = suite.svc.Login(suite.ctx, "ada@example.com", testPassword, token.ScopeCustomer)
	require.Equal(suite.T(), "Account is locked. Try again in 5 minutes.", apperr.MessageOf(err, ""))

	suite.now = suite.now.Add(5 * time.Minute)
	res, err := suite.svc.Login(suite.ctx, "ada@example.com", testPassword, token.ScopeCustomer)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), user.UserID, res.User.UserID)

	stored, err := suite.svc.GetUser(suite.ctx, user.UserID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stored.FailedLoginAttempts)
	require.Nil(suite.T(), stored.LockoutEnd)
}

func (suite *AuthServiceTestSuite) TestChangePassword() {
	user := suite.register("ada@example.com")

	err := suite.svc.ChangePassword(suite.ctx, user.UserID, "Wrong!pass1", "N3w!password")
	require.True(suite.T(), apperr.IsKind(err, apperr.InvalidArgument))
	err = suite.svc.ChangePassword(suite.ctx, user.UserID, testPassword, "weak")
	require.True(suite.T(), apperr.IsKind(err, apperr.InvalidArgument))

	require.NoError(suite.T(), suite.svc.ChangePassword(suite.ctx, user.UserID, testPassword, "N3w!password"))
	_, err = suite.svc.Login(suite.ctx, "ada@example.com", "N3w!password", token.ScopeCustomer)
	require.NoError(suite.T(), err)

	err = suite.svc.ChangePassword(suite.ctx, 999, testPassword, "N3w!password")
	require.True(suite.T(), apperr.IsKind(err, apperr.NotFound))
}

func (suite *AuthServiceTestSuite) TestEnsureAdmin() {
	require.NoError(suite.T(), suite.svc.EnsureAdmin(suite.ctx, "Admin@Store.com", "Adm1n!pass", ""))
	require.NoError(suite.T(), suite.svc.EnsureAdmin(suite.ctx, "admin@store.com", "Adm1n!pass", ""))

	n, err := suite.store.CountUsersByRole(suite.ctx, model.RoleAdmin)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(1), n)

	res, err := suite.svc.Login(suite.ctx, "admin@store.com", "Adm1n!pass", token.ScopeAdmin)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), token.ScopeAdmin, res.Payload.Scope)
}

func TestValidatePasswordStrength(t *testing.T) {
	require.True(t, ValidatePasswordStrength("Abcdef1!"))
	require.False(t, ValidatePasswordStrength("Abcde1!"))
	require.False(t, ValidatePasswordStrength("Abcdefg1"))
}
