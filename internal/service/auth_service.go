package service

import (
	"context"
	"errors"
	"math"
	"net/mail"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgAccountLocked      = "Account is locked. Try again in %d minutes."
	msgAccountDisabled    = "This account has been deactivated."
	msgWeakPassword       = "Password must be at least 8 characters with uppercase, lowercase, number, and special character."
	msgWeakNewPassword    = "New password must be at least 8 characters with uppercase, lowercase, number, and special character."
	msgEmailTaken         = "An account with this email already exists."
	msgUserNotFound       = "User not found."
	msgAdminRequired      = "Access denied. Admin privileges required."
)

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

type LoginResult struct {
	User    *model.User
	Token   string
	Payload *token.Payload
}

type AuthConfig struct {
	MaxFailedLogins int
	LockoutDuration time.Duration
	TokenDuration   time.Duration
	BcryptCost      int
}

func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		MaxFailedLogins: constants.DefaultMaxFailedLogins,
		LockoutDuration: constants.DefaultLockoutDuration,
		TokenDuration:   constants.DefaultTokenDuration,
		BcryptCost:      constants.BcryptCost,
	}
}

type IAuthService interface {
	// Register 建立一般會員
	//
	// 錯誤:
	//   - apperr.InvalidArgument: 欄位缺漏或密碼強度不足
	//   - apperr.Conflict: email 已被註冊
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 驗證帳密並簽發 token
	// 連續失敗達上限後鎖定一段時間, 成功登入會重置失敗次數
	//
	// 錯誤:
	//   - apperr.Unauthenticated: 帳號不存在或密碼錯誤
	//   - apperr.LockedOut: 帳號鎖定中
	//   - apperr.Unauthorized: scope 為 admin 但不是管理員, 或帳號停用
	Login(ctx context.Context, email, password string, scope token.Scope) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error
	GetUser(ctx context.Context, userID int) (*model.User, error)
	// EnsureAdmin 管理員不存在時建立, 已存在則略過
	EnsureAdmin(ctx context.Context, email, password, fullName string) error
}

type AuthService struct {
	store      db.IUserRepository
	tokenMaker token.Maker
	cfg        AuthConfig
	now        Clock
}

func NewAuthService(store db.IUserRepository, tokenMaker token.Maker, cfg AuthConfig) *AuthService {
	if store == nil || reflect.ValueOf(store).IsNil() {
		panic("auth service initialization failed: store cannot be nil")
	}
	if tokenMaker == nil || reflect.ValueOf(tokenMaker).IsNil() {
		panic("auth service initialization failed: tokenMaker cannot be nil")
	}
	def := DefaultAuthConfig()
	if cfg.MaxFailedLogins <= 0 {
		cfg.MaxFailedLogins = def.MaxFailedLogins
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.TokenDuration <= 0 {
		cfg.TokenDuration = def.TokenDuration
	}
	if cfg.BcryptCost < bcrypt.MinCost {
		cfg.BcryptCost = def.BcryptCost
	}
	return &AuthService{store: store, tokenMaker: tokenMaker, cfg: cfg, now: utcNow}
}

// ValidatePasswordStrength 至少 8 碼, 含大小寫, 數字與符號
func ValidatePasswordStrength(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)
	if email == "" || fullName == "" {
		return nil, apperr.New(apperr.InvalidArgument, "Email and full name are required.")
	}
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)
	switch {
	case model.ExceedsLength(email, model.MaxEmailLength):
		return nil, apperr.Newf(apperr.InvalidArgument, "Email cannot exceed %d characters.", model.MaxEmailLength)
	case model.ExceedsLength(fullName, model.MaxFullNameLength):
		return nil, apperr.Newf(apperr.InvalidArgument, "Full name cannot exceed %d characters.", model.MaxFullNameLength)
	case model.ExceedsLength(phone, model.MaxPhoneLength):
		return nil, apperr.Newf(apperr.InvalidArgument, "Phone cannot exceed %d characters.", model.MaxPhoneLength)
	case model.ExceedsLength(address, model.MaxUserAddressLength):
		return nil, apperr.Newf(apperr.InvalidArgument, "Address cannot exceed %d characters.", model.MaxUserAddressLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, "Invalid email format.", err)
	}
	if !ValidatePasswordStrength(in.Password) {
		return nil, apperr.New(apperr.InvalidArgument, msgWeakPassword)
	}

	if _, err := a.store.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.Conflict, msgEmailTaken)
	} else if !errors.Is(err, db.ErrUserNotFound) {
		return nil, persistErr("load user failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, msgWeakPassword, err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        phone,
		Address:      address,
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.Conflict, msgEmailTaken)
		}
		return nil, persistErr("create user failed", err)
	}
	log.Info().Int("user_id", user.UserID).Msg("user registered")
	return user, nil
}

func lockedOutError(remaining time.Duration) error {
	minutes := int(math.Floor(remaining.Minutes())) + 1
	return apperr.Newf(apperr.LockedOut, msgAccountLocked, minutes)
}

func (a *AuthService) Login(ctx context.Context, email, password string, scope token.Scope) (*LoginResult, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, apperr.New(apperr.Unauthenticated, msgInvalidCredentials)
		}
		return nil, persistErr("load user failed", err)
	}

	now := a.now()
	if user.IsLockedOut(now) {
		return nil, lockedOutError(user.LockoutRemaining(now))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= a.cfg.MaxFailedLogins {
			end := now.Add(a.cfg.LockoutDuration)
			user.LockoutEnd = &end
			log.Warn().Int("user_id", user.UserID).Int("attempts", user.FailedLoginAttempts).Msg("account locked")
		}
		if err := a.store.UpdateUser(ctx, user); err != nil {
			return nil, persistErr("record login attempt failed", err)
		}
		return nil, apperr.New(apperr.Unauthenticated, msgInvalidCredentials)
	}

	if !user.IsActive {
		return nil, apperr.New(apperr.Unauthorized, msgAccountDisabled)
	}
	if scope == token.ScopeAdmin && !user.IsAdmin() {
		return nil, apperr.New(apperr.Unauthorized, msgAdminRequired)
	}

	user.FailedLoginAttempts = 0
	user.LockoutEnd = nil
	user.LastLoginAt = &now
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return nil, persistErr("record login failed", err)
	}

	signed, payload, err := a.tokenMaker.CreateToken(user.UserID, user.Email, user.FullName, string(user.Role), scope, a.cfg.TokenDuration)
	if err != nil {
		return nil, persistErr("create token failed", err)
	}
	return &LoginResult{User: user, Token: signed, Payload: payload}, nil
}

func (a *AuthService) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperr.New(apperr.InvalidArgument, "Current password is incorrect.")
	}
	if !ValidatePasswordStrength(newPassword) {
		return apperr.New(apperr.InvalidArgument, msgWeakNewPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.cfg.BcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.InvalidArgument, msgWeakPassword, err)
	}
	user.PasswordHash = string(hash)
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return persistErr("update password failed", err)
	}
	return nil
}

func (a *AuthService) GetUser(ctx context.Context, userID int) (*model.User, error) {
	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, msgUserNotFound)
		}
		return nil, persistErr("load user failed", err)
	}
	return user, nil
}

func (a *AuthService) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	if _, err := a.store.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, db.ErrUserNotFound) {
		return persistErr("load user failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if fullName == "" {
		fullName = "Administrator"
	}
	admin := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := a.store.CreateUser(ctx, admin); err != nil && !errors.Is(err, db.ErrDuplicateEmail) {
		return persistErr("create admin failed", err)
	}
	log.Info().Str("email", email).Msg("admin account seeded")
	return nil
}

var _ IAuthService = (*AuthService)(nil)
