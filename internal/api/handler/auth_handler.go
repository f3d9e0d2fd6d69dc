package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

const msgPasswordMismatch = "Passwords do not match."

type AuthHandler struct {
	authService  service.IAuthService
	cookieSecure bool
}

func NewAuthHandler(authService service.IAuthService, cookieSecure bool) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

func cookieNameOf(scope token.Scope) string {
	if scope == token.ScopeAdmin {
		return constants.AdminCookieName
	}
	return constants.CustomerCookieName
}

func (a *AuthHandler) setTokenCookie(w http.ResponseWriter, scope token.Scope, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieNameOf(scope),
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *AuthHandler) clearTokenCookie(w http.ResponseWriter, scope token.Scope) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieNameOf(scope),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// @Summary register
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterDTO true "register info"
// @Success 201 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 400 {object} api.ResponseError "InvalidArgument"
// @Failure 409 {object} api.ResponseError "Conflict"
// @Router /auth/register [post]
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Password != req.ConfirmPassword {
		api.BadRequest(w, msgPasswordMismatch)
		return
	}

	ctx := r.Context()
	user, err := a.authService.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	// 註冊成功直接登入
	res, err := a.authService.Login(ctx, user.Email, req.Password, token.ScopeCustomer)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	a.setTokenCookie(w, token.ScopeCustomer, res.Token, res.Payload.ExpiresAt.Time)
	api.CreatedJSON(w, dto.LoginResponse{
		User:      convertUserModelToDTO(res.User),
		ExpiresAt: res.Payload.ExpiresAt.Time,
	}, "Registration successful! Welcome to the store.")
}

// @Summary customer login
// @Tags auth
// @Accept json
// @Produce json
// @Param accountInfo body dto.LoginDTO true "email and password"
// @Success 200 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 401 {object} api.ResponseError "Unauthenticated"
// @Failure 423 {object} api.ResponseError "LockedOut"
// @Router /auth/login [post]
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, token.ScopeCustomer)
}

// @Summary admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param accountInfo body dto.LoginDTO true "email and password"
// @Success 200 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 401 {object} api.ResponseError "Unauthenticated"
// @Failure 403 {object} api.ResponseError "Unauthorized"
// @Failure 423 {object} api.ResponseError "LockedOut"
// @Router /admin/auth/login [post]
func (a *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, token.ScopeAdmin)
}

func (a *AuthHandler) login(w http.ResponseWriter, r *http.Request, scope token.Scope) {
	var req dto.LoginDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		api.BadRequest(w, "Email and password are required.")
		return
	}

	res, err := a.authService.Login(r.Context(), email, req.Password, scope)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	a.setTokenCookie(w, scope, res.Token, res.Payload.ExpiresAt.Time)
	api.SuccessJSON(w, dto.LoginResponse{
		User:      convertUserModelToDTO(res.User),
		ExpiresAt: res.Payload.ExpiresAt.Time,
	}, "Login successful.")
}

// @Summary customer logout
// @Tags auth
// @Success 200 {object} api.Response "success"
// @Router /auth/logout [post]
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	a.clearTokenCookie(w, token.ScopeCustomer)
	api.SuccessJSON(w, nil, "You have been logged out.")
}

// @Summary admin logout
// @Tags admin
// @Success 200 {object} api.Response "success"
// @Router /admin/auth/logout [post]
func (a *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	a.clearTokenCookie(w, token.ScopeAdmin)
	api.SuccessJSON(w, nil, "You have been logged out.")
}

// @Summary get login user info
// @Tags auth
// @Produce json
// @Success 200 {object} api.Response{data=dto.UserDTO} "success"
// @Failure 401 {object} api.ResponseError "Unauthenticated"
// @Router /me [get]
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.authService.GetUser(r.Context(), currentUserID(r))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertUserModelToDTO(user), "")
}

// @Summary change password
// @Tags auth
// @Accept json
// @Produce json
// @Param passwords body dto.ChangePasswordDTO true "current and new password"
// @Success 200 {object} api.Response "success"
// @Failure 400 {object} api.ResponseError "InvalidArgument"
// @Router /me/password [post]
func (a *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		api.BadRequest(w, msgPasswordMismatch)
		return
	}
	if err := a.authService.ChangePassword(r.Context(), currentUserID(r), req.CurrentPassword, req.NewPassword); err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, nil, "Password changed successfully.")
}
