package dto

import "time"

type RegisterDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"` //密碼明文
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserDTO 表示用戶資訊, 不含密碼與鎖定資訊
type UserDTO struct {
	UserID      int        `json:"user_id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse token 只放在 cookie, 不出現在 body
type LoginResponse struct {
	User      UserDTO   `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
