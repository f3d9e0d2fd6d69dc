package model

import "time"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

type User struct {
	UserID              int        `gorm:"primaryKey" json:"user_id"`
	Email               string     `gorm:"not null;type:varchar(100);uniqueIndex" json:"email"`
	PasswordHash        string     `gorm:"not null;type:varchar(255)" json:"-"`
	FullName            string     `gorm:"not null;type:varchar(100)" json:"full_name"`
	Phone               string     `gorm:"type:varchar(20)" json:"phone"`
	Address             string     `gorm:"type:varchar(500)" json:"address"`
	Role                Role       `gorm:"not null;type:varchar(20)" json:"role"`
	IsActive            bool       `gorm:"not null" json:"is_active"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockoutEnd          *time.Time `json:"-"`
	BaseModel
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// LockoutRemaining 剩餘鎖定時間, 未鎖定回傳 0
func (u *User) LockoutRemaining(now time.Time) time.Duration {
	if !u.IsLockedOut(now) {
		return 0
	}
	return u.LockoutEnd.Sub(now)
}
