package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string    `gorm:"size:64" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:USER" json:"role"`
	Bio          string    `gorm:"size:500" json:"bio"`
	Image        string    `gorm:"size:500" json:"image"`
	BannerColor  string    `gorm:"size:32" json:"bannerColor"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Principal is the authenticated caller of a request. A nil *Principal means anonymous.
type Principal struct {
	ID   string
	Role Role
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
