package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user role in the system
type Role string

const (
	RoleDevotee Role = "devotee"
	RolePoojari Role = "poojari"
	RoleAdmin   Role = "admin"
)

// User represents an authenticated account. Credentials and OTP flows live
// with the identity provider; this table only carries what the booking core
// needs.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Phone        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'devotee';index" json:"role"`
	ProfileImage *string   `gorm:"type:text" json:"profile_image,omitempty"`
	IsActive     *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	PoojariProfile *PoojariProfile `gorm:"foreignKey:UserID" json:"poojari_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsPoojari checks if the user is a service provider
func (u *User) IsPoojari() bool {
	return u.Role == RolePoojari
}
