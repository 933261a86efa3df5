package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review represents one rating of a completed booking by its devotee.
// At most one review exists per (user, booking).
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_user_booking" json:"user_id"`
	PoojariID uuid.UUID `gorm:"type:uuid;not null;index" json:"poojari_id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_user_booking" json:"booking_id"`

	Rating         int    `gorm:"not null;index" json:"rating"`
	Comment        string `gorm:"type:text" json:"comment,omitempty"`
	ServiceQuality *int   `json:"service_quality,omitempty"`
	Punctuality    *int   `json:"punctuality,omitempty"`
	Communication  *int   `json:"communication,omitempty"`
	WouldRecommend bool   `gorm:"not null;default:true" json:"would_recommend"`
	IsVerified     bool   `gorm:"not null;default:false" json:"is_verified"`
	HelpfulCount   int    `gorm:"not null;default:0" json:"helpful_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Poojari *User    `gorm:"foreignKey:PoojariID" json:"poojari,omitempty"`
	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
