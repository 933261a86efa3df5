package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PoojariProfile represents provider-specific profile data. The rating and
// total_reviews pair is a denormalized aggregate maintained incrementally by
// the rating service; nothing else writes those two columns.
type PoojariProfile struct {
	UserID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"user_id"`
	Bio             string           `gorm:"type:text" json:"bio,omitempty"`
	ExperienceYears int              `gorm:"default:0" json:"experience_years"`
	Languages       StringList       `gorm:"type:jsonb" json:"languages"`
	Specializations StringList       `gorm:"type:jsonb" json:"specializations"`
	PricingPerHour  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"pricing_per_hour,omitempty"`
	Rating          float64          `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	TotalReviews    int              `gorm:"not null;default:0" json:"total_reviews"`
	TotalBookings   int              `gorm:"not null;default:0" json:"total_bookings"`
	IsVerified      bool             `gorm:"not null;default:false;index" json:"is_verified"`
	IsAvailable     bool             `gorm:"not null;default:true;index" json:"is_available"`
	Featured        bool             `gorm:"not null;default:false" json:"featured"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PoojariProfile) TableName() string {
	return "poojari_profiles"
}

// IsBookable checks if the provider can accept new bookings
func (p *PoojariProfile) IsBookable() bool {
	return p.IsAvailable && p.IsVerified
}
