package repository

import (
	"divineconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindActivePoojari(db *gorm.DB, id uuid.UUID) (*entity.User, error)
}
