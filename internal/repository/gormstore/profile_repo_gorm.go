package gormstore

import (
	"context"
	"errors"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) FindByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "full_name", "bio", "phone", "date_of_birth", "avatar_url", "updated_at",
		}),
	}).Create(profile).Error
}
