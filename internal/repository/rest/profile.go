package rest

import (
	"context"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"
	"webshop-service/internal/repository"
)

type profileRepo struct {
	store infra.StoreClient
}

func NewProfileRepository(store infra.StoreClient) repository.ProfileRepository {
	return &profileRepo{store: store}
}

func (r *profileRepo) FindByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	q := filter("user_id", userID)
	q.Set("select", "*")
	q.Set("limit", "1")

	var out []domain.Profile
	if err := r.store.Select(ctx, tableProfiles, q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *profileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	row := profileRow{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		FullName:  p.FullName,
		Bio:       p.Bio,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
		UpdatedAt: time.Now().UTC(),
	}
	// date columns reject the empty string
	if p.DateOfBirth != "" {
		row.DateOfBirth = &p.DateOfBirth
	}

	var out []domain.Profile
	if err := r.store.Upsert(ctx, tableProfiles, row, "user_id", &out); err != nil {
		return err
	}
	if len(out) > 0 {
		*p = out[0]
	}
	return nil
}
