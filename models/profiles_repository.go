package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pqUniqueViolation = "23505"

type ProfilesRepository struct {
	db *gorm.DB
}

func NewProfilesRepository(db *gorm.DB) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

func (r *ProfilesRepository) CreateProfile(ctx context.Context, profile *Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create profile: %w: %w", ErrTransport, err)
	}
	return nil
}

func (r *ProfilesRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProfilesRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *ProfilesRepository) first(ctx context.Context, cond string, arg string) (*Profile, error) {
	var profile Profile
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w: %w", ErrTransport, err)
	}
	return &profile, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
