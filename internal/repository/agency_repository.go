package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentify/internal/model"
	"rentify/internal/query"
)

// AgencyRepository defines agency persistence operations.
type AgencyRepository interface {
	Create(ctx context.Context, agency *model.Agency) error
	Update(ctx context.Context, agency *model.Agency) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Agency, error)
	List(ctx context.Context, opts *query.Options) ([]model.Agency, int64, error)
	DeleteWithBookings(ctx context.Context, id uuid.UUID) error
}

type agencyRepository struct {
	db *gorm.DB
}

// NewAgencyRepository creates a new agency repository.
func NewAgencyRepository(db *gorm.DB) AgencyRepository {
	return &agencyRepository{db: db}
}

// Create creates a new agency.
func (r *agencyRepository) Create(ctx context.Context, agency *model.Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

// Update saves an existing agency.
func (r *agencyRepository) Update(ctx context.Context, agency *model.Agency) error {
	return r.db.WithContext(ctx).Save(agency).Error
}

// FindByID finds an agency by ID with its bookings attached.
func (r *agencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Agency, error) {
	var agency model.Agency
	if err := r.db.WithContext(ctx).Preload("Bookings").
		Where("id = ?", id).First(&agency).Error; err != nil {
		return nil, err
	}
	return &agency, nil
}

// List returns the windowed agency page plus the total match count taken
// before windowing, so pagination descriptors stay consistent.
func (r *agencyRepository) List(ctx context.Context, opts *query.Options) ([]model.Agency, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Agency{}).
		Scopes(opts.Scope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var agencies []model.Agency
	if err := r.db.WithContext(ctx).
		Scopes(opts.Scope(), opts.Window()).
		Preload("Bookings").
		Find(&agencies).Error; err != nil {
		return nil, 0, err
	}
	return agencies, total, nil
}

// DeleteWithBookings removes the agency's bookings and the agency itself in
// one transaction, keeping referential integrity across a crash.
func (r *agencyRepository) DeleteWithBookings(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agency_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Agency{}).Error
	})
}
