package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentify/internal/model"
)

// ErrQuotaExceeded is returned when a conditional insert finds the account
// already at its booking quota.
var ErrQuotaExceeded = errors.New("booking quota exceeded")

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	CreateWithQuota(ctx context.Context, booking *model.Booking, max int) error
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Booking, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// withAgency mirrors the list shape clients expect: each booking carries a
// trimmed view of its agency.
func withAgency(db *gorm.DB) *gorm.DB {
	return db.Preload("Agency", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "address", "phone")
	})
}

// Create inserts a booking without a quota check. Admin path only.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// CreateWithQuota inserts the booking only while the account holds fewer than
// max bookings. The count guard and the insert run as a single conditional
// statement inside a transaction, so concurrent submissions cannot race past
// the quota.
func (r *bookingRepository) CreateWithQuota(ctx context.Context, booking *model.Booking, max int) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO bookings (id, start_date, end_date, account_id, agency_id, created_at)
			 SELECT ?, ?, ?, ?, ?, ?
			 WHERE (SELECT COUNT(*) FROM bookings WHERE account_id = ?) < ?`,
			booking.ID, booking.StartDate, booking.EndDate,
			booking.AccountID, booking.AgencyID, booking.CreatedAt,
			booking.AccountID, max,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuotaExceeded
		}
		return nil
	})
}

// Update saves an existing booking.
func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// Delete removes a booking by ID.
func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Booking{}).Error
}

// FindByID finds a booking by ID with its agency attached.
func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := withAgency(r.db.WithContext(ctx)).
		Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByAccount lists the bookings held by one account.
func (r *bookingRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := withAgency(r.db.WithContext(ctx)).
		Where("account_id = ?", accountID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByAgency lists the bookings referencing one agency.
func (r *bookingRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := withAgency(r.db.WithContext(ctx)).
		Where("agency_id = ?", agencyID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAll lists every booking.
func (r *bookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := withAgency(r.db.WithContext(ctx)).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountByAccount counts the bookings held by one account.
func (r *bookingRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}
