package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentify/internal/errors"
	"rentify/internal/model"
	"rentify/internal/repository"
)

// maxBookings is the quota of concurrently held bookings per non-admin
// account.
const maxBookings = 3

// BookingInput carries the fields for creating a booking.
type BookingInput struct {
	StartDate time.Time
	EndDate   time.Time
}

// BookingUpdate carries a partial booking update. Nil fields are left as-is.
type BookingUpdate struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// BookingService applies ownership and quota rules on top of the repository.
type BookingService interface {
	List(ctx context.Context, caller *model.Account, agencyID uuid.UUID) ([]model.Booking, error)
	Get(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Booking, error)
	Create(ctx context.Context, caller *model.Account, agencyID uuid.UUID, input BookingInput) (*model.Booking, error)
	Update(ctx context.Context, caller *model.Account, id uuid.UUID, input BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error
}

type bookingService struct {
	bookings repository.BookingRepository
	agencies repository.AgencyRepository
}

// NewBookingService creates a new booking service.
func NewBookingService(bookings repository.BookingRepository, agencies repository.AgencyRepository) BookingService {
	return &bookingService{
		bookings: bookings,
		agencies: agencies,
	}
}

// List returns the caller's own bookings, or for admins every booking,
// optionally scoped to one agency.
func (s *bookingService) List(ctx context.Context, caller *model.Account, agencyID uuid.UUID) ([]model.Booking, error) {
	var (
		bookings []model.Booking
		err      error
	)
	switch {
	case !caller.IsAdmin():
		bookings, err = s.bookings.ListByAccount(ctx, caller.ID)
	case agencyID != uuid.Nil:
		bookings, err = s.bookings.ListByAgency(ctx, agencyID)
	default:
		bookings, err = s.bookings.ListAll(ctx)
	}
	if err != nil {
		return nil, errors.Unavailable("Cannot find bookings")
	}
	return bookings, nil
}

// Get retrieves one booking. Existence is checked first, then ownership: a
// non-owner gets 401 even though the id was disclosed as present.
func (s *bookingService) Get(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !booking.OwnedBy(caller.ID) {
		return nil, errors.Auth("Account %s is not authorized to view this booking", caller.ID)
	}
	return booking, nil
}

// Create books the agency for the caller. The agency must exist, the date
// range must be ordered, and non-admin callers are held to the quota by a
// conditional insert.
func (s *bookingService) Create(ctx context.Context, caller *model.Account, agencyID uuid.UUID, input BookingInput) (*model.Booking, error) {
	if _, err := s.agencies.FindByID(ctx, agencyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("No agency with the id of %s", agencyID)
		}
		return nil, errors.Unavailable("Cannot create booking")
	}

	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:        uuid.New(),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		AccountID: caller.ID,
		AgencyID:  agencyID,
	}

	if caller.IsAdmin() {
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, errors.Unavailable("Cannot create booking")
		}
		return booking, nil
	}

	if err := s.bookings.CreateWithQuota(ctx, booking, maxBookings); err != nil {
		if err == repository.ErrQuotaExceeded {
			return nil, errors.Validation("Account %s already has %d bookings", caller.ID, maxBookings)
		}
		return nil, errors.Unavailable("Cannot create booking")
	}
	return booking, nil
}

// Update applies a partial date update after the ownership check and
// revalidates the resulting range.
func (s *bookingService) Update(ctx context.Context, caller *model.Account, id uuid.UUID, input BookingUpdate) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !booking.OwnedBy(caller.ID) {
		return nil, errors.Auth("Account %s is not authorized to update this booking", caller.ID)
	}

	if input.StartDate != nil {
		booking.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		booking.EndDate = *input.EndDate
	}
	if err := validateDates(booking.StartDate, booking.EndDate); err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, errors.Unavailable("Cannot update booking")
	}
	return booking, nil
}

// Delete removes a booking after the ownership check.
func (s *bookingService) Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error {
	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && !booking.OwnedBy(caller.ID) {
		return errors.Auth("Account %s is not authorized to delete this booking", caller.ID)
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return errors.Unavailable("Cannot delete booking")
	}
	return nil
}

func (s *bookingService) load(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("No booking with the id of %s", id)
		}
		return nil, errors.Unavailable("Cannot find booking")
	}
	return booking, nil
}

func validateDates(start, end time.Time) error {
	if end.Before(start) {
		return errors.Validation("Start date must not be after end date")
	}
	return nil
}
