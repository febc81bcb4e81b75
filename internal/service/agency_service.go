package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentify/internal/cache"
	"rentify/internal/errors"
	"rentify/internal/model"
	"rentify/internal/query"
	"rentify/internal/repository"
)

const agencyCacheTTL = 5 * time.Minute

// agencyQueryFields is the allow-list for the public list query grammar.
var agencyQueryFields = query.AllowFields("id", "name", "address", "phone", "created_at")

// AgencyInput carries the fields for creating an agency.
type AgencyInput struct {
	Name    string
	Address string
	Phone   string
}

// AgencyUpdate carries a partial agency update. Nil fields are left as-is.
type AgencyUpdate struct {
	Name    *string
	Address *string
	Phone   *string
}

// AgencyService handles agency operations.
type AgencyService interface {
	List(ctx context.Context, values url.Values) ([]model.Agency, query.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Agency, error)
	Create(ctx context.Context, input AgencyInput) (*model.Agency, error)
	Update(ctx context.Context, id uuid.UUID, input AgencyUpdate) (*model.Agency, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type agencyService struct {
	agencies repository.AgencyRepository
	cache    *cache.Client
}

// NewAgencyService creates a new agency service.
func NewAgencyService(agencies repository.AgencyRepository, cache *cache.Client) AgencyService {
	return &agencyService{
		agencies: agencies,
		cache:    cache,
	}
}

func (s *agencyService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("agency:%s", id.String())
}

// List translates the query string and returns the windowed page plus its
// pagination descriptor.
func (s *agencyService) List(ctx context.Context, values url.Values) ([]model.Agency, query.Pagination, error) {
	opts, err := query.Parse(values, agencyQueryFields)
	if err != nil {
		return nil, query.Pagination{}, err
	}

	agencies, total, err := s.agencies.List(ctx, opts)
	if err != nil {
		return nil, query.Pagination{}, errors.Unavailable("Cannot get agencies")
	}
	return agencies, opts.Paginate(total), nil
}

// Get retrieves an agency by ID with caching.
func (s *agencyService) Get(ctx context.Context, id uuid.UUID) (*model.Agency, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Agency
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	agency, err := s.agencies.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("No agency with id %s", id)
		}
		return nil, errors.Unavailable("Cannot get agency")
	}

	if payload, err := json.Marshal(agency); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, agencyCacheTTL)
	}
	return agency, nil
}

// Create creates a new agency.
func (s *agencyService) Create(ctx context.Context, input AgencyInput) (*model.Agency, error) {
	agency := &model.Agency{
		ID:      uuid.New(),
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
	}
	if err := s.agencies.Create(ctx, agency); err != nil {
		return nil, errors.Validation("Cannot create agency")
	}
	return agency, nil
}

// Update applies a partial field update and revalidates nothing beyond the
// request binding; absent fields keep their stored values.
func (s *agencyService) Update(ctx context.Context, id uuid.UUID, input AgencyUpdate) (*model.Agency, error) {
	agency, err := s.agencies.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("No agency with id %s", id)
		}
		return nil, errors.Unavailable("Cannot update agency")
	}

	if input.Name != nil {
		agency.Name = *input.Name
	}
	if input.Address != nil {
		agency.Address = *input.Address
	}
	if input.Phone != nil {
		agency.Phone = *input.Phone
	}

	if err := s.agencies.Update(ctx, agency); err != nil {
		return nil, errors.Unavailable("Cannot update agency")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return agency, nil
}

// Delete removes the agency and cascades to its bookings in one transaction.
func (s *agencyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.agencies.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NotFound("Agency not found with id %s", id)
		}
		return errors.Unavailable("Cannot delete agency")
	}

	if err := s.agencies.DeleteWithBookings(ctx, id); err != nil {
		return errors.Unavailable("Cannot delete agency")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
