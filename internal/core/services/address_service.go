package services

import (
	"context"
	"errors"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/adapters/persistence/repositories"
	"rentaguard/internal/core/domain"

	"gorm.io/gorm"
)

// AddressService owns the addresses table. Other services link to
// addresses by id only.
type AddressService struct {
	addressRepo repositories.AddressRepository
}

// NewAddressService creates a new address service
func NewAddressService(addressRepo repositories.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// CreateAddress inserts a new address record
func (s *AddressService) CreateAddress(ctx context.Context, input *AddressInput) (*models.Address, error) {
	address := &models.Address{}
	applyAddressInput(address, input)
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress overwrites an existing address record in place
func (s *AddressService) UpdateAddress(ctx context.Context, id string, input *AddressInput) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	applyAddressInput(address, input)
	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// GetByID gets an address by id
func (s *AddressService) GetByID(ctx context.Context, id string) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return address, nil
}

func applyAddressInput(address *models.Address, input *AddressInput) {
	address.Street = input.Street
	address.ExteriorNo = input.ExteriorNo
	address.InteriorNo = input.InteriorNo
	address.Neighborhood = input.Neighborhood
	address.City = input.City
	address.State = input.State
	address.ZipCode = input.ZipCode
	if input.Country != "" {
		address.Country = input.Country
	} else if address.Country == "" {
		address.Country = "MX"
	}
}
