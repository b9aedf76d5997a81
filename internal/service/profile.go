package service

import (
	"context"
	"encoding/json"
	"strings"

	"giventake/pkg/types"
)

// ProfileService reads and writes the address and image columns of donor
// and organization rows.
type ProfileService struct {
	donors DonorRepository
	orgs   OrganizationRepository
}

func NewProfileService(donors DonorRepository, orgs OrganizationRepository) *ProfileService {
	return &ProfileService{donors: donors, orgs: orgs}
}

func invalidContext() error {
	return types.NewValidationError("Invalid context. Must be 'donor' or 'organization'")
}

// Address returns the stored address JSON unchanged.
func (s *ProfileService) Address(ctx context.Context, userID string, kind types.UserType) (json.RawMessage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, types.NewValidationError("id is required")
	}

	var address json.RawMessage
	switch kind {
	case types.UserTypeDonor:
		donor, err := s.donors.Donor(ctx, userID)
		if err != nil {
			return nil, types.Persistence("Failed to fetch address", err)
		}
		address = donor.Address
	case types.UserTypeOrganization:
		org, err := s.orgs.Organization(ctx, userID)
		if err != nil {
			return nil, types.Persistence("Failed to fetch address", err)
		}
		address = org.Address
	default:
		return nil, invalidContext()
	}

	if len(address) == 0 || string(address) == "null" {
		return nil, types.NewError(types.ErrNotFound, "Address not found")
	}

	return address, nil
}

func (s *ProfileService) UpdateAddress(ctx context.Context, in *types.AddressInput) (any, error) {
	if in.Context != "" && in.Context != types.UserTypeDonor && in.Context != types.UserTypeOrganization {
		return nil, invalidContext()
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !isJSONObject(in.LocationData) {
		return nil, types.NewValidationError("location_data must be a JSON object")
	}

	if in.Context == types.UserTypeDonor {
		donor, err := s.donors.UpdateAddress(ctx, in.ID, in.LocationData)
		if err != nil {
			return nil, types.Persistence("Failed to update address", err)
		}
		return donor, nil
	}

	org, err := s.orgs.UpdateAddress(ctx, in.ID, in.LocationData)
	if err != nil {
		return nil, types.Persistence("Failed to update address", err)
	}
	return org, nil
}

// UpdateProfileImage sets image_url on a donor or org row. kind is the
// path segment, "donor" or "org".
func (s *ProfileService) UpdateProfileImage(ctx context.Context, kind, userID string, in *types.ProfileImageInput) (any, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, types.NewValidationError("userid is required")
	}

	switch kind {
	case "donor":
		donor, err := s.donors.UpdateImage(ctx, userID, in.ProfileImage)
		if err != nil {
			return nil, types.Persistence("Failed to update profile image", err)
		}
		return donor, nil
	case "org", "organization":
		org, err := s.orgs.UpdateImage(ctx, userID, in.ProfileImage)
		if err != nil {
			return nil, types.Persistence("Failed to update profile image", err)
		}
		return org, nil
	}

	return nil, types.NewValidationError("Invalid user type. Must be 'donor' or 'org'")
}

func (s *ProfileService) Donor(ctx context.Context, userID string) (*types.Donor, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, types.NewValidationError("id is required")
	}

	donor, err := s.donors.Donor(ctx, userID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donor", err)
	}
	return donor, nil
}
