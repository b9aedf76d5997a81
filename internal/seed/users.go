package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"giventake/internal/utils"
	"giventake/pkg/types"
)

type UserUpserter interface {
	Upsert(ctx context.Context, user *types.User) error
}

type DonorUpserter interface {
	Upsert(ctx context.Context, donor *types.Donor) error
}

type OrganizationUpserter interface {
	Upsert(ctx context.Context, org *types.Organization) error
}

// Seed user ids stand in for Cognito subs. Log in as these users only after
// creating matching pool users. New ones come from `giventake nanoid --user`.
type fakeDonorSeed struct {
	ID     string
	Email  string
	FName  string
	LName  string
	Phone  string
	CNICNo string
	City   string
}

type fakeOrgSeed struct {
	ID        string
	Email     string
	Name      string
	LicenseNo string
	Phone     string
	Type      string
	Accepts   []string
	City      string
}

var fakeDonors = []fakeDonorSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "ava.williams+seed1@example.com", FName: "Ava", LName: "Williams", Phone: "03001234561", CNICNo: "35202-1111111-1", City: "Lahore"},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "liam.johnson+seed2@example.com", FName: "Liam", LName: "Johnson", Phone: "03001234562", CNICNo: "35202-2222222-2", City: "Karachi"},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "noah.brown+seed3@example.com", FName: "Noah", LName: "Brown", Phone: "03001234563", CNICNo: "35202-3333333-3", City: "Islamabad"},
}

var fakeOrgs = []fakeOrgSeed{
	{ID: "44444444-4444-4444-4444-444444444444", Email: "contact+seed4@hopekitchen.example.com", Name: "Hope Kitchen", LicenseNo: "NGO-0001", Phone: "04235761234", Type: "food_bank", Accepts: []string{"food"}, City: "Lahore"},
	{ID: "55555555-5555-5555-5555-555555555555", Email: "contact+seed5@warmthreads.example.com", Name: "Warm Threads", LicenseNo: "NGO-0002", Phone: "02134567890", Type: "shelter", Accepts: []string{"clothes", "others"}, City: "Karachi"},
	{ID: "66666666-6666-6666-6666-666666666666", Email: "contact+seed6@brightfutures.example.com", Name: "Bright Futures Trust", LicenseNo: "NGO-0003", Phone: "0512345678", Type: "education", Accepts: []string{"food", "clothes", "others"}, City: "Islamabad"},
}

func seedAddress(city string) json.RawMessage {
	return utils.MustMarshalJSON(map[string]any{
		"city":    city,
		"country": "Pakistan",
	})
}

func SeedDonors(ctx context.Context, users UserUpserter, donors DonorUpserter) error {
	for _, d := range fakeDonors {
		user := &types.User{
			ID:       d.ID,
			Email:    d.Email,
			Phone:    utils.StringPtr(d.Phone),
			UserType: types.UserTypeDonor,
			IsActive: true,
		}
		if err := users.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to upsert donor user %s: %w", d.ID, err)
		}

		donor := &types.Donor{
			UserID:  d.ID,
			FName:   d.FName,
			LName:   d.LName,
			Phone:   d.Phone,
			CNICNo:  d.CNICNo,
			Address: seedAddress(d.City),
		}
		if err := donors.Upsert(ctx, donor); err != nil {
			return fmt.Errorf("failed to upsert donor %s: %w", d.ID, err)
		}
	}

	fmt.Printf("Donors seeded: %d upserted\n", len(fakeDonors))
	return nil
}

// SeedOrganizations upserts approved demo organizations.
func SeedOrganizations(ctx context.Context, users UserUpserter, orgs OrganizationUpserter) error {
	for _, o := range fakeOrgs {
		user := &types.User{
			ID:         o.ID,
			Email:      o.Email,
			Phone:      utils.StringPtr(o.Phone),
			UserType:   types.UserTypeOrganization,
			IsActive:   true,
			IsVerified: true,
		}
		if err := users.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to upsert organization user %s: %w", o.ID, err)
		}

		org := &types.Organization{
			UserID:            o.ID,
			Name:              o.Name,
			LicenseNo:         o.LicenseNo,
			Type:              utils.StringPtr(o.Type),
			MissionStatement:  utils.StringPtr(fmt.Sprintf("%s serves families in %s.", o.Name, o.City)),
			DonationsAccepted: o.Accepts,
			Phone:             o.Phone,
			Address:           seedAddress(o.City),
			Status:            types.OrganizationStatusApproved,
		}
		if err := orgs.Upsert(ctx, org); err != nil {
			return fmt.Errorf("failed to upsert organization %s: %w", o.ID, err)
		}
	}

	fmt.Printf("Organizations seeded: %d upserted\n", len(fakeOrgs))
	return nil
}
