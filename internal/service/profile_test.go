package service

import (
	"context"
	"encoding/json"
	"testing"

	"giventake/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	for _, kind := range []types.UserType{types.UserTypeDonor, types.UserTypeOrganization} {
		t.Run(string(kind), func(t *testing.T) {
			h := newHarness(t)
			id := testDonorID
			if kind == types.UserTypeOrganization {
				id = testOrgID
			}

			location := json.RawMessage(`{"formatted_address":"Mall Road, Lahore","lat":31.56,"lng":74.31}`)
			_, err := h.profiles.UpdateAddress(context.Background(), &types.AddressInput{
				ID:           id,
				Context:      kind,
				LocationData: location,
			})
			require.NoError(t, err)

			address, err := h.profiles.Address(context.Background(), id, kind)
			require.NoError(t, err)
			assert.JSONEq(t, string(location), string(address))
		})
	}
}

func TestAddressMissing(t *testing.T) {
	h := newHarness(t)

	_, err := h.profiles.Address(context.Background(), testOrgID, types.UserTypeOrganization)

	var derr *types.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Address not found", derr.Message)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddressValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.profiles.Address(context.Background(), testDonorID, types.UserTypeAdmin)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid context. Must be 'donor' or 'organization'", verr.Message)

	_, err = h.profiles.UpdateAddress(context.Background(), &types.AddressInput{
		ID:           testDonorID,
		Context:      types.UserTypeDonor,
		LocationData: json.RawMessage(`"Lahore"`),
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location_data must be a JSON object", verr.Message)
}

func TestUpdateProfileImage(t *testing.T) {
	h := newHarness(t)

	row, err := h.profiles.UpdateProfileImage(context.Background(), "org", testOrgID, &types.ProfileImageInput{ProfileImage: "https://cdn.example.com/logo.png"})
	require.NoError(t, err)
	org, ok := row.(*types.Organization)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/logo.png", *org.ImageURL)

	_, err = h.profiles.UpdateProfileImage(context.Background(), "admin", testOrgID, &types.ProfileImageInput{ProfileImage: "x"})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestOrganizationInfo(t *testing.T) {
	h := newHarness(t)

	description := "Community kitchen"
	_, err := h.orgs.UpdateInfo(context.Background(), &types.OrganizationInfoInput{
		OrgID:       testOrgID,
		Description: &description,
		BankDetails: []types.BankAccount{{
			AccountTitle:  "Hope Kitchen",
			BankName:      "Meezan Bank",
			AccountNumber: "0101234567890",
			IBAN:          "PK36MEZN0000000101234567",
		}},
	})
	require.NoError(t, err)

	_, err = h.orgs.AddBankDetail(context.Background(), &types.BankDetailInput{
		OrgID: testOrgID,
		BankAccount: types.BankAccount{
			AccountTitle:  "Hope Kitchen Zakat",
			BankName:      "HBL",
			AccountNumber: "0209876543210",
			IBAN:          "PK24HABB0000000209876543",
		},
	})
	require.NoError(t, err)

	info, err := h.orgs.Info(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, description, *info.Description)
	assert.Len(t, info.BankDetails, 2)
	for id, detail := range info.BankDetails {
		assert.Equal(t, id, detail.ID)
		assert.Equal(t, testOrgID, detail.OrgID)
	}
}

func TestOrganizationInfoRejectsIncompleteBankAccount(t *testing.T) {
	h := newHarness(t)

	_, err := h.orgs.UpdateInfo(context.Background(), &types.OrganizationInfoInput{
		OrgID:       testOrgID,
		BankDetails: []types.BankAccount{{AccountTitle: "Hope Kitchen"}},
	})

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, h.store.BankDetails.Len())
}
