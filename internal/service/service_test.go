package service

import (
	"context"
	"encoding/json"
	"testing"

	"giventake/internal/store/storetest"
	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const (
	testDonorID = "donor-1"
	testOrgID   = "org-1"
)

type harness struct {
	store         *storetest.Store
	logs          *test.Hook
	donations     *DonationService
	campaigns     *CampaignService
	orgs          *OrganizationService
	profiles      *ProfileService
	notifications *NotificationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	st := storetest.New()
	notifications := NewNotificationService(logger, st.Notifications, st.Donations, st.Items, st.Donors, st.Organizations)

	h := &harness{
		store:         st,
		logs:          hook,
		notifications: notifications,
		donations:     NewDonationService(logger, st.Donations, st.Items, st.Details, st.Campaigns, st.Feedback, st.Donors, st.Organizations, notifications),
		campaigns:     NewCampaignService(logger, st.Campaigns, st.Organizations),
		orgs:          NewOrganizationService(logger, st.Organizations, st.BankDetails, notifications),
		profiles:      NewProfileService(st.Donors, st.Organizations),
	}

	ctx := context.Background()
	require.NoError(t, st.Donors.Create(ctx, &types.Donor{
		UserID:  testDonorID,
		FName:   "Ava",
		LName:   "Williams",
		Phone:   "03001234561",
		CNICNo:  "35202-1111111-1",
		Address: json.RawMessage(`{"city":"Lahore"}`),
	}))
	require.NoError(t, st.Organizations.Create(ctx, &types.Organization{
		UserID:    testOrgID,
		Name:      "Hope Kitchen",
		LicenseNo: "NGO-0001",
		Phone:     "04235761234",
		Status:    types.OrganizationStatusApproved,
	}))

	return h
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func foodItem(t *testing.T) types.SubmittedItem {
	return types.SubmittedItem{Category: types.ItemCategoryFood, Data: raw(t, map[string]any{
		"name":     "Rice",
		"type":     "grain",
		"qty":      5,
		"unit":     "kg",
		"pkg_type": "sack",
		"exp_date": "2027-01-01",
	})}
}

func clothesItem(t *testing.T) types.SubmittedItem {
	return types.SubmittedItem{Category: types.ItemCategoryClothes, Data: raw(t, map[string]any{
		"type":        "jacket",
		"size":        "M",
		"condition":   "good",
		"fabric_type": "wool",
		"quantity":    3,
	})}
}

func othersItem(t *testing.T) types.SubmittedItem {
	return types.SubmittedItem{Category: types.ItemCategoryOthers, Data: raw(t, map[string]any{
		"description": "Desk lamp",
		"imageUrls":   []string{"https://cdn.example.com/lamp.png"},
	})}
}

// seedDonation submits a donation with the given items and returns its id.
func (h *harness) seedDonation(t *testing.T, items ...types.SubmittedItem) string {
	t.Helper()
	id, err := h.donations.Submit(context.Background(), &types.DonationInput{
		DonorID: testDonorID,
		OrgID:   testOrgID,
		Status:  types.DonationStatusPending,
		Items:   items,
	})
	require.NoError(t, err)
	return id
}

func (h *harness) seedCampaign(t *testing.T, amount, raised *float64) *types.Campaign {
	t.Helper()
	c := &types.Campaign{
		ID:           utils.NanoID(),
		OrgID:        testOrgID,
		Name:         "Winter Appeal",
		Amount:       amount,
		AmountRaised: raised,
	}
	require.NoError(t, h.store.Campaigns.Create(context.Background(), c))
	return c
}
