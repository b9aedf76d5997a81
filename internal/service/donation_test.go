package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDonation(t *testing.T) {
	h := newHarness(t)

	id := h.seedDonation(t, foodItem(t), foodItem(t), clothesItem(t), othersItem(t))

	assert.Equal(t, 1, h.store.Donations.Len())
	assert.Equal(t, 3, h.store.Items.Len(), "one item row per distinct category")
	assert.Equal(t, 4, h.store.Details.Len(), "one detail row per submitted item")

	detail, err := h.donations.Details(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, detail.Donation.ID)
	assert.Equal(t, "Hope Kitchen", detail.Organization.Name)
	require.Len(t, detail.DonationItems, 3)
	assert.Equal(t, types.ItemCategoryFood, detail.DonationItems[0].Type)
	assert.Len(t, detail.DonationItems[0].Details, 2)
	assert.Empty(t, detail.PeopleHelpedDisplay)
}

func TestSubmitDonationShorthandArrays(t *testing.T) {
	h := newHarness(t)

	_, err := h.donations.Submit(context.Background(), &types.DonationInput{
		DonorID: testDonorID,
		OrgID:   testOrgID,
		Status:  types.DonationStatusPending,
		Food:    []json.RawMessage{foodItem(t).Data},
		Clothes: []json.RawMessage{clothesItem(t).Data},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, h.store.Items.Len())
	assert.Equal(t, 2, h.store.Details.Len())
}

func TestSubmitDonationHeaderValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name    string
		in      types.DonationInput
		message string
	}{
		{
			name:    "missing donor",
			in:      types.DonationInput{OrgID: testOrgID, Status: types.DonationStatusPending, Items: []types.SubmittedItem{foodItem(t)}},
			message: "Donor ID, Org ID, and Status are required",
		},
		{
			name:    "unknown status",
			in:      types.DonationInput{DonorID: testDonorID, OrgID: testOrgID, Status: "shipped", Items: []types.SubmittedItem{foodItem(t)}},
			message: `Invalid status value: "shipped"`,
		},
		{
			name:    "no items",
			in:      types.DonationInput{DonorID: testDonorID, OrgID: testOrgID, Status: types.DonationStatusPending},
			message: "At least one donation item is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.donations.Submit(context.Background(), &tt.in)

			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	assert.Zero(t, h.store.Donations.Len())
}

func TestSubmitDonationRollsBackOnInvalidItem(t *testing.T) {
	h := newHarness(t)

	bad := types.SubmittedItem{Category: types.ItemCategoryClothes, Data: raw(t, map[string]any{"type": "jacket"})}

	_, err := h.donations.Submit(context.Background(), &types.DonationInput{
		DonorID: testDonorID,
		OrgID:   testOrgID,
		Status:  types.DonationStatusPending,
		Items:   []types.SubmittedItem{foodItem(t), bad},
	})

	var rerr *types.RollbackError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.Validation)
	require.Len(t, rerr.Errors, 1)
	assert.Equal(t, "item 2: Missing required fields for clothes item: size, condition, fabric_type, qty", rerr.Errors[0])

	assert.Zero(t, h.store.Donations.Len())
	assert.Zero(t, h.store.Items.Len())
	assert.Zero(t, h.store.Details.Len())
}

func TestSubmitDonationRollsBackOnStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.store.Details.FailOn("CreateOther", errors.New("connection reset"))

	_, err := h.donations.Submit(context.Background(), &types.DonationInput{
		DonorID: testDonorID,
		OrgID:   testOrgID,
		Status:  types.DonationStatusPending,
		Items:   []types.SubmittedItem{foodItem(t), othersItem(t)},
	})

	var rerr *types.RollbackError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, rerr.Validation)
	assert.Equal(t, []string{"item 2: Failed to insert others item"}, rerr.Errors)

	assert.Zero(t, h.store.Donations.Len())
	assert.Zero(t, h.store.Details.Len())

	entry := h.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "donation rolled back", entry.Message)
}

func TestSubmitDonationOthersRequireImages(t *testing.T) {
	h := newHarness(t)

	item := types.SubmittedItem{Category: types.ItemCategoryOthers, Data: raw(t, map[string]any{"description": "Desk lamp"})}
	_, err := h.donations.Submit(context.Background(), &types.DonationInput{
		DonorID: testDonorID,
		OrgID:   testOrgID,
		Status:  types.DonationStatusPending,
		Items:   []types.SubmittedItem{item},
	})

	var rerr *types.RollbackError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"item 1: Missing required fields for others item: image_urls"}, rerr.Errors)
}

func TestDeleteDonation(t *testing.T) {
	h := newHarness(t)
	id := h.seedDonation(t, foodItem(t), othersItem(t))

	require.NoError(t, h.donations.Delete(context.Background(), id))
	assert.Zero(t, h.store.Donations.Len())
	assert.Zero(t, h.store.Items.Len())
	assert.Zero(t, h.store.Details.Len())

	err := h.donations.Delete(context.Background(), id)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAcceptPost(t *testing.T) {
	h := newHarness(t)
	id := h.seedDonation(t, foodItem(t))

	donation, notifications, err := h.donations.AcceptPost(context.Background(), &types.AcceptPostInput{
		DonationID:     id,
		OrganisationID: "org-2",
	})
	require.NoError(t, err)

	assert.Equal(t, types.DonationStatusInProgress, donation.Status)
	assert.Equal(t, "org-2", utils.PtrString(donation.OrgID))
	require.Len(t, notifications, 1)
	assert.Equal(t, testDonorID, notifications[0].RecipientID)
}

func TestUpdateStatusNotifications(t *testing.T) {
	tests := []struct {
		status     types.DonationStatus
		recipients []string
		message    string
	}{
		{
			status:     types.DonationStatusInProgress,
			recipients: []string{testDonorID},
			message:    "Ava, your donation is now being processed by Hope Kitchen.",
		},
		{
			status:     types.DonationStatusCompleted,
			recipients: []string{testDonorID},
			message:    "Your donation has been successfully completed. Hope Kitchen appreciates your help!",
		},
		{
			status:     types.DonationStatusCancelled,
			recipients: []string{testDonorID, testOrgID},
			message:    "Your donation has been cancelled. If this was unintentional, you can submit a new request.",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			h := newHarness(t)
			id := h.seedDonation(t, foodItem(t))

			donation, notifications, err := h.donations.UpdateStatus(context.Background(), &types.StatusUpdateInput{
				DonationID: id,
				Status:     tt.status,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.status, donation.Status)

			require.Len(t, notifications, len(tt.recipients))
			for i, n := range notifications {
				assert.Equal(t, tt.recipients[i], n.RecipientID)
				assert.Equal(t, types.NotificationStatusUnread, n.Status)
				assert.Equal(t, id, n.DonationID())
			}
			assert.Equal(t, tt.message, notifications[0].Message)
			assert.Len(t, h.store.Notifications.All(), len(tt.recipients))
		})
	}
}

func TestUpdateStatusRejectsPending(t *testing.T) {
	h := newHarness(t)
	id := h.seedDonation(t, foodItem(t))

	_, _, err := h.donations.UpdateStatus(context.Background(), &types.StatusUpdateInput{
		DonationID: id,
		Status:     types.DonationStatusPending,
	})

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid status value", verr.Message)
}

func TestUpdateStatusKeepsChangeWhenNotifyFails(t *testing.T) {
	h := newHarness(t)
	id := h.seedDonation(t, foodItem(t))
	h.store.Notifications.FailOn("Create", errors.New("insert failed"))

	donation, notifications, err := h.donations.UpdateStatus(context.Background(), &types.StatusUpdateInput{
		DonationID: id,
		Status:     types.DonationStatusPickedUp,
	})
	require.NoError(t, err)

	assert.Equal(t, types.DonationStatusPickedUp, donation.Status)
	assert.Empty(t, notifications)
	assert.NotNil(t, notifications)
}

func TestCampaignDonationReview(t *testing.T) {
	h := newHarness(t)
	campaign := h.seedCampaign(t, utils.Float64Ptr(1000), utils.Float64Ptr(0))

	id, err := h.donations.SubmitCampaignDonation(context.Background(), &types.CampaignDonationInput{
		DonorID:    testDonorID,
		OrgID:      testOrgID,
		CampaignID: campaign.ID,
		Amount:     250,
	})
	require.NoError(t, err)

	proofs, err := h.donations.VerifyCampaignDonations(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Len(t, proofs, 1)

	donation, _, err := h.donations.ReviewCampaignDonation(context.Background(), &types.CampaignReviewInput{
		DonationID: id,
		Context:    "reject",
	})
	require.NoError(t, err)
	assert.Equal(t, types.DonationStatusRejected, donation.Status)
}

func TestCampaignDonationWrongOrganization(t *testing.T) {
	h := newHarness(t)
	campaign := h.seedCampaign(t, nil, nil)

	_, err := h.donations.SubmitCampaignDonation(context.Background(), &types.CampaignDonationInput{
		DonorID:    testDonorID,
		OrgID:      "org-2",
		CampaignID: campaign.ID,
		Amount:     100,
	})

	var derr *types.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Campaign not found for this organization", derr.Message)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Zero(t, h.store.Donations.Len())
}

func TestFeedbackRequiresCompletedDonation(t *testing.T) {
	h := newHarness(t)
	id := h.seedDonation(t, foodItem(t))
	helped := 12

	_, err := h.donations.RecordFeedback(context.Background(), &types.FeedbackInput{DonationID: id, PeopleHelped: &helped})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Feedback can only be recorded for completed donations", verr.Message)

	_, _, err = h.donations.UpdateStatus(context.Background(), &types.StatusUpdateInput{DonationID: id, Status: types.DonationStatusCompleted})
	require.NoError(t, err)

	description := "Fed twelve families"
	_, err = h.donations.RecordFeedback(context.Background(), &types.FeedbackInput{DonationID: id, Description: &description, PeopleHelped: &helped})
	require.NoError(t, err)

	more := 20
	feedback, err := h.donations.UpdatePeopleHelped(context.Background(), &types.PeopleHelpedInput{DonationID: id, PeopleHelped: &more})
	require.NoError(t, err)
	assert.Equal(t, 20, feedback.PeopleHelped)
	assert.Equal(t, description, utils.PtrString(feedback.Description))

	stored, err := h.donations.Feedback(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, testDonorID, stored[0].DonorID)
}

func TestFeedbackNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.donations.Feedback(context.Background(), "missing")

	var derr *types.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "No feedback found", derr.Message)
}
