package service

import (
	"context"
	"sync"
	"testing"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCampaign(t *testing.T) {
	h := newHarness(t)

	campaign, err := h.campaigns.Create(context.Background(), &types.CampaignInput{
		OrgID:  testOrgID,
		Name:   "  Ramadan Ration Drive ",
		Amount: utils.Float64Ptr(5000),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, campaign.ID)
	assert.Equal(t, "Ramadan Ration Drive", campaign.Name)
	require.NotNil(t, campaign.AmountRaised)
	assert.Zero(t, *campaign.AmountRaised)
}

func TestCreateCampaignUnknownOrganization(t *testing.T) {
	h := newHarness(t)

	_, err := h.campaigns.Create(context.Background(), &types.CampaignInput{OrgID: "nobody", Name: "Drive"})
	assert.ErrorIs(t, err, types.ErrOrganizationNotFound)
}

func TestActiveCampaigns(t *testing.T) {
	h := newHarness(t)

	open := h.seedCampaign(t, nil, nil)
	short := h.seedCampaign(t, utils.Float64Ptr(1000), utils.Float64Ptr(999))
	h.seedCampaign(t, utils.Float64Ptr(1000), utils.Float64Ptr(1000))
	h.seedCampaign(t, utils.Float64Ptr(1000), utils.Float64Ptr(1500))

	active, err := h.campaigns.Active(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(active))
	for _, c := range active {
		ids = append(ids, c.ID)
		require.NotNil(t, c.Organization)
		assert.Equal(t, "Hope Kitchen", c.Organization.Name)
	}
	assert.ElementsMatch(t, []string{open.ID, short.ID}, ids)

	all, err := h.campaigns.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAddFundsAccumulates(t *testing.T) {
	h := newHarness(t)
	campaign := h.seedCampaign(t, utils.Float64Ptr(1000), utils.Float64Ptr(100))

	total, err := h.campaigns.AddFunds(context.Background(), &types.AddFundsInput{CampaignID: campaign.ID, Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)

	total, err = h.campaigns.AddFunds(context.Background(), &types.AddFundsInput{CampaignID: campaign.ID, Amount: 25.5})
	require.NoError(t, err)
	assert.Equal(t, 175.5, total)
}

func TestAddFundsConcurrent(t *testing.T) {
	h := newHarness(t)
	campaign := h.seedCampaign(t, nil, utils.Float64Ptr(0))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.campaigns.AddFunds(context.Background(), &types.AddFundsInput{CampaignID: campaign.ID, Amount: 10})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := h.store.Campaigns.Campaign(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, *stored.AmountRaised)
}

func TestAddFundsValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.campaigns.AddFunds(context.Background(), &types.AddFundsInput{CampaignID: "c1", Amount: -5})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"amount"}, verr.Fields)

	_, err = h.campaigns.AddFunds(context.Background(), &types.AddFundsInput{CampaignID: "missing", Amount: 5})
	assert.ErrorIs(t, err, types.ErrCampaignNotFound)
}
