package seed

import (
	"context"
	"errors"
	"testing"

	"giventake/internal/store/storetest"
	"giventake/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	st := storetest.New()
	ctx := context.Background()

	for range 2 {
		require.NoError(t, SeedDonors(ctx, st.Users, st.Donors))
		require.NoError(t, SeedOrganizations(ctx, st.Users, st.Organizations))
		require.NoError(t, SeedCampaigns(ctx, st.Campaigns, st.BankDetails))
	}

	assert.Equal(t, len(fakeDonors)+len(fakeOrgs), st.Users.Len())
	assert.Equal(t, len(fakeBankDetails), st.BankDetails.Len())

	campaigns, err := st.Campaigns.Campaigns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, campaigns, len(fakeCampaigns))

	orgs, err := st.Organizations.Organizations(ctx)
	require.NoError(t, err)
	for _, org := range orgs {
		assert.Equal(t, types.OrganizationStatusApproved, org.Status)
	}
}

func TestSeedCampaignsReferenceSeededOrganizations(t *testing.T) {
	orgIDs := make(map[string]bool, len(fakeOrgs))
	for _, o := range fakeOrgs {
		orgIDs[o.ID] = true
	}

	for _, c := range fakeCampaigns {
		assert.True(t, orgIDs[c.OrgID], "campaign %s", c.ID)
	}
	for _, d := range fakeBankDetails {
		assert.True(t, orgIDs[d.OrgID], "bank detail %s", d.ID)
	}
}

func TestSeedStopsOnError(t *testing.T) {
	st := storetest.New()
	st.Users.FailOn("Upsert", errors.New("connection refused"))

	err := SeedDonors(context.Background(), st.Users, st.Donors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fakeDonors[0].ID)
	assert.Zero(t, st.Donors.Calls("Upsert"))
}
