package seed

import (
	"context"
	"fmt"

	"giventake/internal/utils"
	"giventake/pkg/types"
)

type CampaignUpserter interface {
	Upsert(ctx context.Context, campaign *types.Campaign) error
}

type BankDetailCreator interface {
	Create(ctx context.Context, detail *types.BankDetail) error
}

// Fixed ids keep reseeding idempotent. Generate new ones with
// `giventake nanoid`.
var fakeCampaigns = []types.Campaign{
	{
		ID:              "c8Vq3LzT0aWmN5bY7kRpX2sJ",
		OrgID:           "44444444-4444-4444-4444-444444444444",
		Name:            "Ramadan Ration Drive",
		Description:     utils.StringPtr("Monthly ration packs for 500 families"),
		FundraisingType: utils.StringPtr("goal"),
		FundraisingGoal: utils.StringPtr("500 ration packs"),
		Amount:          utils.Float64Ptr(1500000),
		AmountRaised:    utils.Float64Ptr(0),
	},
	{
		ID:              "Hk2bQ9uYv4EwT6nLc1ZrM8aD",
		OrgID:           "55555555-5555-5555-5555-555555555555",
		Name:            "Winter Blanket Appeal",
		Description:     utils.StringPtr("Blankets and jackets ahead of the northern winter"),
		FundraisingType: utils.StringPtr("goal"),
		Amount:          utils.Float64Ptr(400000),
		AmountRaised:    utils.Float64Ptr(0),
	},
	{
		ID:              "p7Gs1XeKd3RfW0yUh5NtB9cQ",
		OrgID:           "66666666-6666-6666-6666-666666666666",
		Name:            "School Supplies Fund",
		Description:     utils.StringPtr("Open-ended fund for books and uniforms"),
		FundraisingType: utils.StringPtr("open"),
		AmountRaised:    utils.Float64Ptr(0),
	},
}

var fakeBankDetails = []types.BankDetail{
	{ID: "b1Ld8KqZ3nVw6TyR0aXm4sPe", OrgID: "44444444-4444-4444-4444-444444444444", AccountTitle: "Hope Kitchen", BankName: "Meezan Bank", AccountNumber: "0101234567890", IBAN: "PK36MEZN0000000101234567"},
	{ID: "b2Qw7EhU1rFc5JkN9mGz3vYt", OrgID: "55555555-5555-5555-5555-555555555555", AccountTitle: "Warm Threads", BankName: "HBL", AccountNumber: "0209876543210", IBAN: "PK24HABB0000000209876543"},
	{ID: "b3Zx6CvB2nMa8SdF4gHj0kLp", OrgID: "66666666-6666-6666-6666-666666666666", AccountTitle: "Bright Futures Trust", BankName: "UBL", AccountNumber: "0305555444333", IBAN: "PK12UNIL0000000305555444"},
}

func SeedCampaigns(ctx context.Context, campaigns CampaignUpserter, bankDetails BankDetailCreator) error {
	for _, c := range fakeCampaigns {
		if err := campaigns.Upsert(ctx, &c); err != nil {
			return fmt.Errorf("failed to upsert campaign %s: %w", c.ID, err)
		}
	}

	for _, d := range fakeBankDetails {
		if err := bankDetails.Create(ctx, &d); err != nil {
			return fmt.Errorf("failed to create bank detail %s: %w", d.ID, err)
		}
	}

	fmt.Printf("Campaigns seeded: %d upserted, %d bank accounts\n", len(fakeCampaigns), len(fakeBankDetails))
	return nil
}
