package service

import (
	"context"
	"encoding/json"

	"giventake/pkg/types"
)

// The repository interfaces below are satisfied by the pgx repositories in
// internal/store and by the in-memory fakes in internal/store/storetest.

type UserRepository interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
	Delete(ctx context.Context, userID string) error
}

type DonorRepository interface {
	Donor(ctx context.Context, userID string) (*types.Donor, error)
	DonorsByIDs(ctx context.Context, userIDs []string) ([]*types.Donor, error)
	Create(ctx context.Context, donor *types.Donor) error
	UpdateAddress(ctx context.Context, userID string, address json.RawMessage) (*types.Donor, error)
	UpdateImage(ctx context.Context, userID, imageURL string) (*types.Donor, error)
}

type OrganizationRepository interface {
	Organization(ctx context.Context, userID string) (*types.Organization, error)
	OrganizationByLicense(ctx context.Context, licenseNo string) (*types.Organization, error)
	OrganizationsByIDs(ctx context.Context, userIDs []string) ([]*types.Organization, error)
	Organizations(ctx context.Context) ([]*types.Organization, error)
	Create(ctx context.Context, org *types.Organization) error
	UpdateAddress(ctx context.Context, userID string, address json.RawMessage) (*types.Organization, error)
	UpdateImage(ctx context.Context, userID, imageURL string) (*types.Organization, error)
	UpdateStatus(ctx context.Context, userID string, status types.OrganizationStatus) (*types.Organization, error)
	UpdateInfo(ctx context.Context, userID string, update types.OrganizationUpdate, bankDetails []*types.BankDetail) (*types.Organization, error)
}

type AdminRepository interface {
	Admin(ctx context.Context, userID string) (*types.Admin, error)
	Create(ctx context.Context, admin *types.Admin) error
}

type DonationRepository interface {
	Donation(ctx context.Context, donationID string) (*types.Donation, error)
	DonationsByIDs(ctx context.Context, donationIDs []string) ([]*types.Donation, error)
	Donations(ctx context.Context, filter types.DonationFilter) ([]*types.Donation, error)
	Create(ctx context.Context, donation *types.Donation) error
	Update(ctx context.Context, donationID string, update types.DonationUpdate) (*types.Donation, error)
	Delete(ctx context.Context, donationID string) error
}

type DonationItemRepository interface {
	Create(ctx context.Context, item *types.DonationItem) error
	ItemsByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.DonationItem, error)
	DeleteByDonation(ctx context.Context, donationID string) error
}

type DetailRepository interface {
	CreateFood(ctx context.Context, item *types.FoodItem) error
	CreateClothes(ctx context.Context, item *types.ClothesItem) error
	CreateOther(ctx context.Context, item *types.OtherItem) error
	FoodByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.FoodItem, error)
	ClothesByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.ClothesItem, error)
	OthersByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.OtherItem, error)
	DeleteByDonation(ctx context.Context, donationID string) error
}

type CampaignRepository interface {
	Campaign(ctx context.Context, campaignID string) (*types.Campaign, error)
	CampaignsByIDs(ctx context.Context, campaignIDs []string) ([]*types.Campaign, error)
	Campaigns(ctx context.Context, orgID string) ([]*types.Campaign, error)
	Create(ctx context.Context, campaign *types.Campaign) error
	AddFunds(ctx context.Context, campaignID string, amount float64) (float64, error)
}

type BankDetailRepository interface {
	BankDetailsByOrg(ctx context.Context, orgID string) ([]*types.BankDetail, error)
	Create(ctx context.Context, detail *types.BankDetail) error
}

type FeedbackRepository interface {
	FeedbackByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.Feedback, error)
	Upsert(ctx context.Context, feedback *types.Feedback) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notifications ...*types.Notification) error
	Notifications(ctx context.Context, filter types.NotificationFilter) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationIDs []string) (int64, error)
	MarkReadByRecipient(ctx context.Context, recipientID string) (int64, error)
}

//go:generate mockgen -destination=../mocks/mock_identity.go -package=mocks giventake/internal/service IdentityProvider

// IdentityProvider owns credentials. Passwords never reach the database.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, attributes map[string]string) (string, error)
	SignIn(ctx context.Context, email, password string) (*types.AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*types.AuthSession, error)
	ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error
	DeleteUser(ctx context.Context, email string) error
}

type TokenIssuer interface {
	Generate(userID, email string, userType types.UserType) (string, error)
}

func indexBy[T any](rows []*T, key func(*T) string) map[string]*T {
	out := make(map[string]*T, len(rows))
	for _, row := range rows {
		out[key(row)] = row
	}
	return out
}

func groupBy[T any](rows []*T, key func(*T) string) map[string][]*T {
	out := make(map[string][]*T)
	for _, row := range rows {
		k := key(row)
		out[k] = append(out[k], row)
	}
	return out
}

func donationIDs(donations []*types.Donation) []string {
	ids := make([]string, 0, len(donations))
	for _, d := range donations {
		ids = append(ids, d.ID)
	}
	return ids
}
