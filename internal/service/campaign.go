package service

import (
	"context"
	"strings"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
)

type CampaignService struct {
	logger    logrus.FieldLogger
	campaigns CampaignRepository
	orgs      OrganizationRepository
}

func NewCampaignService(logger logrus.FieldLogger, campaigns CampaignRepository, orgs OrganizationRepository) *CampaignService {
	return &CampaignService{
		logger:    logger,
		campaigns: campaigns,
		orgs:      orgs,
	}
}

type CampaignWithOrganization struct {
	*types.Campaign
	Organization *OrganizationSummary `json:"organization"`
}

func (s *CampaignService) Create(ctx context.Context, in *types.CampaignInput) (*types.Campaign, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if _, err := s.orgs.Organization(ctx, in.OrgID); err != nil {
		return nil, types.Persistence("Failed to fetch organization", err)
	}

	campaign := &types.Campaign{
		ID:              utils.NanoID(),
		OrgID:           in.OrgID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Thumbnail:       in.Thumbnail,
		FundraisingType: in.FundraisingType,
		FundraisingGoal: in.FundraisingGoal,
		Amount:          in.Amount,
		AmountRaised:    utils.Float64Ptr(0),
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, types.Persistence("Failed to create campaign", err)
	}

	s.logger.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"org_id":      campaign.OrgID,
	}).Info("campaign created")

	return campaign, nil
}

// AddFunds increments amount_raised in the store and returns the new total.
func (s *CampaignService) AddFunds(ctx context.Context, in *types.AddFundsInput) (float64, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}

	total, err := s.campaigns.AddFunds(ctx, in.CampaignID, in.Amount)
	if err != nil {
		return 0, types.Persistence("Failed to add funds", err)
	}

	return total, nil
}

// Active lists campaigns still short of their target, each with its
// organization.
func (s *CampaignService) Active(ctx context.Context) ([]*CampaignWithOrganization, error) {
	campaigns, err := s.campaigns.Campaigns(ctx, "")
	if err != nil {
		return nil, types.Persistence("Failed to fetch campaigns", err)
	}

	active := make([]*types.Campaign, 0, len(campaigns))
	orgIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		if !c.Active() {
			continue
		}
		active = append(active, c)
		orgIDs = append(orgIDs, c.OrgID)
	}

	orgs, err := s.orgs.OrganizationsByIDs(ctx, utils.Unique(orgIDs))
	if err != nil {
		return nil, types.Persistence("Failed to fetch organizations", err)
	}
	byID := indexBy(orgs, func(o *types.Organization) string { return o.UserID })

	out := make([]*CampaignWithOrganization, 0, len(active))
	for _, c := range active {
		out = append(out, &CampaignWithOrganization{
			Campaign:     c,
			Organization: orgSummary(byID, &c.OrgID),
		})
	}

	return out, nil
}

func (s *CampaignService) All(ctx context.Context) ([]*types.Campaign, error) {
	campaigns, err := s.campaigns.Campaigns(ctx, "")
	if err != nil {
		return nil, types.Persistence("Failed to fetch campaigns", err)
	}
	return campaigns, nil
}

func (s *CampaignService) ByOrg(ctx context.Context, orgID string) ([]*types.Campaign, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, types.NewValidationError("org_id is required")
	}

	campaigns, err := s.campaigns.Campaigns(ctx, orgID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch campaigns", err)
	}
	return campaigns, nil
}
