package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
)

// NotificationCreator is the part of NotificationService other services
// publish through.
type NotificationCreator interface {
	Create(ctx context.Context, in *types.NotificationInput) ([]*types.Notification, error)
}

type OrganizationService struct {
	logger        logrus.FieldLogger
	orgs          OrganizationRepository
	bankDetails   BankDetailRepository
	notifications NotificationCreator
}

func NewOrganizationService(
	logger logrus.FieldLogger,
	orgs OrganizationRepository,
	bankDetails BankDetailRepository,
	notifications NotificationCreator,
) *OrganizationService {
	return &OrganizationService{
		logger:        logger,
		orgs:          orgs,
		bankDetails:   bankDetails,
		notifications: notifications,
	}
}

type OrganizationInfo struct {
	Description *string                      `json:"description"`
	Address     json.RawMessage              `json:"address"`
	BankDetails map[string]*types.BankDetail `json:"bank_details"`
}

func (s *OrganizationService) Info(ctx context.Context, orgID string) (*OrganizationInfo, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, types.NewValidationError("org_id is required")
	}

	org, err := s.orgs.Organization(ctx, orgID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch organization", err)
	}

	details, err := s.bankDetails.BankDetailsByOrg(ctx, orgID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch bank details", err)
	}

	return &OrganizationInfo{
		Description: org.Description,
		Address:     org.Address,
		BankDetails: indexBy(details, func(d *types.BankDetail) string { return d.ID }),
	}, nil
}

// UpdateInfo applies a partial profile update and appends any bank accounts
// in one transaction. Bank accounts are validated before anything is
// written.
func (s *OrganizationService) UpdateInfo(ctx context.Context, in *types.OrganizationInfoInput) (*types.Organization, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	details := make([]*types.BankDetail, 0, len(in.BankDetails))
	for _, account := range in.BankDetails {
		details = append(details, &types.BankDetail{
			ID:            utils.NanoID(),
			OrgID:         in.OrgID,
			AccountTitle:  strings.TrimSpace(account.AccountTitle),
			BankName:      strings.TrimSpace(account.BankName),
			AccountNumber: strings.TrimSpace(account.AccountNumber),
			IBAN:          strings.TrimSpace(account.IBAN),
		})
	}

	update := types.OrganizationUpdate{
		Name:              in.Name,
		Phone:             in.Phone,
		Type:              in.Type,
		Description:       in.Description,
		MissionStatement:  in.MissionStatement,
		MissionScope:      in.MissionScope,
		DonationsAccepted: in.DonationsAccepted,
	}

	org, err := s.orgs.UpdateInfo(ctx, in.OrgID, update, details)
	if err != nil {
		return nil, types.Persistence("Failed to update organization", err)
	}

	return org, nil
}

func (s *OrganizationService) AddBankDetail(ctx context.Context, in *types.BankDetailInput) (*types.BankDetail, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if _, err := s.orgs.Organization(ctx, in.OrgID); err != nil {
		return nil, types.Persistence("Failed to fetch organization", err)
	}

	detail := &types.BankDetail{
		ID:            utils.NanoID(),
		OrgID:         in.OrgID,
		AccountTitle:  strings.TrimSpace(in.AccountTitle),
		BankName:      strings.TrimSpace(in.BankName),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		IBAN:          strings.TrimSpace(in.IBAN),
	}
	if err := s.bankDetails.Create(ctx, detail); err != nil {
		return nil, types.Persistence("Failed to add bank details", err)
	}

	return detail, nil
}

func (s *OrganizationService) Organizations(ctx context.Context) ([]*types.Organization, error) {
	orgs, err := s.orgs.Organizations(ctx)
	if err != nil {
		return nil, types.Persistence("Failed to fetch organizations", err)
	}
	return orgs, nil
}

func (s *OrganizationService) Organization(ctx context.Context, orgID string) (*types.Organization, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, types.NewValidationError("id is required")
	}

	org, err := s.orgs.Organization(ctx, orgID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch organization", err)
	}
	return org, nil
}

// SetStatus records an admin's verification decision and tells the
// organization about it. A failed notification is logged only.
func (s *OrganizationService) SetStatus(ctx context.Context, in *types.OrganizationStatusInput) (*types.Organization, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	org, err := s.orgs.UpdateStatus(ctx, in.OrgID, in.Status)
	if err != nil {
		return nil, types.Persistence("Failed to update organization status", err)
	}

	message := fmt.Sprintf("Your organization %s has been %s.", org.Name, org.Status)
	_, err = s.notifications.Create(ctx, &types.NotificationInput{
		Type:        types.NotificationTypeSystem,
		UserType:    types.UserTypeOrganization,
		RecipientID: org.UserID,
		Message:     &message,
	})
	if err != nil {
		s.logger.WithError(err).WithField("org_id", org.UserID).Error("failed to notify organization of status change")
	}

	return org, nil
}
