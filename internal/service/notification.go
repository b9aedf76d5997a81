package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const (
	defaultDonorName        = "Donor"
	defaultOrganizationName = "the organization"
	defaultMessage          = "New notification"

	// TimeFormat renders created_at like "March 4, 2:05 PM".
	TimeFormat = "January 2, 3:04 PM"
)

// donorStatusMessage renders the message a donor sees when their donation
// moves to status.
func donorStatusMessage(status types.DonationStatus, donorName, orgName string) string {
	switch status {
	case types.DonationStatusInProgress:
		return fmt.Sprintf("%s, your donation is now being processed by %s.", donorName, orgName)
	case types.DonationStatusRejected:
		return fmt.Sprintf("Sorry %s, your donation was rejected by %s.", donorName, orgName)
	case types.DonationStatusCancelled:
		return "Your donation has been cancelled. If this was unintentional, you can submit a new request."
	case types.DonationStatusPickedUp:
		return fmt.Sprintf("Your donation was picked up by %s. Thank you for your generosity!", orgName)
	case types.DonationStatusCompleted:
		return fmt.Sprintf("Your donation has been successfully completed. %s appreciates your help!", orgName)
	default:
		return fmt.Sprintf("Your donation status is now: %s", status)
	}
}

type NotificationService struct {
	logger        logrus.FieldLogger
	notifications NotificationRepository
	donations     DonationRepository
	items         DonationItemRepository
	donors        DonorRepository
	orgs          OrganizationRepository
	now           func() time.Time
}

func NewNotificationService(
	logger logrus.FieldLogger,
	notifications NotificationRepository,
	donations DonationRepository,
	items DonationItemRepository,
	donors DonorRepository,
	orgs OrganizationRepository,
) *NotificationService {
	return &NotificationService{
		logger:        logger,
		notifications: notifications,
		donations:     donations,
		items:         items,
		donors:        donors,
		orgs:          orgs,
		now:           time.Now,
	}
}

// Create validates in and persists the resulting notifications. A donation
// notification carrying metadata.donation_id fans out to the donation's
// donor, and to its organization on cancellation.
func (s *NotificationService) Create(ctx context.Context, in *types.NotificationInput) ([]*types.Notification, error) {
	if !in.Type.Valid() {
		return nil, types.NewValidationError("Invalid notification type: %q", in.Type)
	}

	if len(in.Metadata) > 0 && !isJSONObject(in.Metadata) {
		return nil, types.NewValidationError("Metadata must be an object")
	}

	status := in.Status
	if status == "" {
		status = types.NotificationStatusUnread
	}
	if !status.Valid() {
		return nil, types.NewValidationError("Invalid notification status: %q", status)
	}

	ref := &types.Notification{Metadata: in.Metadata}
	if in.Type == types.NotificationTypeDonation && ref.DonationID() != "" {
		donation, err := s.donations.Donation(ctx, ref.DonationID())
		if err != nil {
			return nil, types.Persistence("Failed to fetch donation", err)
		}
		return s.notifyDonation(ctx, donation, donationNotice{
			message:  utils.PtrString(in.Message),
			metadata: in.Metadata,
			status:   status,
		})
	}

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.UserType.Valid() {
		return nil, types.NewValidationError("Invalid user_type: %q", in.UserType)
	}

	metadata := in.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	message := utils.PtrString(in.Message)
	if strings.TrimSpace(message) == "" {
		message = defaultMessage
	}

	notification := &types.Notification{
		ID:          utils.NanoID(),
		Type:        in.Type,
		UserType:    in.UserType,
		RecipientID: in.RecipientID,
		Status:      status,
		Message:     message,
		Metadata:    metadata,
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, types.Persistence("Failed to create notification", err)
	}

	return []*types.Notification{notification}, nil
}

// donationNotice carries caller overrides for a donation notification. A
// non-empty message replaces the status template for the donor, and
// metadata is stored as given.
type donationNotice struct {
	message  string
	metadata []byte
	status   types.NotificationStatus
}

// NotifyDonationStatus tells the donor about the donation's current status.
// A cancelled donation with an organization also notifies the organization.
func (s *NotificationService) NotifyDonationStatus(ctx context.Context, donation *types.Donation) ([]*types.Notification, error) {
	return s.notifyDonation(ctx, donation, donationNotice{})
}

func (s *NotificationService) notifyDonation(ctx context.Context, donation *types.Donation, notice donationNotice) ([]*types.Notification, error) {
	donorName := defaultDonorName
	donor, err := s.donors.Donor(ctx, donation.DonorID)
	switch {
	case err == nil:
		if name := strings.TrimSpace(donor.FName); name != "" {
			donorName = name
		}
	case !errors.Is(err, types.ErrNotFound):
		return nil, types.Persistence("Failed to fetch donor", err)
	}

	orgName := defaultOrganizationName
	orgID := utils.PtrString(donation.OrgID)
	if orgID != "" {
		org, err := s.orgs.Organization(ctx, orgID)
		switch {
		case err == nil:
			if org.Name != "" {
				orgName = org.Name
			}
		case !errors.Is(err, types.ErrNotFound):
			return nil, types.Persistence("Failed to fetch organization", err)
		}
	}

	metadata := notice.metadata
	if len(metadata) == 0 {
		metadata = utils.MustMarshalJSON(map[string]any{
			"donation_id":     donation.ID,
			"donation_status": donation.Status,
		})
	}

	message := notice.message
	if strings.TrimSpace(message) == "" {
		message = donorStatusMessage(donation.Status, donorName, orgName)
	}

	status := notice.status
	if status == "" {
		status = types.NotificationStatusUnread
	}

	notifications := []*types.Notification{{
		ID:          utils.NanoID(),
		Type:        types.NotificationTypeDonation,
		UserType:    types.UserTypeDonor,
		RecipientID: donation.DonorID,
		Status:      status,
		Message:     message,
		Metadata:    metadata,
	}}

	if donation.Status == types.DonationStatusCancelled && orgID != "" {
		notifications = append(notifications, &types.Notification{
			ID:          utils.NanoID(),
			Type:        types.NotificationTypeDonation,
			UserType:    types.UserTypeOrganization,
			RecipientID: orgID,
			Status:      status,
			Message:     fmt.Sprintf("%s has cancelled their donation.", donorName),
			Metadata:    metadata,
		})
	}

	if err := s.notifications.Create(ctx, notifications...); err != nil {
		return nil, types.Persistence("Failed to create notification", err)
	}

	return notifications, nil
}

func (s *NotificationService) List(ctx context.Context, filter types.NotificationFilter) ([]*types.Notification, error) {
	notifications, err := s.notifications.Notifications(ctx, filter)
	if err != nil {
		return nil, types.Persistence("Failed to fetch notifications", err)
	}
	return notifications, nil
}

type EnrichedNotification struct {
	*types.Notification
	Name          string `json:"name,omitempty"`
	DonationType  string `json:"donation_type,omitempty"`
	TimeAgo       string `json:"time_ago"`
	TimeFormatted string `json:"time_formatted"`
}

// Enriched lists a recipient's notifications with display names, donation
// categories and rendered timestamps. Related rows are fetched in batches.
func (s *NotificationService) Enriched(ctx context.Context, recipientID string) ([]*EnrichedNotification, error) {
	if strings.TrimSpace(recipientID) == "" {
		return nil, types.NewValidationError("recipient_id is required")
	}

	notifications, err := s.List(ctx, types.NotificationFilter{RecipientID: recipientID})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.DonationID())
	}

	lookup, err := s.loadDonationContext(ctx, utils.Unique(ids))
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*EnrichedNotification, 0, len(notifications))
	for _, n := range notifications {
		enriched := &EnrichedNotification{
			Notification:  n,
			TimeAgo:       humanize.RelTime(n.CreatedAt, now, "ago", "from now"),
			TimeFormatted: n.CreatedAt.Format(TimeFormat),
		}

		if donationID := n.DonationID(); donationID != "" {
			if name, ok := lookup.counterpartyName(donationID, n.UserType); ok {
				enriched.Name = name
				enriched.DonationType = lookup.itemTypes(donationID)
			}
		}

		out = append(out, enriched)
	}

	return out, nil
}

type NotificationDescription struct {
	Name         string `json:"name"`
	DonationType string `json:"donation_type"`
}

// Describe returns the counterparty name and donation categories a
// notification about donationID shows to a userType reader.
func (s *NotificationService) Describe(ctx context.Context, userType types.UserType, donationID string) (*NotificationDescription, error) {
	if userType != types.UserTypeDonor && userType != types.UserTypeOrganization {
		return nil, types.NewValidationError("Invalid user_type. Must be 'donor' or 'organization'")
	}
	if strings.TrimSpace(donationID) == "" {
		return nil, types.NewValidationError("donation_id is required")
	}

	lookup, err := s.loadDonationContext(ctx, []string{donationID})
	if err != nil {
		return nil, err
	}

	if _, ok := lookup.donations[donationID]; !ok {
		return nil, types.ErrDonationNotFound
	}

	donationType := lookup.itemTypes(donationID)
	if donationType == "" {
		return nil, types.NewError(types.ErrNotFound, "No donation items found")
	}

	name, ok := lookup.counterpartyName(donationID, userType)
	if !ok {
		if userType == types.UserTypeDonor {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, types.ErrDonorNotFound
	}

	return &NotificationDescription{Name: name, DonationType: donationType}, nil
}

// MarkRead flips the listed notifications, or every unread notification of
// a recipient, to read.
func (s *NotificationService) MarkRead(ctx context.Context, in *types.MarkReadInput) (int64, error) {
	var (
		count int64
		err   error
	)

	switch {
	case len(in.IDs) > 0:
		count, err = s.notifications.MarkRead(ctx, in.IDs)
	case strings.TrimSpace(in.RecipientID) != "":
		count, err = s.notifications.MarkReadByRecipient(ctx, in.RecipientID)
	default:
		return 0, types.NewValidationError("recipient_id is required")
	}
	if err != nil {
		return 0, types.Persistence("Failed to update notifications", err)
	}

	return count, nil
}

type donationContext struct {
	donations map[string]*types.Donation
	items     map[string][]*types.DonationItem
	donors    map[string]*types.Donor
	orgs      map[string]*types.Organization
}

func (s *NotificationService) loadDonationContext(ctx context.Context, ids []string) (*donationContext, error) {
	donations, err := s.donations.DonationsByIDs(ctx, ids)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donations", err)
	}

	items, err := s.items.ItemsByDonationIDs(ctx, ids)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donation items", err)
	}

	donorIDs := make([]string, 0, len(donations))
	orgIDs := make([]string, 0, len(donations))
	for _, d := range donations {
		donorIDs = append(donorIDs, d.DonorID)
		orgIDs = append(orgIDs, utils.PtrString(d.OrgID))
	}

	donors, err := s.donors.DonorsByIDs(ctx, utils.Unique(donorIDs))
	if err != nil {
		return nil, types.Persistence("Failed to fetch donors", err)
	}

	orgs, err := s.orgs.OrganizationsByIDs(ctx, utils.Unique(orgIDs))
	if err != nil {
		return nil, types.Persistence("Failed to fetch organizations", err)
	}

	return &donationContext{
		donations: indexBy(donations, func(d *types.Donation) string { return d.ID }),
		items:     groupBy(items, func(i *types.DonationItem) string { return i.DonationID }),
		donors:    indexBy(donors, func(d *types.Donor) string { return d.UserID }),
		orgs:      indexBy(orgs, func(o *types.Organization) string { return o.UserID }),
	}, nil
}

// counterpartyName is the organization name for donor readers and the donor
// full name for organization readers.
func (c *donationContext) counterpartyName(donationID string, reader types.UserType) (string, bool) {
	donation, ok := c.donations[donationID]
	if !ok {
		return "", false
	}

	switch reader {
	case types.UserTypeDonor:
		org, ok := c.orgs[utils.PtrString(donation.OrgID)]
		if !ok {
			return "", false
		}
		return org.Name, true
	case types.UserTypeOrganization:
		donor, ok := c.donors[donation.DonorID]
		if !ok {
			return "", false
		}
		return donor.FullName(), true
	}

	return "", false
}

func (c *donationContext) itemTypes(donationID string) string {
	names := make([]string, 0, len(c.items[donationID]))
	for _, item := range c.items[donationID] {
		names = append(names, string(item.Type))
	}
	return strings.Join(utils.Unique(names), ", ")
}
