package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
)

// Notifier delivers donation status notifications.
type Notifier interface {
	NotifyDonationStatus(ctx context.Context, donation *types.Donation) ([]*types.Notification, error)
}

// DonationService owns the donation lifecycle: submission, status changes,
// feedback and the enriched read models in donation_query.go.
type DonationService struct {
	logger    logrus.FieldLogger
	donations DonationRepository
	items     DonationItemRepository
	details   DetailRepository
	campaigns CampaignRepository
	feedback  FeedbackRepository
	donors    DonorRepository
	orgs      OrganizationRepository
	notifier  Notifier
}

func NewDonationService(
	logger logrus.FieldLogger,
	donations DonationRepository,
	items DonationItemRepository,
	details DetailRepository,
	campaigns CampaignRepository,
	feedback FeedbackRepository,
	donors DonorRepository,
	orgs OrganizationRepository,
	notifier Notifier,
) *DonationService {
	return &DonationService{
		logger:    logger,
		donations: donations,
		items:     items,
		details:   details,
		campaigns: campaigns,
		feedback:  feedback,
		donors:    donors,
		orgs:      orgs,
		notifier:  notifier,
	}
}

// Submit records a donation with one item row per category and one detail
// row per submitted item. Every item is checked before deciding; if any
// fails, all rows written for the donation are removed again.
func (s *DonationService) Submit(ctx context.Context, in *types.DonationInput) (string, error) {
	donorID := strings.TrimSpace(in.DonorID)
	orgID := strings.TrimSpace(in.OrgID)
	if donorID == "" || orgID == "" || in.Status == "" {
		return "", types.NewValidationError("Donor ID, Org ID, and Status are required")
	}
	if !in.Status.Valid() {
		return "", types.NewValidationError("Invalid status value: %q", in.Status)
	}

	items := in.AllItems()
	if len(items) == 0 {
		return "", types.NewValidationError("At least one donation item is required")
	}

	donation := &types.Donation{
		ID:       utils.NanoID(),
		DonorID:  donorID,
		OrgID:    utils.StringPtr(orgID),
		Status:   in.Status,
		Location: in.Location,
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return "", &types.PersistenceError{Op: "Failed to add donation record", Err: err}
	}

	itemIDs := make(map[types.ItemCategory]string)
	for _, category := range distinctCategories(items) {
		item := &types.DonationItem{
			ID:         utils.NanoID(),
			DonationID: donation.ID,
			Type:       category,
		}
		if category == types.ItemCategoryCampaign {
			item.AmountDonated = campaignTotal(items)
		}

		if err := s.items.Create(ctx, item); err != nil {
			s.compensate(ctx, donation.ID)
			return "", &types.PersistenceError{Op: fmt.Sprintf("Failed to insert %s category", category), Err: err}
		}
		itemIDs[category] = item.ID
	}

	var failures []string
	validationOnly := true
	for i, item := range items {
		itemID, ok := itemIDs[item.Category]
		if !ok {
			failures = append(failures, fmt.Sprintf("item %d: Unsupported category: %q", i+1, item.Category))
			continue
		}

		err := s.insertDetail(ctx, donation.ID, itemID, item)
		if err == nil {
			continue
		}

		var verr *types.ValidationError
		if errors.As(err, &verr) {
			failures = append(failures, fmt.Sprintf("item %d: %s", i+1, verr.Message))
			continue
		}

		validationOnly = false
		s.logger.WithError(err).WithFields(logrus.Fields{
			"donation_id": donation.ID,
			"category":    item.Category,
		}).Error("failed to insert donation detail")
		failures = append(failures, fmt.Sprintf("item %d: Failed to insert %s item", i+1, item.Category))
	}

	if len(failures) > 0 {
		s.compensate(ctx, donation.ID)
		return "", &types.RollbackError{Errors: failures, Validation: validationOnly}
	}

	s.logger.WithFields(logrus.Fields{
		"donation_id": donation.ID,
		"donor_id":    donorID,
		"items":       len(items),
	}).Info("donation submitted")

	return donation.ID, nil
}

func distinctCategories(items []types.SubmittedItem) []types.ItemCategory {
	seen := make(map[types.ItemCategory]struct{})
	out := make([]types.ItemCategory, 0, 4)
	for _, item := range items {
		if !item.Category.Valid() {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

// campaignTotal sums the amounts of every well-formed campaign item.
func campaignTotal(items []types.SubmittedItem) *float64 {
	var total float64
	for _, item := range items {
		if item.Category != types.ItemCategoryCampaign {
			continue
		}
		var data types.CampaignItemData
		if err := json.Unmarshal(item.Data, &data); err == nil && data.Amount > 0 {
			total += data.Amount
		}
	}
	return &total
}

// insertDetail validates one submitted item and writes its detail row. A
// *types.ValidationError means the item itself was bad.
func (s *DonationService) insertDetail(ctx context.Context, donationID, itemID string, item types.SubmittedItem) error {
	data := item.Data
	if len(data) == 0 || string(data) == "null" {
		data = []byte("{}")
	}

	switch item.Category {
	case types.ItemCategoryFood:
		var in types.FoodData
		if err := json.Unmarshal(data, &in); err != nil {
			return types.NewValidationError("Invalid food item data")
		}
		if err := itemValidation(item.Category, &in); err != nil {
			return err
		}
		comments := in.AdditionalComments
		if comments == nil {
			comments = in.Comments
		}
		return s.details.CreateFood(ctx, &types.FoodItem{
			ID:                 utils.NanoID(),
			DonationID:         donationID,
			DonationItemID:     itemID,
			Name:               in.Name,
			Type:               in.Type,
			Qty:                in.Qty,
			Unit:               in.Unit,
			PkgType:            in.PkgType,
			ExpDate:            in.ExpDate,
			Storage:            in.Storage,
			AdditionalComments: comments,
			ImageURLs:          firstNonEmpty(in.ImageURLs, in.ImageURLsCamel),
		})

	case types.ItemCategoryClothes:
		var in types.ClothesData
		if err := json.Unmarshal(data, &in); err != nil {
			return types.NewValidationError("Invalid clothes item data")
		}
		qty := in.Qty
		if qty == 0 {
			qty = in.Quantity
		}
		var extra []string
		if qty <= 0 {
			extra = append(extra, "qty")
		}
		if err := itemValidation(item.Category, &in, extra...); err != nil {
			return err
		}
		return s.details.CreateClothes(ctx, &types.ClothesItem{
			ID:                 utils.NanoID(),
			DonationID:         donationID,
			DonationItemID:     itemID,
			Type:               in.Type,
			Size:               in.Size,
			Condition:          in.Condition,
			FabricType:         in.FabricType,
			Qty:                qty,
			AdditionalComments: in.AdditionalComments,
			ImageURLs:          firstNonEmpty(in.ImageURLs, in.ImageURLsCamel),
		})

	case types.ItemCategoryOthers:
		var in types.OthersData
		if err := json.Unmarshal(data, &in); err != nil {
			return types.NewValidationError("Invalid others item data")
		}
		images := firstNonEmpty(in.ImageURLs, in.ImageURLsCamel)
		var extra []string
		if len(images) == 0 {
			extra = append(extra, "image_urls")
		}
		if err := itemValidation(item.Category, &in, extra...); err != nil {
			return err
		}
		return s.details.CreateOther(ctx, &types.OtherItem{
			ID:             utils.NanoID(),
			DonationID:     donationID,
			DonationItemID: itemID,
			Description:    in.Description,
			ImageURLs:      images,
		})

	case types.ItemCategoryCampaign:
		var in types.CampaignItemData
		if err := json.Unmarshal(data, &in); err != nil {
			return types.NewValidationError("Invalid campaign item data")
		}
		// The amount lives on the item row; there is no detail table.
		return itemValidation(item.Category, &in)
	}

	return types.NewValidationError("Unsupported category: %q", item.Category)
}

func itemValidation(category types.ItemCategory, input any, extraMissing ...string) error {
	var fields []string
	if err := validateInput(input); err != nil {
		var verr *types.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		fields = verr.Fields
	}

	fields = append(fields, extraMissing...)
	if len(fields) == 0 {
		return nil
	}

	return &types.ValidationError{
		Message: fmt.Sprintf("Missing required fields for %s item: %s", category, strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

func firstNonEmpty(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

// purge deletes detail rows, then item rows, then the header. Each delete is
// a no-op when nothing matches, so purging twice is harmless.
func (s *DonationService) purge(ctx context.Context, donationID string) error {
	var errs []error
	if err := s.details.DeleteByDonation(ctx, donationID); err != nil {
		errs = append(errs, err)
	}
	if err := s.items.DeleteByDonation(ctx, donationID); err != nil {
		errs = append(errs, err)
	}
	if err := s.donations.Delete(ctx, donationID); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// compensate undoes a failed submission. It runs even if the request
// context was cancelled.
func (s *DonationService) compensate(ctx context.Context, donationID string) {
	if err := s.purge(context.WithoutCancel(ctx), donationID); err != nil {
		s.logger.WithError(err).WithField("donation_id", donationID).Error("failed to roll back donation")
		return
	}
	s.logger.WithField("donation_id", donationID).Warn("donation rolled back")
}

func (s *DonationService) SubmitCampaignDonation(ctx context.Context, in *types.CampaignDonationInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}

	status := in.Status
	if status == "" {
		status = types.DonationStatusPending
	}
	if !status.Valid() {
		return "", types.NewValidationError("Invalid status value: %q", status)
	}

	campaign, err := s.campaigns.Campaign(ctx, in.CampaignID)
	if err != nil {
		return "", types.Persistence("Failed to fetch campaign", err)
	}
	if campaign.OrgID != in.OrgID {
		return "", types.NewError(types.ErrCampaignNotFound, "Campaign not found for this organization")
	}

	donation := &types.Donation{
		ID:              utils.NanoID(),
		DonorID:         in.DonorID,
		OrgID:           utils.StringPtr(in.OrgID),
		Status:          status,
		CampaignID:      utils.StringPtr(campaign.ID),
		AccStatementImg: in.AccStatementImg,
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return "", &types.PersistenceError{Op: "Failed to add donation record", Err: err}
	}

	item := &types.DonationItem{
		ID:            utils.NanoID(),
		DonationID:    donation.ID,
		Type:          types.ItemCategoryCampaign,
		AmountDonated: utils.Float64Ptr(in.Amount),
	}
	if err := s.items.Create(ctx, item); err != nil {
		s.compensate(ctx, donation.ID)
		return "", &types.PersistenceError{Op: "Failed to record campaign donation", Err: err}
	}

	return donation.ID, nil
}

// Delete removes a donation with all of its items and details.
func (s *DonationService) Delete(ctx context.Context, donationID string) error {
	if strings.TrimSpace(donationID) == "" {
		return types.NewValidationError("donation_id is required")
	}

	if _, err := s.donations.Donation(ctx, donationID); err != nil {
		return types.Persistence("Failed to fetch donation", err)
	}

	if err := s.purge(ctx, donationID); err != nil {
		return types.Persistence("Failed to delete donation", err)
	}

	return nil
}

func (s *DonationService) Status(ctx context.Context, donationID string) (*types.Donation, error) {
	donation, err := s.donations.Donation(ctx, donationID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donation", err)
	}
	return donation, nil
}

// AcceptPost assigns a pending donation to an organization and starts it.
func (s *DonationService) AcceptPost(ctx context.Context, in *types.AcceptPostInput) (*types.Donation, []*types.Notification, error) {
	orgID := strings.TrimSpace(in.OrganisationID)
	if orgID == "" {
		orgID = strings.TrimSpace(in.OrgID)
	}
	if strings.TrimSpace(in.DonationID) == "" || orgID == "" {
		return nil, nil, types.NewValidationError("Donation ID and Organisation ID are required")
	}

	status := types.DonationStatusInProgress
	donation, err := s.donations.Update(ctx, in.DonationID, types.DonationUpdate{
		Status: &status,
		OrgID:  &orgID,
	})
	if err != nil {
		return nil, nil, types.Persistence("Failed to accept donation", err)
	}

	return donation, s.notify(ctx, donation), nil
}

// UpdateStatus moves a donation to an organization-side status and notifies
// the parties involved.
func (s *DonationService) UpdateStatus(ctx context.Context, in *types.StatusUpdateInput) (*types.Donation, []*types.Notification, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}
	if !in.Status.Transition() {
		return nil, nil, types.NewValidationError("Invalid status value")
	}

	status := in.Status
	donation, err := s.donations.Update(ctx, in.DonationID, types.DonationUpdate{Status: &status})
	if err != nil {
		return nil, nil, types.Persistence("Failed to update donation status", err)
	}

	return donation, s.notify(ctx, donation), nil
}

// ReviewCampaignDonation settles a campaign donation: accept completes it,
// reject rejects it.
func (s *DonationService) ReviewCampaignDonation(ctx context.Context, in *types.CampaignReviewInput) (*types.Donation, []*types.Notification, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}

	current, err := s.donations.Donation(ctx, in.DonationID)
	if err != nil {
		return nil, nil, types.Persistence("Failed to fetch donation", err)
	}
	if current.CampaignID == nil {
		return nil, nil, types.NewValidationError("Donation is not a campaign donation")
	}

	status := types.DonationStatusCompleted
	if in.Context == "reject" {
		status = types.DonationStatusRejected
	}

	donation, err := s.donations.Update(ctx, in.DonationID, types.DonationUpdate{Status: &status})
	if err != nil {
		return nil, nil, types.Persistence("Failed to update campaign donation", err)
	}

	return donation, s.notify(ctx, donation), nil
}

// notify never fails the caller: the status change is already stored.
func (s *DonationService) notify(ctx context.Context, donation *types.Donation) []*types.Notification {
	notifications, err := s.notifier.NotifyDonationStatus(ctx, donation)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"donation_id": donation.ID,
			"status":      donation.Status,
		}).Error("failed to create donation notification")
		return []*types.Notification{}
	}
	return notifications
}

func (s *DonationService) RecordFeedback(ctx context.Context, in *types.FeedbackInput) (*types.Feedback, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	donation, err := s.completedDonation(ctx, in.DonationID)
	if err != nil {
		return nil, err
	}

	feedback := &types.Feedback{
		DonationID:   donation.ID,
		DonorID:      donation.DonorID,
		Description:  in.Description,
		Image:        in.Image,
		PeopleHelped: *in.PeopleHelped,
	}
	if err := s.feedback.Upsert(ctx, feedback); err != nil {
		return nil, types.Persistence("Failed to save feedback", err)
	}

	return feedback, nil
}

// UpdatePeopleHelped changes only the count, keeping any description and
// image already recorded.
func (s *DonationService) UpdatePeopleHelped(ctx context.Context, in *types.PeopleHelpedInput) (*types.Feedback, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	donation, err := s.completedDonation(ctx, in.DonationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.feedback.FeedbackByDonationIDs(ctx, []string{donation.ID})
	if err != nil {
		return nil, types.Persistence("Failed to fetch feedback", err)
	}

	feedback := &types.Feedback{
		DonationID: donation.ID,
		DonorID:    donation.DonorID,
	}
	if len(existing) > 0 {
		feedback.Description = existing[0].Description
		feedback.Image = existing[0].Image
	}
	feedback.PeopleHelped = *in.PeopleHelped

	if err := s.feedback.Upsert(ctx, feedback); err != nil {
		return nil, types.Persistence("Failed to update people helped", err)
	}

	return feedback, nil
}

func (s *DonationService) completedDonation(ctx context.Context, donationID string) (*types.Donation, error) {
	donation, err := s.donations.Donation(ctx, donationID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donation", err)
	}
	if donation.Status != types.DonationStatusCompleted {
		return nil, types.NewValidationError("Feedback can only be recorded for completed donations")
	}
	return donation, nil
}

func (s *DonationService) Feedback(ctx context.Context, donationID string) ([]*types.Feedback, error) {
	if strings.TrimSpace(donationID) == "" {
		return nil, types.NewValidationError("donation_id is required")
	}

	feedback, err := s.feedback.FeedbackByDonationIDs(ctx, []string{donationID})
	if err != nil {
		return nil, types.Persistence("Failed to fetch feedback", err)
	}
	if len(feedback) == 0 {
		return nil, types.NewError(types.ErrFeedbackNotFound, "No feedback found")
	}

	return feedback, nil
}
