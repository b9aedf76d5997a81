package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"golang.org/x/sync/errgroup"
)

const peopleHelpedMissing = "Not updated by the organisation"

type OrganizationSummary struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

type DonorSummary struct {
	FName    string  `json:"fname"`
	LName    string  `json:"lname"`
	Phone    string  `json:"phone,omitempty"`
	ImageURL *string `json:"image_url"`
}

type ItemWithDetails struct {
	*types.DonationItem
	Details []any `json:"details"`
}

type DonationDetail struct {
	*types.Donation
	Organization        *OrganizationSummary `json:"organization"`
	DonationItems       []*ItemWithDetails   `json:"donation_items"`
	PeopleHelpedDisplay string               `json:"people_helped_display,omitempty"`
}

type ItemType struct {
	Type types.ItemCategory `json:"type"`
}

type DonorDonation struct {
	*types.Donation
	Organization  *OrganizationSummary `json:"organization"`
	DonationItems []ItemType           `json:"donation_items"`
}

// FormattedRequest is the flat shape the organization dashboard renders.
type FormattedRequest struct {
	ID                string               `json:"id"`
	DonorID           string               `json:"donorId"`
	DonorName         string               `json:"donorName"`
	DonorContact      string               `json:"donorContact"`
	OrganizationID    string               `json:"organizationId"`
	Category          string               `json:"category"`
	Item              string               `json:"item"`
	Quantity          string               `json:"quantity"`
	Description       string               `json:"description"`
	Location          json.RawMessage      `json:"location"`
	RequestDate       time.Time            `json:"requestDate"`
	Status            types.DonationStatus `json:"status"`
	Images            []string             `json:"images"`
	AdditionalDetails map[string]any       `json:"additionalDetails"`
}

type OrgRequest struct {
	*types.Donation
	Donor         *DonorSummary      `json:"donor"`
	DonationItems []*ItemWithDetails `json:"donation_items"`
}

type Post struct {
	DonationID  string               `json:"donation_id"`
	Description string               `json:"description"`
	ImageURLs   []string             `json:"image_urls"`
	Type        types.ItemCategory   `json:"type"`
	Status      types.DonationStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	Donor       *DonorSummary        `json:"donor,omitempty"`
}

type CampaignSummary struct {
	Name      string  `json:"name"`
	Thumbnail *string `json:"thumbnail"`
	OrgID     string  `json:"org_id"`
}

type CampaignDonation struct {
	*types.Donation
	AmountDonated *float64         `json:"amount_donated"`
	Campaign      *CampaignSummary `json:"campaign"`
}

type CampaignDonationProof struct {
	DonationID      string               `json:"donation_id"`
	DonorName       string               `json:"donor_name"`
	ImageURL        *string              `json:"image_url"`
	AccStatementImg *string              `json:"acc_statement_img"`
	Amount          *float64             `json:"amount"`
	Status          types.DonationStatus `json:"status"`
}

type DonorStats struct {
	CompletedDonations        int `json:"completed_donations"`
	TotalPeopleHelped         int `json:"total_people_helped"`
	DistinctOrganizationCount int `json:"distinct_organization_count"`
}

// detailSet holds the category detail rows of a batch of donations, keyed
// by donation item id.
type detailSet struct {
	food    map[string][]*types.FoodItem
	clothes map[string][]*types.ClothesItem
	others  map[string][]*types.OtherItem
}

func (d *detailSet) forItem(item *types.DonationItem) []any {
	out := make([]any, 0)
	switch item.Type {
	case types.ItemCategoryFood:
		for _, row := range d.food[item.ID] {
			out = append(out, row)
		}
	case types.ItemCategoryClothes:
		for _, row := range d.clothes[item.ID] {
			out = append(out, row)
		}
	case types.ItemCategoryOthers:
		for _, row := range d.others[item.ID] {
			out = append(out, row)
		}
	}
	return out
}

// loadDetails fetches the three detail tables concurrently.
func (s *DonationService) loadDetails(ctx context.Context, ids []string) (*detailSet, error) {
	var (
		food    []*types.FoodItem
		clothes []*types.ClothesItem
		others  []*types.OtherItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		food, err = s.details.FoodByDonationIDs(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		clothes, err = s.details.ClothesByDonationIDs(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		others, err = s.details.OthersByDonationIDs(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, types.Persistence("Failed to fetch donation details", err)
	}

	return &detailSet{
		food:    groupBy(food, func(f *types.FoodItem) string { return f.DonationItemID }),
		clothes: groupBy(clothes, func(c *types.ClothesItem) string { return c.DonationItemID }),
		others:  groupBy(others, func(o *types.OtherItem) string { return o.DonationItemID }),
	}, nil
}

func (s *DonationService) itemsByDonation(ctx context.Context, ids []string) (map[string][]*types.DonationItem, error) {
	items, err := s.items.ItemsByDonationIDs(ctx, ids)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donation items", err)
	}
	return groupBy(items, func(i *types.DonationItem) string { return i.DonationID }), nil
}

func (s *DonationService) orgsFor(ctx context.Context, donations []*types.Donation) (map[string]*types.Organization, error) {
	ids := make([]string, 0, len(donations))
	for _, d := range donations {
		if d.OrgID != nil {
			ids = append(ids, *d.OrgID)
		}
	}
	orgs, err := s.orgs.OrganizationsByIDs(ctx, utils.Unique(ids))
	if err != nil {
		return nil, types.Persistence("Failed to fetch organizations", err)
	}
	return indexBy(orgs, func(o *types.Organization) string { return o.UserID }), nil
}

func (s *DonationService) donorsFor(ctx context.Context, donations []*types.Donation) (map[string]*types.Donor, error) {
	ids := make([]string, 0, len(donations))
	for _, d := range donations {
		ids = append(ids, d.DonorID)
	}
	donors, err := s.donors.DonorsByIDs(ctx, utils.Unique(ids))
	if err != nil {
		return nil, types.Persistence("Failed to fetch donors", err)
	}
	return indexBy(donors, func(d *types.Donor) string { return d.UserID }), nil
}

func (s *DonationService) listDonations(ctx context.Context, filter types.DonationFilter) ([]*types.Donation, error) {
	donations, err := s.donations.Donations(ctx, filter)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donations", err)
	}
	return donations, nil
}

func orgSummary(orgs map[string]*types.Organization, orgID *string) *OrganizationSummary {
	if orgID == nil {
		return nil
	}
	org, ok := orgs[*orgID]
	if !ok {
		return nil
	}
	return &OrganizationSummary{Name: org.Name, ImageURL: org.ImageURL}
}

func donorSummary(donor *types.Donor, withPhone bool) *DonorSummary {
	if donor == nil {
		return nil
	}
	summary := &DonorSummary{FName: donor.FName, LName: donor.LName, ImageURL: donor.ImageURL}
	if withPhone {
		summary.Phone = donor.Phone
	}
	return summary
}

// Details returns one donation with its organization, items and item
// details.
func (s *DonationService) Details(ctx context.Context, donationID string) (*DonationDetail, error) {
	if strings.TrimSpace(donationID) == "" {
		return nil, types.NewValidationError("donationId is required")
	}

	donation, err := s.donations.Donation(ctx, donationID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch donation", err)
	}

	ids := []string{donation.ID}
	items, err := s.itemsByDonation(ctx, ids)
	if err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	orgs, err := s.orgsFor(ctx, []*types.Donation{donation})
	if err != nil {
		return nil, err
	}

	out := &DonationDetail{
		Donation:      donation,
		Organization:  orgSummary(orgs, donation.OrgID),
		DonationItems: make([]*ItemWithDetails, 0, len(items[donation.ID])),
	}
	for _, item := range items[donation.ID] {
		out.DonationItems = append(out.DonationItems, &ItemWithDetails{
			DonationItem: item,
			Details:      details.forItem(item),
		})
	}

	if donation.Status == types.DonationStatusCompleted {
		feedback, err := s.feedback.FeedbackByDonationIDs(ctx, ids)
		if err != nil {
			return nil, types.Persistence("Failed to fetch feedback", err)
		}
		out.PeopleHelpedDisplay = peopleHelpedMissing
		if len(feedback) > 0 && feedback[0].PeopleHelped > 0 {
			out.PeopleHelpedDisplay = strconv.Itoa(feedback[0].PeopleHelped)
		}
	}

	return out, nil
}

func (s *DonationService) ByDonor(ctx context.Context, donorID string) ([]*DonorDonation, error) {
	if strings.TrimSpace(donorID) == "" {
		return nil, types.NewValidationError("donor_id is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{DonorID: donorID})
	if err != nil {
		return nil, err
	}

	ids := donationIDs(donations)
	items, err := s.itemsByDonation(ctx, ids)
	if err != nil {
		return nil, err
	}

	orgs, err := s.orgsFor(ctx, donations)
	if err != nil {
		return nil, err
	}

	out := make([]*DonorDonation, 0, len(donations))
	for _, d := range donations {
		kinds := make([]ItemType, 0, len(items[d.ID]))
		for _, item := range items[d.ID] {
			kinds = append(kinds, ItemType{Type: item.Type})
		}
		out = append(out, &DonorDonation{
			Donation:      d,
			Organization:  orgSummary(orgs, d.OrgID),
			DonationItems: kinds,
		})
	}

	return out, nil
}

// Requests lists the donations addressed to an organization in the flat
// dashboard shape.
func (s *DonationService) Requests(ctx context.Context, orgID string) ([]*FormattedRequest, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, types.NewValidationError("organizationId is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{OrgID: orgID})
	if err != nil {
		return nil, err
	}

	ids := donationIDs(donations)
	items, err := s.itemsByDonation(ctx, ids)
	if err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	donors, err := s.donorsFor(ctx, donations)
	if err != nil {
		return nil, err
	}

	out := make([]*FormattedRequest, 0, len(donations))
	for _, d := range donations {
		req := &FormattedRequest{
			ID:                d.ID,
			DonorID:           d.DonorID,
			DonorName:         defaultDonorName,
			OrganizationID:    orgID,
			Location:          d.Location,
			RequestDate:       d.CreatedAt,
			Status:            d.Status,
			Images:            []string{},
			AdditionalDetails: map[string]any{},
		}
		if donor, ok := donors[d.DonorID]; ok {
			req.DonorName = donor.FullName()
			req.DonorContact = donor.Phone
		}

		if donationItems := items[d.ID]; len(donationItems) > 0 {
			fillRequestItem(req, donationItems[0], details)
		}

		out = append(out, req)
	}

	return out, nil
}

func fillRequestItem(req *FormattedRequest, item *types.DonationItem, details *detailSet) {
	req.Category = string(item.Type)

	switch item.Type {
	case types.ItemCategoryFood:
		rows := details.food[item.ID]
		if len(rows) == 0 {
			return
		}
		food := rows[0]
		req.Item = food.Name
		req.Quantity = strings.TrimSpace(utils.FormatAmount(food.Qty) + " " + utils.PtrString(food.Unit))
		req.Description = utils.PtrString(food.AdditionalComments)
		if len(food.ImageURLs) > 0 {
			req.Images = food.ImageURLs
		}
		req.AdditionalDetails = map[string]any{
			"food_type": food.Type,
			"pkg_type":  food.PkgType,
			"exp_date":  food.ExpDate,
			"storage":   food.Storage,
		}

	case types.ItemCategoryClothes:
		rows := details.clothes[item.ID]
		if len(rows) == 0 {
			return
		}
		clothes := rows[0]
		req.Item = clothes.Type
		req.Quantity = strconv.Itoa(clothes.Qty)
		req.Description = utils.PtrString(clothes.AdditionalComments)
		if len(clothes.ImageURLs) > 0 {
			req.Images = clothes.ImageURLs
		}
		req.AdditionalDetails = map[string]any{
			"size":        clothes.Size,
			"condition":   clothes.Condition,
			"fabric_type": clothes.FabricType,
		}

	case types.ItemCategoryOthers:
		rows := details.others[item.ID]
		if len(rows) == 0 {
			return
		}
		req.Item = "Other items"
		req.Description = rows[0].Description
		if len(rows[0].ImageURLs) > 0 {
			req.Images = rows[0].ImageURLs
		}

	case types.ItemCategoryCampaign:
		req.Item = "Campaign donation"
		if item.AmountDonated != nil {
			req.Quantity = utils.FormatAmount(*item.AmountDonated)
		}
	}
}

// AllRequests lists an organization's donations that carry food or clothes
// details, each item with its first detail row.
func (s *DonationService) AllRequests(ctx context.Context, orgID string) ([]*OrgRequest, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, types.NewValidationError("org_id is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{OrgID: orgID})
	if err != nil {
		return nil, err
	}

	ids := donationIDs(donations)
	items, err := s.itemsByDonation(ctx, ids)
	if err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	donors, err := s.donorsFor(ctx, donations)
	if err != nil {
		return nil, err
	}

	out := make([]*OrgRequest, 0, len(donations))
	for _, d := range donations {
		var withDetails []*ItemWithDetails
		for _, item := range items[d.ID] {
			if item.Type != types.ItemCategoryFood && item.Type != types.ItemCategoryClothes {
				continue
			}
			rows := details.forItem(item)
			if len(rows) == 0 {
				continue
			}
			withDetails = append(withDetails, &ItemWithDetails{DonationItem: item, Details: rows[:1]})
		}
		if len(withDetails) == 0 {
			continue
		}

		out = append(out, &OrgRequest{
			Donation:      d,
			Donor:         donorSummary(donors[d.DonorID], true),
			DonationItems: withDetails,
		})
	}

	return out, nil
}

// OrgPosts lists the others-category posts an organization has taken on.
func (s *DonationService) OrgPosts(ctx context.Context, orgID string) ([]*Post, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, types.NewValidationError("org_id is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{
		OrgID: orgID,
		Statuses: []types.DonationStatus{
			types.DonationStatusInProgress,
			types.DonationStatusPickedUp,
			types.DonationStatusCompleted,
		},
	})
	if err != nil {
		return nil, err
	}

	return s.posts(ctx, donations, false)
}

// PendingPosts lists others-category posts still waiting for an
// organization.
func (s *DonationService) PendingPosts(ctx context.Context) ([]*Post, error) {
	donations, err := s.listDonations(ctx, types.DonationFilter{
		Statuses: []types.DonationStatus{types.DonationStatusPending},
	})
	if err != nil {
		return nil, err
	}

	return s.posts(ctx, donations, true)
}

func (s *DonationService) posts(ctx context.Context, donations []*types.Donation, withDonor bool) ([]*Post, error) {
	others, err := s.details.OthersByDonationIDs(ctx, donationIDs(donations))
	if err != nil {
		return nil, types.Persistence("Failed to fetch posts", err)
	}

	var donors map[string]*types.Donor
	if withDonor {
		donors, err = s.donorsFor(ctx, donations)
		if err != nil {
			return nil, err
		}
	}

	byDonation := indexBy(donations, func(d *types.Donation) string { return d.ID })
	out := make([]*Post, 0, len(others))
	for _, other := range others {
		donation, ok := byDonation[other.DonationID]
		if !ok {
			continue
		}
		post := &Post{
			DonationID:  donation.ID,
			Description: other.Description,
			ImageURLs:   other.ImageURLs,
			Type:        types.ItemCategoryOthers,
			Status:      donation.Status,
			CreatedAt:   donation.CreatedAt,
		}
		if withDonor {
			post.Donor = donorSummary(donors[donation.DonorID], false)
		}
		out = append(out, post)
	}

	return out, nil
}

func campaignAmount(items []*types.DonationItem) *float64 {
	for _, item := range items {
		if item.Type == types.ItemCategoryCampaign {
			return item.AmountDonated
		}
	}
	return nil
}

func (s *DonationService) CampaignDonations(ctx context.Context, donorID string) ([]*CampaignDonation, error) {
	if strings.TrimSpace(donorID) == "" {
		return nil, types.NewValidationError("donor_id is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{
		DonorID:     donorID,
		HasCampaign: utils.BoolPtr(true),
	})
	if err != nil {
		return nil, err
	}

	items, err := s.itemsByDonation(ctx, donationIDs(donations))
	if err != nil {
		return nil, err
	}

	campaignIDs := make([]string, 0, len(donations))
	for _, d := range donations {
		campaignIDs = append(campaignIDs, utils.PtrString(d.CampaignID))
	}
	campaigns, err := s.campaigns.CampaignsByIDs(ctx, utils.Unique(campaignIDs))
	if err != nil {
		return nil, types.Persistence("Failed to fetch campaigns", err)
	}
	byID := indexBy(campaigns, func(c *types.Campaign) string { return c.ID })

	out := make([]*CampaignDonation, 0, len(donations))
	for _, d := range donations {
		row := &CampaignDonation{
			Donation:      d,
			AmountDonated: campaignAmount(items[d.ID]),
		}
		if c, ok := byID[utils.PtrString(d.CampaignID)]; ok {
			row.Campaign = &CampaignSummary{Name: c.Name, Thumbnail: c.Thumbnail, OrgID: c.OrgID}
		}
		out = append(out, row)
	}

	return out, nil
}

// VerifyCampaignDonations lists the transfer proofs submitted to a
// campaign.
func (s *DonationService) VerifyCampaignDonations(ctx context.Context, campaignID string) ([]*CampaignDonationProof, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, types.NewValidationError("campaign_id is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{CampaignID: campaignID})
	if err != nil {
		return nil, err
	}

	items, err := s.itemsByDonation(ctx, donationIDs(donations))
	if err != nil {
		return nil, err
	}

	donors, err := s.donorsFor(ctx, donations)
	if err != nil {
		return nil, err
	}

	out := make([]*CampaignDonationProof, 0, len(donations))
	for _, d := range donations {
		donor, ok := donors[d.DonorID]
		if !ok {
			continue
		}
		out = append(out, &CampaignDonationProof{
			DonationID:      d.ID,
			DonorName:       donor.FullName(),
			ImageURL:        donor.ImageURL,
			AccStatementImg: d.AccStatementImg,
			Amount:          campaignAmount(items[d.ID]),
			Status:          d.Status,
		})
	}

	return out, nil
}

func (s *DonationService) Stats(ctx context.Context, donorID string) (*DonorStats, error) {
	if strings.TrimSpace(donorID) == "" {
		return nil, types.NewValidationError("donor_id is required")
	}

	donations, err := s.listDonations(ctx, types.DonationFilter{
		DonorID:  donorID,
		Statuses: []types.DonationStatus{types.DonationStatusCompleted},
	})
	if err != nil {
		return nil, err
	}

	feedback, err := s.feedback.FeedbackByDonationIDs(ctx, donationIDs(donations))
	if err != nil {
		return nil, types.Persistence("Failed to fetch feedback", err)
	}

	stats := &DonorStats{CompletedDonations: len(donations)}
	for _, f := range feedback {
		stats.TotalPeopleHelped += f.PeopleHelped
	}

	orgIDs := make([]string, 0, len(donations))
	for _, d := range donations {
		orgIDs = append(orgIDs, utils.PtrString(d.OrgID))
	}
	stats.DistinctOrganizationCount = len(utils.Unique(orgIDs))

	return stats, nil
}
