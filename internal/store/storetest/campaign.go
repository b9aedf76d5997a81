package storetest

import (
	"context"
	"slices"
	"sync"
	"time"

	"giventake/pkg/types"
)

type Campaigns struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.Campaign
}

func (r *Campaigns) Campaign(ctx context.Context, campaignID string) (*types.Campaign, error) {
	if err := r.hit("Campaign"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[campaignID]
	if !ok {
		return nil, types.ErrCampaignNotFound
	}
	return clone(c), nil
}

func (r *Campaigns) CampaignsByIDs(ctx context.Context, campaignIDs []string) ([]*types.Campaign, error) {
	if err := r.hit("CampaignsByIDs"); err != nil {
		return nil, err
	}
	return r.list(func(c *types.Campaign) bool { return slices.Contains(campaignIDs, c.ID) }), nil
}

func (r *Campaigns) Campaigns(ctx context.Context, orgID string) ([]*types.Campaign, error) {
	if err := r.hit("Campaigns"); err != nil {
		return nil, err
	}
	return r.list(func(c *types.Campaign) bool { return orgID == "" || c.OrgID == orgID }), nil
}

func (r *Campaigns) list(keep func(*types.Campaign) bool) []*types.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Campaign{}
	for _, c := range r.rows {
		if keep(c) {
			out = append(out, clone(c))
		}
	}
	return newestFirst(out, func(c *types.Campaign) time.Time { return c.CreatedAt })
}

func (r *Campaigns) Create(ctx context.Context, campaign *types.Campaign) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	return r.put(campaign)
}

func (r *Campaigns) Upsert(ctx context.Context, campaign *types.Campaign) error {
	if err := r.hit("Upsert"); err != nil {
		return err
	}
	return r.put(campaign)
}

func (r *Campaigns) put(campaign *types.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	campaign.CreatedAt = now()
	r.rows[campaign.ID] = clone(campaign)
	return nil
}

// AddFunds increments under the fake's lock, matching the single UPDATE the
// pgx repository issues.
func (r *Campaigns) AddFunds(ctx context.Context, campaignID string, amount float64) (float64, error) {
	if err := r.hit("AddFunds"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[campaignID]
	if !ok {
		return 0, types.ErrCampaignNotFound
	}
	total := amount
	if c.AmountRaised != nil {
		total += *c.AmountRaised
	}
	c.AmountRaised = &total
	return total, nil
}

type BankDetails struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.BankDetail
}

func (r *BankDetails) BankDetailsByOrg(ctx context.Context, orgID string) ([]*types.BankDetail, error) {
	if err := r.hit("BankDetailsByOrg"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.BankDetail{}
	for _, d := range r.rows {
		if d.OrgID == orgID {
			out = append(out, clone(d))
		}
	}
	return oldestFirst(out, func(d *types.BankDetail) time.Time { return d.CreatedAt }), nil
}

// Create ignores a detail whose id already exists.
func (r *BankDetails) Create(ctx context.Context, detail *types.BankDetail) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[detail.ID]; ok {
		return nil
	}
	detail.CreatedAt = now()
	r.rows[detail.ID] = clone(detail)
	return nil
}

func (r *BankDetails) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type Feedback struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.Feedback
}

func (r *Feedback) FeedbackByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.Feedback, error) {
	if err := r.hit("FeedbackByDonationIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Feedback{}
	for _, id := range donationIDs {
		if f, ok := r.rows[id]; ok {
			out = append(out, clone(f))
		}
	}
	return out, nil
}

func (r *Feedback) Upsert(ctx context.Context, feedback *types.Feedback) error {
	if err := r.hit("Upsert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	feedback.UpdatedAt = now()
	if existing, ok := r.rows[feedback.DonationID]; ok {
		feedback.CreatedAt = existing.CreatedAt
	} else {
		feedback.CreatedAt = feedback.UpdatedAt
	}
	r.rows[feedback.DonationID] = clone(feedback)
	return nil
}
