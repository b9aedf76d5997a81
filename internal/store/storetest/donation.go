package storetest

import (
	"context"
	"slices"
	"sync"
	"time"

	"giventake/pkg/types"
)

type Donations struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.Donation
}

func (r *Donations) Donation(ctx context.Context, donationID string) (*types.Donation, error) {
	if err := r.hit("Donation"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	return clone(d), nil
}

func (r *Donations) DonationsByIDs(ctx context.Context, donationIDs []string) ([]*types.Donation, error) {
	if err := r.hit("DonationsByIDs"); err != nil {
		return nil, err
	}
	return r.list(func(d *types.Donation) bool { return slices.Contains(donationIDs, d.ID) }), nil
}

func (r *Donations) Donations(ctx context.Context, filter types.DonationFilter) ([]*types.Donation, error) {
	if err := r.hit("Donations"); err != nil {
		return nil, err
	}
	return r.list(func(d *types.Donation) bool {
		if filter.DonorID != "" && d.DonorID != filter.DonorID {
			return false
		}
		if filter.OrgID != "" && (d.OrgID == nil || *d.OrgID != filter.OrgID) {
			return false
		}
		if filter.CampaignID != "" && (d.CampaignID == nil || *d.CampaignID != filter.CampaignID) {
			return false
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, d.Status) {
			return false
		}
		if filter.HasCampaign != nil && *filter.HasCampaign != (d.CampaignID != nil) {
			return false
		}
		return true
	}), nil
}

func (r *Donations) list(keep func(*types.Donation) bool) []*types.Donation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Donation{}
	for _, d := range r.rows {
		if keep(d) {
			out = append(out, clone(d))
		}
	}
	return newestFirst(out, func(d *types.Donation) time.Time { return d.CreatedAt })
}

func (r *Donations) Create(ctx context.Context, donation *types.Donation) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	donation.CreatedAt = now()
	donation.UpdatedAt = donation.CreatedAt
	r.rows[donation.ID] = clone(donation)
	return nil
}

func (r *Donations) Update(ctx context.Context, donationID string, update types.DonationUpdate) (*types.Donation, error) {
	if err := r.hit("Update"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	if update.Status != nil {
		d.Status = *update.Status
	}
	if update.OrgID != nil {
		orgID := *update.OrgID
		d.OrgID = &orgID
	}
	d.UpdatedAt = now()
	return clone(d), nil
}

func (r *Donations) Delete(ctx context.Context, donationID string) error {
	if err := r.hit("Delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, donationID)
	return nil
}

func (r *Donations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type Items struct {
	faults
	mu   sync.Mutex
	rows []*types.DonationItem
}

func (r *Items) Create(ctx context.Context, item *types.DonationItem) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item.CreatedAt = now()
	r.rows = append(r.rows, clone(item))
	return nil
}

func (r *Items) ItemsByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.DonationItem, error) {
	if err := r.hit("ItemsByDonationIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.DonationItem{}
	for _, item := range r.rows {
		if slices.Contains(donationIDs, item.DonationID) {
			out = append(out, clone(item))
		}
	}
	return oldestFirst(out, func(i *types.DonationItem) time.Time { return i.CreatedAt }), nil
}

func (r *Items) DeleteByDonation(ctx context.Context, donationID string) error {
	if err := r.hit("DeleteByDonation"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = slices.DeleteFunc(r.rows, func(i *types.DonationItem) bool { return i.DonationID == donationID })
	return nil
}

func (r *Items) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type Details struct {
	faults
	mu      sync.Mutex
	food    []*types.FoodItem
	clothes []*types.ClothesItem
	others  []*types.OtherItem
}

func (r *Details) CreateFood(ctx context.Context, item *types.FoodItem) error {
	if err := r.hit("CreateFood"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item.CreatedAt = now()
	r.food = append(r.food, clone(item))
	return nil
}

func (r *Details) CreateClothes(ctx context.Context, item *types.ClothesItem) error {
	if err := r.hit("CreateClothes"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item.CreatedAt = now()
	r.clothes = append(r.clothes, clone(item))
	return nil
}

func (r *Details) CreateOther(ctx context.Context, item *types.OtherItem) error {
	if err := r.hit("CreateOther"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item.CreatedAt = now()
	r.others = append(r.others, clone(item))
	return nil
}

func (r *Details) FoodByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.FoodItem, error) {
	if err := r.hit("FoodByDonationIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return matching(r.food, donationIDs, func(i *types.FoodItem) string { return i.DonationID }), nil
}

func (r *Details) ClothesByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.ClothesItem, error) {
	if err := r.hit("ClothesByDonationIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return matching(r.clothes, donationIDs, func(i *types.ClothesItem) string { return i.DonationID }), nil
}

func (r *Details) OthersByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.OtherItem, error) {
	if err := r.hit("OthersByDonationIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return matching(r.others, donationIDs, func(i *types.OtherItem) string { return i.DonationID }), nil
}

func (r *Details) DeleteByDonation(ctx context.Context, donationID string) error {
	if err := r.hit("DeleteByDonation"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.food = slices.DeleteFunc(r.food, func(i *types.FoodItem) bool { return i.DonationID == donationID })
	r.clothes = slices.DeleteFunc(r.clothes, func(i *types.ClothesItem) bool { return i.DonationID == donationID })
	r.others = slices.DeleteFunc(r.others, func(i *types.OtherItem) bool { return i.DonationID == donationID })
	return nil
}

// Len counts detail rows across all three tables.
func (r *Details) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.food) + len(r.clothes) + len(r.others)
}

func matching[T any](rows []*T, donationIDs []string, key func(*T) string) []*T {
	out := []*T{}
	for _, row := range rows {
		if slices.Contains(donationIDs, key(row)) {
			out = append(out, clone(row))
		}
	}
	return out
}
