// Package storetest provides in-memory repositories for service and handler
// tests. Each fake can be told to fail a named method via FailOn.
package storetest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"giventake/pkg/types"
)

type faults struct {
	mu     sync.Mutex
	errs   map[string]error
	called map[string]int
}

// FailOn makes every later call to method return err. A nil err clears it.
func (f *faults) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// Calls reports how often method has been invoked.
func (f *faults) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called[method]
}

func (f *faults) hit(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.called == nil {
		f.called = make(map[string]int)
	}
	f.called[method]++
	return f.errs[method]
}

// Store bundles one fake per repository.
type Store struct {
	Users         *Users
	Donors        *Donors
	Organizations *Organizations
	Admins        *Admins
	Donations     *Donations
	Items         *Items
	Details       *Details
	Campaigns     *Campaigns
	BankDetails   *BankDetails
	Feedback      *Feedback
	Notifications *Notifications
}

func New() *Store {
	bankDetails := &BankDetails{rows: make(map[string]*types.BankDetail)}
	return &Store{
		Users:         &Users{rows: make(map[string]*types.User)},
		Donors:        &Donors{rows: make(map[string]*types.Donor)},
		Organizations: &Organizations{rows: make(map[string]*types.Organization), bankDetails: bankDetails},
		Admins:        &Admins{rows: make(map[string]*types.Admin)},
		Donations:     &Donations{rows: make(map[string]*types.Donation)},
		Items:         &Items{},
		Details:       &Details{},
		Campaigns:     &Campaigns{rows: make(map[string]*types.Campaign)},
		BankDetails:   bankDetails,
		Feedback:      &Feedback{rows: make(map[string]*types.Feedback)},
		Notifications: &Notifications{},
	}
}

// clock hands out strictly increasing timestamps so newest-first ordering is
// stable inside a single test.
var clock = struct {
	sync.Mutex
	last time.Time
}{}

func now() time.Time {
	clock.Lock()
	defer clock.Unlock()
	t := time.Now()
	if !t.After(clock.last) {
		t = clock.last.Add(time.Microsecond)
	}
	clock.last = t
	return t
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func newestFirst[T any](rows []*T, at func(*T) time.Time) []*T {
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).After(at(rows[j])) })
	return rows
}

func oldestFirst[T any](rows []*T, at func(*T) time.Time) []*T {
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).Before(at(rows[j])) })
	return rows
}

type Users struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.User
}

func (r *Users) User(ctx context.Context, userID string) (*types.User, error) {
	if err := r.hit("User"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *Users) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	if err := r.hit("UserByEmail"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (r *Users) Create(ctx context.Context, user *types.User) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[user.ID]; ok {
		return types.ErrEmailExists
	}
	user.CreatedAt, user.UpdatedAt = now(), now()
	r.rows[user.ID] = clone(user)
	return nil
}

func (r *Users) Upsert(ctx context.Context, user *types.User) error {
	if err := r.hit("Upsert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user.CreatedAt, user.UpdatedAt = now(), now()
	r.rows[user.ID] = clone(user)
	return nil
}

func (r *Users) Delete(ctx context.Context, userID string) error {
	if err := r.hit("Delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userID)
	return nil
}

func (r *Users) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type Donors struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.Donor
}

func (r *Donors) Donor(ctx context.Context, userID string) (*types.Donor, error) {
	if err := r.hit("Donor"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	return clone(d), nil
}

func (r *Donors) DonorsByIDs(ctx context.Context, userIDs []string) ([]*types.Donor, error) {
	if err := r.hit("DonorsByIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Donor{}
	for _, id := range userIDs {
		if d, ok := r.rows[id]; ok {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (r *Donors) Create(ctx context.Context, donor *types.Donor) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	return r.put(donor)
}

func (r *Donors) Upsert(ctx context.Context, donor *types.Donor) error {
	if err := r.hit("Upsert"); err != nil {
		return err
	}
	return r.put(donor)
}

func (r *Donors) put(donor *types.Donor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	donor.CreatedAt, donor.UpdatedAt = now(), now()
	r.rows[donor.UserID] = clone(donor)
	return nil
}

func (r *Donors) UpdateAddress(ctx context.Context, userID string, address json.RawMessage) (*types.Donor, error) {
	if err := r.hit("UpdateAddress"); err != nil {
		return nil, err
	}
	return r.update(userID, func(d *types.Donor) { d.Address = address })
}

func (r *Donors) UpdateImage(ctx context.Context, userID, imageURL string) (*types.Donor, error) {
	if err := r.hit("UpdateImage"); err != nil {
		return nil, err
	}
	return r.update(userID, func(d *types.Donor) { d.ImageURL = &imageURL })
}

func (r *Donors) update(userID string, fn func(*types.Donor)) (*types.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	fn(d)
	d.UpdatedAt = now()
	return clone(d), nil
}

type Organizations struct {
	faults
	mu          sync.Mutex
	rows        map[string]*types.Organization
	bankDetails *BankDetails
}

func (r *Organizations) Organization(ctx context.Context, userID string) (*types.Organization, error) {
	if err := r.hit("Organization"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrOrganizationNotFound
	}
	return clone(o), nil
}

func (r *Organizations) OrganizationByLicense(ctx context.Context, licenseNo string) (*types.Organization, error) {
	if err := r.hit("OrganizationByLicense"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.rows {
		if o.LicenseNo == licenseNo {
			return clone(o), nil
		}
	}
	return nil, types.ErrOrganizationNotFound
}

func (r *Organizations) OrganizationsByIDs(ctx context.Context, userIDs []string) ([]*types.Organization, error) {
	if err := r.hit("OrganizationsByIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Organization{}
	for _, id := range userIDs {
		if o, ok := r.rows[id]; ok {
			out = append(out, clone(o))
		}
	}
	return out, nil
}

func (r *Organizations) Organizations(ctx context.Context) ([]*types.Organization, error) {
	if err := r.hit("Organizations"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Organization, 0, len(r.rows))
	for _, o := range r.rows {
		out = append(out, clone(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Organizations) Create(ctx context.Context, org *types.Organization) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	return r.put(org)
}

func (r *Organizations) Upsert(ctx context.Context, org *types.Organization) error {
	if err := r.hit("Upsert"); err != nil {
		return err
	}
	return r.put(org)
}

func (r *Organizations) put(org *types.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	org.CreatedAt, org.UpdatedAt = now(), now()
	r.rows[org.UserID] = clone(org)
	return nil
}

func (r *Organizations) UpdateAddress(ctx context.Context, userID string, address json.RawMessage) (*types.Organization, error) {
	if err := r.hit("UpdateAddress"); err != nil {
		return nil, err
	}
	return r.update(userID, func(o *types.Organization) { o.Address = address })
}

func (r *Organizations) UpdateImage(ctx context.Context, userID, imageURL string) (*types.Organization, error) {
	if err := r.hit("UpdateImage"); err != nil {
		return nil, err
	}
	return r.update(userID, func(o *types.Organization) { o.ImageURL = &imageURL })
}

func (r *Organizations) UpdateStatus(ctx context.Context, userID string, status types.OrganizationStatus) (*types.Organization, error) {
	if err := r.hit("UpdateStatus"); err != nil {
		return nil, err
	}
	return r.update(userID, func(o *types.Organization) { o.Status = status })
}

func (r *Organizations) UpdateInfo(ctx context.Context, userID string, update types.OrganizationUpdate, bankDetails []*types.BankDetail) (*types.Organization, error) {
	if err := r.hit("UpdateInfo"); err != nil {
		return nil, err
	}
	org, err := r.update(userID, func(o *types.Organization) {
		setIf(&o.Name, update.Name)
		setIf(&o.Phone, update.Phone)
		setPtrIf(&o.Type, update.Type)
		setPtrIf(&o.Description, update.Description)
		setPtrIf(&o.MissionStatement, update.MissionStatement)
		setPtrIf(&o.MissionScope, update.MissionScope)
		if update.DonationsAccepted != nil {
			o.DonationsAccepted = update.DonationsAccepted
		}
	})
	if err != nil {
		return nil, err
	}
	for _, d := range bankDetails {
		d.OrgID = userID
		if err := r.bankDetails.Create(ctx, d); err != nil {
			return nil, err
		}
	}
	return org, nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setPtrIf(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}

func (r *Organizations) update(userID string, fn func(*types.Organization)) (*types.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrOrganizationNotFound
	}
	fn(o)
	o.UpdatedAt = now()
	return clone(o), nil
}

type Admins struct {
	faults
	mu   sync.Mutex
	rows map[string]*types.Admin
}

func (r *Admins) Admin(ctx context.Context, userID string) (*types.Admin, error) {
	if err := r.hit("Admin"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrAdminNotFound
	}
	return clone(a), nil
}

func (r *Admins) Create(ctx context.Context, admin *types.Admin) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	admin.CreatedAt = now()
	r.rows[admin.UserID] = clone(admin)
	return nil
}
