package types

import (
	"encoding/json"
	"time"
)

type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "pending"
	DonationStatusInProgress DonationStatus = "in_progress"
	DonationStatusRejected   DonationStatus = "rejected"
	DonationStatusCancelled  DonationStatus = "cancelled"
	DonationStatusPickedUp   DonationStatus = "picked_up"
	DonationStatusCompleted  DonationStatus = "completed"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusInProgress, DonationStatusRejected,
		DonationStatusCancelled, DonationStatusPickedUp, DonationStatusCompleted:
		return true
	}
	return false
}

// Transition reports whether s is a status an organization may move a donation to.
func (s DonationStatus) Transition() bool {
	return s.Valid() && s != DonationStatusPending
}

type ItemCategory string

const (
	ItemCategoryFood     ItemCategory = "food"
	ItemCategoryClothes  ItemCategory = "clothes"
	ItemCategoryOthers   ItemCategory = "others"
	ItemCategoryCampaign ItemCategory = "campaign"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case ItemCategoryFood, ItemCategoryClothes, ItemCategoryOthers, ItemCategoryCampaign:
		return true
	}
	return false
}

type Donation struct {
	ID              string          `db:"id" json:"id"`
	DonorID         string          `db:"donor_id" json:"donor_id"`
	OrgID           *string         `db:"org_id" json:"org_id"`
	Status          DonationStatus  `db:"status" json:"status"`
	Location        json.RawMessage `db:"location" json:"location"`
	CampaignID      *string         `db:"campaign_id" json:"campaign_id"`
	AccStatementImg *string         `db:"acc_statement_img" json:"acc_statement_img"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

type DonationFilter struct {
	DonorID     string
	OrgID       string
	CampaignID  string
	Statuses    []DonationStatus
	HasCampaign *bool
}

type DonationUpdate struct {
	Status *DonationStatus `db:"status"`
	OrgID  *string         `db:"org_id"`
}

type DonationItem struct {
	ID            string       `db:"id" json:"id"`
	DonationID    string       `db:"donation_id" json:"donation_id"`
	Type          ItemCategory `db:"type" json:"type"`
	AmountDonated *float64     `db:"amount_donated" json:"amount_donated"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

type FoodItem struct {
	ID                 string    `db:"id" json:"id"`
	DonationID         string    `db:"donation_id" json:"donation_id"`
	DonationItemID     string    `db:"donation_item_id" json:"donation_item_id"`
	Name               string    `db:"name" json:"name"`
	Type               string    `db:"type" json:"type"`
	Qty                float64   `db:"qty" json:"qty"`
	Unit               *string   `db:"unit" json:"unit"`
	PkgType            string    `db:"pkg_type" json:"pkg_type"`
	ExpDate            string    `db:"exp_date" json:"exp_date"`
	Storage            *string   `db:"storage" json:"storage"`
	AdditionalComments *string   `db:"additional_comments" json:"additional_comments"`
	ImageURLs          []string  `db:"image_urls" json:"image_urls"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type ClothesItem struct {
	ID                 string    `db:"id" json:"id"`
	DonationID         string    `db:"donation_id" json:"donation_id"`
	DonationItemID     string    `db:"donation_item_id" json:"donation_item_id"`
	Type               string    `db:"type" json:"type"`
	Size               string    `db:"size" json:"size"`
	Condition          string    `db:"condition" json:"condition"`
	FabricType         string    `db:"fabric_type" json:"fabric_type"`
	Qty                int       `db:"qty" json:"qty"`
	AdditionalComments *string   `db:"additional_comments" json:"additional_comments"`
	ImageURLs          []string  `db:"image_urls" json:"image_urls"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type OtherItem struct {
	ID             string    `db:"id" json:"id"`
	DonationID     string    `db:"donation_id" json:"donation_id"`
	DonationItemID string    `db:"donation_item_id" json:"donation_item_id"`
	Description    string    `db:"description" json:"description"`
	ImageURLs      []string  `db:"image_urls" json:"image_urls"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Feedback struct {
	DonationID   string    `db:"donation_id" json:"donation_id"`
	DonorID      string    `db:"donor_id" json:"donor_id"`
	Description  *string   `db:"description" json:"description"`
	Image        *string   `db:"image" json:"image"`
	PeopleHelped int       `db:"people_helped" json:"people_helped"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
