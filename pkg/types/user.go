package types

import (
	"encoding/json"
	"time"
)

type UserType string

const (
	UserTypeDonor        UserType = "donor"
	UserTypeOrganization UserType = "organization"
	UserTypeAdmin        UserType = "admin"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeDonor, UserTypeOrganization, UserTypeAdmin:
		return true
	}
	return false
}

// User is the generic identity row. Credentials live in the identity
// provider, keyed by the same id.
type User struct {
	ID         string    `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone"`
	UserType   UserType  `db:"user_type" json:"user_type"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Donor struct {
	UserID    string          `db:"user_id" json:"user_id"`
	FName     string          `db:"fname" json:"fname"`
	LName     string          `db:"lname" json:"lname"`
	Phone     string          `db:"phone" json:"phone"`
	CNICNo    string          `db:"cnic_no" json:"cnic_no"`
	Address   json.RawMessage `db:"address" json:"address"`
	ImageURL  *string         `db:"image_url" json:"image_url"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

func (d *Donor) FullName() string {
	if d.LName == "" {
		return d.FName
	}
	return d.FName + " " + d.LName
}

type OrganizationStatus string

const (
	OrganizationStatusPending  OrganizationStatus = "pending"
	OrganizationStatusApproved OrganizationStatus = "approved"
	OrganizationStatusRejected OrganizationStatus = "rejected"
)

type Organization struct {
	UserID               string             `db:"user_id" json:"user_id"`
	Name                 string             `db:"name" json:"name"`
	LicenseNo            string             `db:"license_no" json:"license_no"`
	Type                 *string            `db:"type" json:"type"`
	MissionStatement     *string            `db:"mission_statement" json:"mission_statement"`
	MissionScope         *string            `db:"mission_scope" json:"mission_scope"`
	DonationsAccepted    []string           `db:"donations_accepted" json:"donations_accepted"`
	Phone                string             `db:"phone" json:"phone"`
	Address              json.RawMessage    `db:"address" json:"address"`
	Description          *string            `db:"description" json:"description"`
	RegistrationDocument *string            `db:"registration_document" json:"registration_document"`
	ImageURL             *string            `db:"image_url" json:"image_url"`
	Status               OrganizationStatus `db:"status" json:"status"`
	CreatedAt            time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `db:"updated_at" json:"updated_at"`
}

// OrganizationUpdate carries the optional fields of a partial profile update.
type OrganizationUpdate struct {
	Name              *string  `db:"name"`
	Phone             *string  `db:"phone"`
	Type              *string  `db:"type"`
	Description       *string  `db:"description"`
	MissionStatement  *string  `db:"mission_statement"`
	MissionScope      *string  `db:"mission_scope"`
	DonationsAccepted []string `db:"donations_accepted"`
}

type Admin struct {
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuthSession is what the identity provider hands back on sign in or refresh.
type AuthSession struct {
	Subject      string `json:"-"`
	Email        string `json:"-"`
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
}
