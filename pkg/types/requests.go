package types

import "encoding/json"

// Field order matters: missing-field messages list names in this order.

type RegisterDonorInput struct {
	Phone    string          `json:"phone" validate:"required"`
	CNICNo   string          `json:"cnic_no" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	FName    string          `json:"fname" validate:"required"`
	LName    string          `json:"lname" validate:"required"`
	Address  json.RawMessage `json:"address"`
}

type RegisterOrganizationInput struct {
	Phone                string          `json:"phone" validate:"required"`
	Name                 string          `json:"name" validate:"required"`
	Email                string          `json:"email" validate:"required,email"`
	Password             string          `json:"password" validate:"required"`
	LicenseNo            string          `json:"license_no" validate:"required"`
	Type                 *string         `json:"type"`
	MissionStatement     *string         `json:"mission_statement"`
	MissionScope         *string         `json:"mission_scope"`
	DonationsAccepted    []string        `json:"donations_accepted"`
	Description          *string         `json:"description"`
	RegistrationDocument *string         `json:"registration_document"`
	Address              json.RawMessage `json:"address"`
}

type RegisterAdminInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	AdminSecret string `json:"admin_secret" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// DonationInput is the body of a donation submission. Items may arrive as
// items, donation_items, or the per-category shorthand arrays.
type DonationInput struct {
	DonorID       string            `json:"donor_id"`
	OrgID         string            `json:"org_id"`
	Status        DonationStatus    `json:"status"`
	Location      json.RawMessage   `json:"location"`
	Items         []SubmittedItem   `json:"items"`
	DonationItems []SubmittedItem   `json:"donation_items"`
	Food          []json.RawMessage `json:"food"`
	Clothes       []json.RawMessage `json:"clothes"`
	Others        []json.RawMessage `json:"others"`
}

type SubmittedItem struct {
	Category ItemCategory    `json:"category"`
	Data     json.RawMessage `json:"data"`
}

// AllItems flattens every accepted item shape into one list.
func (in *DonationInput) AllItems() []SubmittedItem {
	items := make([]SubmittedItem, 0, len(in.Items)+len(in.DonationItems)+len(in.Food)+len(in.Clothes)+len(in.Others))
	items = append(items, in.Items...)
	items = append(items, in.DonationItems...)
	for _, data := range in.Food {
		items = append(items, SubmittedItem{Category: ItemCategoryFood, Data: data})
	}
	for _, data := range in.Clothes {
		items = append(items, SubmittedItem{Category: ItemCategoryClothes, Data: data})
	}
	for _, data := range in.Others {
		items = append(items, SubmittedItem{Category: ItemCategoryOthers, Data: data})
	}
	return items
}

type FoodData struct {
	Name               string   `json:"name" validate:"required"`
	Type               string   `json:"type" validate:"required"`
	Qty                float64  `json:"qty" validate:"required,gt=0"`
	Unit               *string  `json:"unit"`
	PkgType            string   `json:"pkg_type" validate:"required"`
	ExpDate            string   `json:"exp_date" validate:"required"`
	Storage            *string  `json:"storage"`
	Comments           *string  `json:"comments"`
	AdditionalComments *string  `json:"additional_comments"`
	ImageURLs          []string `json:"image_urls"`
	ImageURLsCamel     []string `json:"imageUrls"`
}

type ClothesData struct {
	Type               string   `json:"type" validate:"required"`
	Size               string   `json:"size" validate:"required"`
	Condition          string   `json:"condition" validate:"required"`
	FabricType         string   `json:"fabric_type" validate:"required"`
	Qty                int      `json:"qty"`
	Quantity           int      `json:"quantity"`
	AdditionalComments *string  `json:"additional_comments"`
	ImageURLs          []string `json:"image_urls"`
	ImageURLsCamel     []string `json:"imageUrls"`
}

type OthersData struct {
	Description    string   `json:"description" validate:"required"`
	ImageURLs      []string `json:"image_urls"`
	ImageURLsCamel []string `json:"imageUrls"`
}

type CampaignItemData struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type CampaignDonationInput struct {
	DonorID         string         `json:"donor_id" validate:"required"`
	OrgID           string         `json:"org_id" validate:"required"`
	CampaignID      string         `json:"campaign_id" validate:"required"`
	Amount          float64        `json:"amount" validate:"required,gt=0"`
	AccStatementImg *string        `json:"acc_statement_img"`
	Status          DonationStatus `json:"status"`
}

type AcceptPostInput struct {
	DonationID     string `json:"donation_id" validate:"required"`
	OrganisationID string `json:"organisation_id"`
	OrgID          string `json:"org_id"`
}

type StatusUpdateInput struct {
	DonationID string         `json:"donation_id" validate:"required"`
	Status     DonationStatus `json:"status" validate:"required"`
}

type CampaignReviewInput struct {
	DonationID string `json:"donation_id" validate:"required"`
	Context    string `json:"context" validate:"required,oneof=accept reject"`
}

type FeedbackInput struct {
	DonationID   string  `json:"donation_id" validate:"required"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	PeopleHelped *int    `json:"people_helped" validate:"required,gte=0"`
}

type PeopleHelpedInput struct {
	DonationID   string `json:"donation_id" validate:"required"`
	PeopleHelped *int   `json:"people_helped" validate:"required,gte=0"`
}

type CampaignInput struct {
	OrgID           string   `json:"org_id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Description     *string  `json:"description"`
	Thumbnail       *string  `json:"thumbnail"`
	FundraisingType *string  `json:"fundraising_type"`
	FundraisingGoal *string  `json:"fundraising_goal"`
	Amount          *float64 `json:"amount" validate:"omitempty,gt=0"`
}

type AddFundsInput struct {
	CampaignID string  `json:"campaign_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

type BankAccount struct {
	AccountTitle  string `json:"account_title" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	IBAN          string `json:"iban" validate:"required"`
}

type BankDetailInput struct {
	OrgID string `json:"org_id" validate:"required"`
	BankAccount
}

type OrganizationInfoInput struct {
	OrgID             string        `json:"org_id" validate:"required"`
	Name              *string       `json:"name"`
	Phone             *string       `json:"phone"`
	Type              *string       `json:"type"`
	Description       *string       `json:"description"`
	MissionStatement  *string       `json:"mission_statement"`
	MissionScope      *string       `json:"mission_scope"`
	DonationsAccepted []string      `json:"donations_accepted"`
	BankDetails       []BankAccount `json:"bankDetails" validate:"dive"`
}

type OrganizationStatusInput struct {
	OrgID  string             `json:"org_id" validate:"required"`
	Status OrganizationStatus `json:"status" validate:"required,oneof=approved rejected"`
}

type AddressInput struct {
	ID           string          `json:"id" validate:"required"`
	Context      UserType        `json:"context" validate:"required,oneof=donor organization"`
	LocationData json.RawMessage `json:"location_data" validate:"required"`
}

type ProfileImageInput struct {
	ProfileImage string `json:"profileImage" validate:"required"`
}

type NotificationInput struct {
	Type        NotificationType   `json:"type" validate:"required"`
	UserType    UserType           `json:"user_type" validate:"required"`
	RecipientID string             `json:"recipient_id" validate:"required"`
	Message     *string            `json:"message"`
	Metadata    json.RawMessage    `json:"metadata"`
	Status      NotificationStatus `json:"status"`
}

type MarkReadInput struct {
	RecipientID string   `json:"recipient_id"`
	IDs         []string `json:"ids"`
}
