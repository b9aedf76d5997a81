package types

import "time"

type Campaign struct {
	ID              string    `db:"id" json:"id"`
	OrgID           string    `db:"org_id" json:"org_id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description"`
	Thumbnail       *string   `db:"thumbnail" json:"thumbnail"`
	FundraisingType *string   `db:"fundraising_type" json:"fundraising_type"`
	FundraisingGoal *string   `db:"fundraising_goal" json:"fundraising_goal"`
	Amount          *float64  `db:"amount" json:"amount"`
	AmountRaised    *float64  `db:"amount_raised" json:"amount_raised"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Active reports whether the campaign still accepts funds. A campaign with
// no target or no running total is always active.
func (c *Campaign) Active() bool {
	if c.Amount == nil || c.AmountRaised == nil {
		return true
	}
	return *c.AmountRaised < *c.Amount
}

type BankDetail struct {
	ID            string    `db:"id" json:"id"`
	OrgID         string    `db:"org_id" json:"org_id"`
	AccountTitle  string    `db:"account_title" json:"account_title"`
	BankName      string    `db:"bank_name" json:"bank_name"`
	AccountNumber string    `db:"account_number" json:"account_number"`
	IBAN          string    `db:"iban" json:"iban"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
