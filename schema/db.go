package schema

import (
	"time"
)

const (
	// order payment status
	UnPayment   = "unpaid"
	SuccPayment = "paid"
	FailPayment = "failed"

	// receipt status
	UnSpent  = "unspent"
	Spent    = "spent"
	UnRefund = "unrefund"
	Refund   = "refunded"

	// order action
	ActionRegister  = "register"
	ActionRenew     = "renew"
	ActionSubDomain = "subdomain"
	ActionMigrate   = "migrate"

	// receipt reason
	ReasonExcess     = "excess"
	ReasonRefund     = "refund_payment"
	ReasonFailedMint = "failed_mint"
)

// Order is the charge record written for every paid registry mutation.
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DomainName string `gorm:"index:idx_order_name" json:"domainName"`
	Caller     string `gorm:"index:idx_order_caller" json:"caller"`
	Action     string `json:"action"`

	Currency string `json:"currency"` // payment token symbol
	Fee      string `json:"fee"`      // computed price, native base units
	Tendered string `json:"tendered"` // payment attached by caller
	Excess   string `json:"excess"`   // settled back to caller

	PaymentStatus string `json:"paymentStatus"`
	PaymentId     string `json:"paymentId"` // settlement tx hash, if any
}

// Receipt tracks a settlement transfer owed back to a payer. The refund job
// drains unrefund rows, mirroring the order of operations of the ledger:
// a row is flipped to refunded before the transfer is attempted and flipped
// back on failure so no payer is ever refunded twice.
type Receipt struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Payer    string `gorm:"index:idx_receipt_payer"`
	Token    string
	Amount   string // integer string, native base units
	Reason   string // "excess", "refund_payment", "failed_mint"
	EverHash string // transfer hash once sent

	Status string // "unrefund", "refunded"
}

// RentalFee is the per-length annual fee table, usd cents per year.
// Single row, id 1.
type RentalFee struct {
	ID          uint `gorm:"primarykey"`
	OneLetter   uint64
	TwoLetter   uint64
	ThreeLetter uint64
	FourLetter  uint64
	Other       uint64 // lengths >= 5 collapse into this bucket
	UpdatedAt   time.Time
}

// fee schedule bucket names accepted by update_price_usd
const (
	Bucket1     = "1"
	Bucket2     = "2"
	Bucket3     = "3"
	Bucket4     = "4"
	BucketOther = "other"
)

// ExchangeRate is the cached native/usd conversion, native base units per
// one usd cent. Single row, id 1; only the refresh flow writes it.
type ExchangeRate struct {
	ID        uint   `gorm:"primarykey"`
	Rate      string // integer string
	UpdatedAt time.Time
}
