package models

import "time"

// CreditTransactionType classifies a ledger entry.
type CreditTransactionType string

const (
	// CreditTypeGrant is an operator or promotional top-up.
	CreditTypeGrant CreditTransactionType = "grant"
	// CreditTypeDebit is a charge for a generation job.
	CreditTypeDebit CreditTransactionType = "debit"
	// CreditTypeRefund returns the cost of a failed or expired job.
	CreditTypeRefund CreditTransactionType = "refund"
	// CreditTypeReferral is the signup bonus for both sides of a referral.
	CreditTypeReferral CreditTransactionType = "referral"
)

// CreditTransaction is one immutable ledger row. Amount is signed (debits are
// negative) and BalanceAfter snapshots the user's balance after applying it,
// so the ledger can always be audited against users.credits.
type CreditTransaction struct {
	ID           uint                  `gorm:"primaryKey" json:"id"`
	UserID       uint                  `gorm:"not null;index" json:"user_id"`
	Type         CreditTransactionType `gorm:"type:varchar(20);not null" json:"type"`
	Amount       int64                 `gorm:"not null" json:"amount"`
	BalanceAfter int64                 `gorm:"not null" json:"balance_after"`
	// Reference ties the entry to its cause: a generation job ID, a referral
	// user ID, or an operator note.
	Reference string    `gorm:"size:120" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
