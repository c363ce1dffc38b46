package models

import "time"

type EscrowStatus string

const (
	EscrowStatusPending   EscrowStatus = "pending"   // funds requested, awaiting delivery confirmation
	EscrowStatusCompleted EscrowStatus = "completed" // release transaction issued to the buyer
)

// EscrowRecord tracks a temporary holder account custodying funds between
// purchase and delivery confirmation. The holder's private key is stored
// AES-GCM encrypted so the release transaction can be co-signed after a
// process restart; it is never returned by any endpoint.
type EscrowRecord struct {
	ID                 uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference          string       `gorm:"uniqueIndex;not null" json:"reference"`
	HolderAddress      string       `gorm:"uniqueIndex;not null" json:"escrowAccountHolder"`
	BuyerAddress       string       `gorm:"not null" json:"buyer"`
	SellerAddress      string       `gorm:"not null" json:"seller"`
	Lamports           uint64       `json:"lamports"`
	Status             EscrowStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	EncryptedHolderKey []byte       `json:"-"`
	Version            int          `gorm:"not null;default:1" json:"-"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}
