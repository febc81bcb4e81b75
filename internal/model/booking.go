package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking reserves an agency's inventory for a date range.
type Booking struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	AccountID uuid.UUID `json:"account_id" gorm:"type:char(36);not null;index"`
	AgencyID  uuid.UUID `json:"agency_id" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Agency *Agency `json:"agency,omitempty" gorm:"foreignKey:AgencyID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the booking belongs to the given account.
func (b *Booking) OwnedBy(accountID uuid.UUID) bool {
	return b.AccountID == accountID
}
