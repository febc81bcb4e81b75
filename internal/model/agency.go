package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agency represents a car-rental agency whose inventory can be booked.
type Agency struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Address   string    `json:"address" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:AgencyID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Agency) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
