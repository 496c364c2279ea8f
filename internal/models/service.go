package models

type Service struct {
	Entity

	Name                 string `gorm:"size:200;not null" json:"name"`
	Description          string `gorm:"type:text" json:"description"`
	DurationMinutes      int    `gorm:"not null" json:"duration_minutes"`
	BufferMinutes        int    `gorm:"not null;default:0" json:"buffer_minutes"`
	Active               bool   `gorm:"not null;default:true" json:"active"`
	OnlineBookingEnabled bool   `gorm:"not null;default:true" json:"online_booking_enabled"`

	Requirements []ServiceResource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"requirements,omitempty"`
}
