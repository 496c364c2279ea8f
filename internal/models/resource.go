package models

type Resource struct {
	Entity

	Name        string `gorm:"size:100;not null" json:"name"`
	Type        string `gorm:"size:20;index;not null" json:"type"`
	Description string `gorm:"type:text" json:"description"`
	Capacity    int    `gorm:"not null;default:1" json:"capacity"`
	Active      bool   `gorm:"not null;default:true" json:"active"`

	Schedules []ResourceSchedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"schedules,omitempty"`
}
