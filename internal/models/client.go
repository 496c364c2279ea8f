package models

type Client struct {
	Entity

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:30;index" json:"phone"`
	Email string `gorm:"size:120" json:"email"`
}
