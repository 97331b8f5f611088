package models

import "time"

type User struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	Email     string          `gorm:"unique;not null" json:"email"`
	Phone     string          `json:"phone"`
	Name      string          `json:"name"`
	Picture   string          `json:"picture"`
	Provider  string          `json:"provider"`
	Address   ShippingAddress `gorm:"embedded" json:"address"`
	Cart      Cart            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders    []Order         `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders"`
	CreatedAt time.Time       `json:"created_at"`
}
