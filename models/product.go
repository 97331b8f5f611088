package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `json:"description"`
	Brand       string         `json:"brand"`
	Price       float64        `gorm:"not null" json:"price"`
	Stock       int            `json:"stock"`
	Image       string         `json:"image"`
	Images      []string       `gorm:"serializer:json" json:"images"`
	IsFeatured  bool           `gorm:"default:false" json:"is_featured"`
	Rating      float64        `json:"rating"`
	NumReviews  int            `json:"num_reviews"`
	Categories  []Category     `gorm:"many2many:product_categories;" json:"categories"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
