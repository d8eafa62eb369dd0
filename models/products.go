package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a handloom product listed by a weaver.
// UserID and CreatedAt are fixed at creation; Owner is the optional
// denormalised join onto the owner's profile.
type Product struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Name        string          `gorm:"size:200;not null"`
	Description string          `gorm:"type:text;not null"`
	Category    Category        `gorm:"size:64;not null;index"`
	ImageURL    string          `gorm:"size:1024;not null;default:''"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UserID      string          `gorm:"size:36;not null;index"`
	Owner       *Profile        `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductFields are the product attributes a weaver may set and change.
type ProductFields struct {
	Name        string          `validate:"required,max=200"`
	Description string          `validate:"required,max=5000"`
	Category    Category        `validate:"required,category"`
	Price       decimal.Decimal `validate:"gte=0,lt=100000000"`
}

// PriceScale is the number of decimal places the price column keeps.
const PriceScale = 2

// ProductQuery scopes a product listing.
type ProductQuery struct {
	// OwnerID restricts the listing to one owner when set.
	OwnerID string
	// WithOwner embeds the owner's name and location.
	WithOwner bool
}
