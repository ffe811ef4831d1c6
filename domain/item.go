package domain

import (
	"database/sql"
	"time"
)

type ItemStatus string

const (
	ItemStatusOnSale  ItemStatus = "on_sale"
	ItemStatusTrading ItemStatus = "trading"
	ItemStatusSoldOut ItemStatus = "sold_out"
	ItemStatusStop    ItemStatus = "stop"
	ItemStatusCancel  ItemStatus = "cancel"
)

type Item struct {
	ID          int64         `db:"id" json:"id"`
	SellerID    int64         `db:"seller_id" json:"seller_id"`
	BuyerID     sql.NullInt64 `db:"buyer_id" json:"-"`
	Status      ItemStatus    `db:"status" json:"status"`
	Name        string        `db:"name" json:"name"`
	Price       int           `db:"price" json:"price"`
	Description string        `db:"description" json:"description"`
	ImageName   string        `db:"image_name" json:"image_name"`
	CategoryID  int64         `db:"category_id" json:"category_id"`
	CreatedAt   time.Time     `db:"created_at" json:"-"`
	UpdatedAt   time.Time     `db:"updated_at" json:"-"`
}

// ItemSimple is the listing view of an item with its seller and category attached.
type ItemSimple struct {
	ID         int64      `json:"id"`
	SellerID   int64      `json:"seller_id"`
	Seller     UserSimple `json:"seller"`
	Status     ItemStatus `json:"status"`
	Name       string     `json:"name"`
	Price      int        `json:"price"`
	ImageURL   string     `json:"image_url"`
	CategoryID int64      `json:"category_id"`
	Category   Category   `json:"category"`
	CreatedAt  int64      `json:"created_at"`
}
