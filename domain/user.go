package domain

import "time"

type User struct {
	ID             int64     `db:"id" json:"id"`
	AccountName    string    `db:"account_name" json:"account_name"`
	HashedPassword []byte    `db:"hashed_password" json:"-"`
	Address        string    `db:"address" json:"address,omitempty"`
	NumSellItems   int       `db:"num_sell_items" json:"num_sell_items"`
	LastBump       time.Time `db:"last_bump" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"-"`
}

// UserSimple is the public projection of a User.
type UserSimple struct {
	ID           int64  `db:"id" json:"id"`
	AccountName  string `db:"account_name" json:"account_name"`
	NumSellItems int    `db:"num_sell_items" json:"num_sell_items"`
}
