package app

import (
	"context"

	"isucari/domain"
)

// Store hands out one connection per request. Callers must Close it.
type Store interface {
	Conn(ctx context.Context) (Repository, error)
	Ping(ctx context.Context) error
}

// Repository reports a missing row as sql.ErrNoRows.
type Repository interface {
	Close() error
	ListItems(ctx context.Context, query ItemQuery) ([]domain.Item, error)
	GetUserSimpleByID(ctx context.Context, id int64) (domain.UserSimple, error)
	GetUserSimplesByIDs(ctx context.Context, ids []int64) ([]domain.UserSimple, error)
	GetCategoryByID(ctx context.Context, id int64) (domain.Category, error)
	GetCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error)
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetChildCategoryIDs(ctx context.Context, parentID int64) ([]int64, error)
	GetConfig(ctx context.Context, name string) (domain.Config, error)
	UpsertConfig(ctx context.Context, name, val string) error
	RefreshSellerItemCount(ctx context.Context, sellerID int64) (int, error)
}

// ItemQuery selects items ordered by (created_at DESC, id DESC).
type ItemQuery struct {
	Statuses    []domain.ItemStatus
	SellerID    int64
	CategoryIDs []int64
	Cursor      PaginationCursor
	Limit       int
}
