package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"isucari/app"
	"isucari/domain"
)

const (
	itemColumns     = `id, seller_id, buyer_id, status, name, price, description, image_name, category_id, created_at, updated_at`
	userColumns     = `id, account_name, num_sell_items`
	categoryColumns = `id, COALESCE(parent_id, 0) AS parent_id, category_name`
)

// PgConn runs every query of a request on one borrowed connection.
type PgConn struct {
	conn *sqlx.Conn
}

func (c *PgConn) Close() error {
	return c.conn.Close()
}

func (c *PgConn) ListItems(ctx context.Context, q app.ItemQuery) ([]domain.Item, error) {
	query, args, err := buildListItemsQuery(q)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, q.Limit)
	if err := c.conn.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *PgConn) GetUserSimpleByID(ctx context.Context, id int64) (domain.UserSimple, error) {
	var u domain.UserSimple
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := c.conn.GetContext(ctx, &u, query, id)
	return u, err
}

func (c *PgConn) GetUserSimplesByIDs(ctx context.Context, ids []int64) ([]domain.UserSimple, error) {
	users := make([]domain.UserSimple, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	err = c.conn.SelectContext(ctx, &users, c.conn.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (c *PgConn) GetCategoryByID(ctx context.Context, id int64) (domain.Category, error) {
	var category domain.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	err := c.conn.GetContext(ctx, &category, query, id)
	return category, err
}

func (c *PgConn) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(ids))
	if len(ids) == 0 {
		return categories, nil
	}

	query, args, err := sqlx.In(`SELECT `+categoryColumns+` FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	err = c.conn.SelectContext(ctx, &categories, c.conn.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *PgConn) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY id`

	if err := c.conn.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *PgConn) GetChildCategoryIDs(ctx context.Context, parentID int64) ([]int64, error) {
	ids := make([]int64, 0)
	query := `SELECT id FROM categories WHERE parent_id = $1 ORDER BY id`

	if err := c.conn.SelectContext(ctx, &ids, query, parentID); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *PgConn) GetConfig(ctx context.Context, name string) (domain.Config, error) {
	var cfg domain.Config
	query := `SELECT name, val FROM configs WHERE name = $1`

	err := c.conn.GetContext(ctx, &cfg, query, name)
	return cfg, err
}

func (c *PgConn) UpsertConfig(ctx context.Context, name, val string) error {
	query := `
		INSERT INTO configs (name, val) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET val = EXCLUDED.val`

	_, err := c.conn.ExecContext(ctx, query, name, val)
	return err
}

// RefreshSellerItemCount recomputes users.num_sell_items from the items on sale.
func (c *PgConn) RefreshSellerItemCount(ctx context.Context, sellerID int64) (int, error) {
	var count int
	query := `
		UPDATE users SET num_sell_items = (
			SELECT COUNT(*) FROM items WHERE seller_id = $1 AND status = $2
		)
		WHERE id = $1
		RETURNING num_sell_items`

	err := c.conn.GetContext(ctx, &count, query, sellerID, string(domain.ItemStatusOnSale))
	return count, err
}
