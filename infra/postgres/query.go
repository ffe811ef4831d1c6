package postgres

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"isucari/app"
)

// buildListItemsQuery compiles an ItemQuery into a postgres statement.
// The cursor condition is created_at <= c AND id < i, not a row comparison.
func buildListItemsQuery(q app.ItemQuery) (string, []interface{}, error) {
	var (
		conds []string
		args  []interface{}
	)

	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, "status IN (?)")
		args = append(args, statuses)
	}
	if q.SellerID > 0 {
		conds = append(conds, "seller_id = ?")
		args = append(args, q.SellerID)
	}
	if len(q.CategoryIDs) > 0 {
		conds = append(conds, "category_id IN (?)")
		args = append(args, q.CategoryIDs)
	}
	if !q.Cursor.IsZero() {
		conds = append(conds, "created_at <= ?", "id < ?")
		args = append(args, q.Cursor.CreatedAtTime(), q.Cursor.ItemID)
	}

	var b strings.Builder
	b.WriteString("SELECT " + itemColumns + " FROM items")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	query, args, err := sqlx.In(b.String(), args...)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args, nil
}
