package app

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"isucari/domain"
)

// fakeRepo is an in-memory Repository with the same filtering and ordering
// rules as the postgres store.
type fakeRepo struct {
	items      []domain.Item
	users      map[int64]domain.UserSimple
	categories map[int64]domain.Category
	configs    map[string]string

	listErr     error
	categoryErr error

	calls     map[string]int
	lastQuery ItemQuery
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      map[int64]domain.UserSimple{},
		categories: map[int64]domain.Category{},
		configs:    map[string]string{},
		calls:      map[string]int{},
	}
}

func (r *fakeRepo) Close() error { return nil }

func (r *fakeRepo) ListItems(_ context.Context, q ItemQuery) ([]domain.Item, error) {
	r.calls["ListItems"]++
	r.lastQuery = q
	if r.listErr != nil {
		return nil, r.listErr
	}

	var out []domain.Item
	for _, item := range r.items {
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, item.Status) {
			continue
		}
		if q.SellerID > 0 && item.SellerID != q.SellerID {
			continue
		}
		if len(q.CategoryIDs) > 0 && !containsID(q.CategoryIDs, item.CategoryID) {
			continue
		}
		if !q.Cursor.IsZero() {
			if item.CreatedAt.After(q.Cursor.CreatedAtTime()) || item.ID >= q.Cursor.ItemID {
				continue
			}
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *fakeRepo) GetUserSimpleByID(_ context.Context, id int64) (domain.UserSimple, error) {
	r.calls["GetUserSimpleByID"]++
	u, ok := r.users[id]
	if !ok {
		return domain.UserSimple{}, sql.ErrNoRows
	}
	return u, nil
}

func (r *fakeRepo) GetUserSimplesByIDs(_ context.Context, ids []int64) ([]domain.UserSimple, error) {
	r.calls["GetUserSimplesByIDs"]++
	var out []domain.UserSimple
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetCategoryByID(_ context.Context, id int64) (domain.Category, error) {
	r.calls["GetCategoryByID"]++
	if r.categoryErr != nil {
		return domain.Category{}, r.categoryErr
	}
	c, ok := r.categories[id]
	if !ok {
		return domain.Category{}, sql.ErrNoRows
	}
	return c, nil
}

func (r *fakeRepo) GetCategoriesByIDs(_ context.Context, ids []int64) ([]domain.Category, error) {
	r.calls["GetCategoriesByIDs"]++
	if r.categoryErr != nil {
		return nil, r.categoryErr
	}
	var out []domain.Category
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetCategories(_ context.Context) ([]domain.Category, error) {
	r.calls["GetCategories"]++
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) GetChildCategoryIDs(_ context.Context, parentID int64) ([]int64, error) {
	r.calls["GetChildCategoryIDs"]++
	var ids []int64
	for _, c := range r.categories {
		if c.ParentID == parentID {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeRepo) GetConfig(_ context.Context, name string) (domain.Config, error) {
	val, ok := r.configs[name]
	if !ok {
		return domain.Config{}, sql.ErrNoRows
	}
	return domain.Config{Name: name, Val: val}, nil
}

func (r *fakeRepo) UpsertConfig(_ context.Context, name, val string) error {
	r.configs[name] = val
	return nil
}

func (r *fakeRepo) RefreshSellerItemCount(_ context.Context, sellerID int64) (int, error) {
	u, ok := r.users[sellerID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	count := 0
	for _, item := range r.items {
		if item.SellerID == sellerID && item.Status == domain.ItemStatusOnSale {
			count++
		}
	}
	u.NumSellItems = count
	r.users[sellerID] = u
	return count, nil
}

type fakeConn struct {
	*fakeRepo
	store *fakeStore
}

func (c *fakeConn) Close() error {
	c.store.released++
	return nil
}

type fakeStore struct {
	repo     *fakeRepo
	connErr  error
	acquired int
	released int
}

func (s *fakeStore) Conn(_ context.Context) (Repository, error) {
	if s.connErr != nil {
		return nil, s.connErr
	}
	s.acquired++
	return &fakeConn{fakeRepo: s.repo, store: s}, nil
}

func (s *fakeStore) Ping(_ context.Context) error {
	return s.connErr
}

func containsStatus(statuses []domain.ItemStatus, s domain.ItemStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var baseTime = time.Date(2019, 8, 12, 0, 0, 0, 0, time.UTC)

// seedMarketplace builds categories 1 (root) > 10 > 100, root 2 > 20,
// sellers 1..3 and n items alternating between categories 100 and 20.
// Items with id%5 == 0 are trading, id%7 == 0 are stopped.
func seedMarketplace(n int) *fakeRepo {
	r := newFakeRepo()
	r.categories[1] = domain.Category{ID: 1, CategoryName: "ソファー"}
	r.categories[10] = domain.Category{ID: 10, ParentID: 1, CategoryName: "一人掛けソファー"}
	r.categories[100] = domain.Category{ID: 100, ParentID: 10, CategoryName: "ミニソファー"}
	r.categories[2] = domain.Category{ID: 2, CategoryName: "家庭用チェア"}
	r.categories[20] = domain.Category{ID: 20, ParentID: 2, CategoryName: "座椅子"}

	for id := int64(1); id <= 3; id++ {
		r.users[id] = domain.UserSimple{ID: id, AccountName: "seller" + string(rune('0'+id)), NumSellItems: int(id)}
	}

	for i := 1; i <= n; i++ {
		status := domain.ItemStatusOnSale
		switch {
		case i%7 == 0:
			status = domain.ItemStatusStop
		case i%5 == 0:
			status = domain.ItemStatusTrading
		case i%3 == 0:
			status = domain.ItemStatusSoldOut
		}
		category := int64(100)
		if i%2 == 0 {
			category = 20
		}
		r.items = append(r.items, domain.Item{
			ID:         int64(i),
			SellerID:   int64(i%3 + 1),
			Status:     status,
			Name:       "item",
			Price:      100 * i,
			ImageName:  "img.jpg",
			CategoryID: category,
			// two items share each timestamp to exercise the id tie-break
			CreatedAt: baseTime.Add(time.Duration(i/2) * time.Second),
		})
	}
	return r
}
