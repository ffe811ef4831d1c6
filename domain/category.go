package domain

type Category struct {
	ID                 int64  `json:"id" db:"id"`
	ParentID           int64  `json:"parent_id" db:"parent_id"`
	CategoryName       string `json:"category_name" db:"category_name"`
	ParentCategoryName string `json:"parent_category_name,omitempty" db:"-"`
}

func (c Category) IsRoot() bool {
	return c.ParentID == 0
}
