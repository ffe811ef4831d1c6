package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"isucari/domain"
)

const DefaultCategoryMaxDepth = 8

// CategoryResolver loads categories together with their parent's name.
// Ancestor chains are walked iteratively and bounded by maxDepth hops;
// a chain that revisits a category stops at the repeat.
type CategoryResolver struct {
	maxDepth int
}

func NewCategoryResolver(maxDepth int) *CategoryResolver {
	if maxDepth < 1 {
		maxDepth = DefaultCategoryMaxDepth
	}
	return &CategoryResolver{maxDepth: maxDepth}
}

func (r *CategoryResolver) Resolve(ctx context.Context, repo Repository, categoryID int64) (domain.Category, error) {
	category, err := repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("get category %d: %w", categoryID, err)
	}

	visited := map[int64]struct{}{category.ID: {}}
	current := category
	for hops := 0; !current.IsRoot(); hops++ {
		if _, ok := visited[current.ParentID]; ok {
			break
		}
		if hops >= r.maxDepth {
			return domain.Category{}, fmt.Errorf("category %d: %w", categoryID, ErrCategoryTooDeep)
		}

		parent, err := repo.GetCategoryByID(ctx, current.ParentID)
		if errors.Is(err, sql.ErrNoRows) {
			break
		}
		if err != nil {
			return domain.Category{}, fmt.Errorf("get category %d: %w", current.ParentID, err)
		}

		if hops == 0 {
			category.ParentCategoryName = parent.CategoryName
		}
		visited[parent.ID] = struct{}{}
		current = parent
	}

	return category, nil
}

// ResolveMany resolves a set of categories with one query per tree level.
// Categories that do not exist are absent from the result.
func (r *CategoryResolver) ResolveMany(ctx context.Context, repo Repository, categoryIDs []int64) (map[int64]domain.Category, error) {
	requested := uniqueIDs(categoryIDs)
	known := make(map[int64]domain.Category, len(requested))

	pending := requested
	for hops := 0; len(pending) > 0; hops++ {
		if hops > r.maxDepth {
			return nil, fmt.Errorf("categories %v: %w", pending, ErrCategoryTooDeep)
		}

		rows, err := repo.GetCategoriesByIDs(ctx, pending)
		if err != nil {
			return nil, fmt.Errorf("get categories: %w", err)
		}

		var next []int64
		for _, c := range rows {
			known[c.ID] = c
		}
		for _, c := range rows {
			if c.IsRoot() {
				continue
			}
			if _, ok := known[c.ParentID]; !ok {
				next = append(next, c.ParentID)
			}
		}
		pending = uniqueIDs(next)
	}

	resolved := make(map[int64]domain.Category, len(requested))
	for _, id := range requested {
		c, ok := known[id]
		if !ok {
			continue
		}
		resolved[id] = withParentName(c, known)
	}
	return resolved, nil
}

// All returns every category with its parent's name attached, in store order.
func (r *CategoryResolver) All(ctx context.Context, repo Repository) ([]domain.Category, error) {
	rows, err := repo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}

	byID := make(map[int64]domain.Category, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		categories = append(categories, withParentName(c, byID))
	}
	return categories, nil
}

func withParentName(c domain.Category, byID map[int64]domain.Category) domain.Category {
	if c.IsRoot() {
		return c
	}
	if parent, ok := byID[c.ParentID]; ok {
		c.ParentCategoryName = parent.CategoryName
	}
	return c
}
