package app

import (
	"context"
	"fmt"

	"isucari/domain"
)

const DefaultItemsPerPage = 48

var (
	NewItemStatuses  = []domain.ItemStatus{domain.ItemStatusOnSale, domain.ItemStatusSoldOut}
	UserItemStatuses = []domain.ItemStatus{domain.ItemStatusOnSale, domain.ItemStatusTrading, domain.ItemStatusSoldOut}
)

type ListingPage struct {
	Items   []domain.ItemSimple
	HasNext bool
}

// ListingPipeline fetches one page of items and attaches seller and category
// to each of them. All queries go through the caller's connection.
type ListingPipeline struct {
	categories     *CategoryResolver
	pageSize       int
	imageURLPrefix string
}

func NewListingPipeline(categories *CategoryResolver, pageSize int, imageURLPrefix string) *ListingPipeline {
	if pageSize < 1 {
		pageSize = DefaultItemsPerPage
	}
	return &ListingPipeline{
		categories:     categories,
		pageSize:       pageSize,
		imageURLPrefix: imageURLPrefix,
	}
}

func (p *ListingPipeline) PageSize() int {
	return p.pageSize
}

// List runs query with one extra row to detect the next page. Any item whose
// seller or category is missing fails the whole page.
func (p *ListingPipeline) List(ctx context.Context, repo Repository, query ItemQuery) (ListingPage, error) {
	query.Limit = p.pageSize + 1

	items, err := repo.ListItems(ctx, query)
	if err != nil {
		return ListingPage{}, fmt.Errorf("list items: %w", err)
	}

	hasNext := false
	if len(items) > p.pageSize {
		items = items[:p.pageSize]
		hasNext = true
	}

	simples, err := p.enrich(ctx, repo, items)
	if err != nil {
		return ListingPage{}, err
	}

	return ListingPage{
		Items:   simples,
		HasNext: hasNext,
	}, nil
}

func (p *ListingPipeline) enrich(ctx context.Context, repo Repository, items []domain.Item) ([]domain.ItemSimple, error) {
	simples := make([]domain.ItemSimple, 0, len(items))
	if len(items) == 0 {
		return simples, nil
	}

	sellerIDs := make([]int64, 0, len(items))
	categoryIDs := make([]int64, 0, len(items))
	for _, item := range items {
		sellerIDs = append(sellerIDs, item.SellerID)
		categoryIDs = append(categoryIDs, item.CategoryID)
	}

	sellers, err := LookupUserSimples(ctx, repo, sellerIDs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	categories, err := p.categories.ResolveMany(ctx, repo, categoryIDs)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		seller, ok := sellers[item.SellerID]
		if !ok {
			return nil, ErrSellerNotFound
		}
		category, ok := categories[item.CategoryID]
		if !ok {
			return nil, ErrCategoryNotFound
		}

		simples = append(simples, domain.ItemSimple{
			ID:         item.ID,
			SellerID:   item.SellerID,
			Seller:     seller,
			Status:     item.Status,
			Name:       item.Name,
			Price:      item.Price,
			ImageURL:   p.ImageURL(item.ImageName),
			CategoryID: item.CategoryID,
			Category:   category,
			CreatedAt:  item.CreatedAt.UnixMilli(),
		})
	}

	return simples, nil
}

func (p *ListingPipeline) ImageURL(imageName string) string {
	if imageName == "" {
		return ""
	}
	return p.imageURLPrefix + imageName
}
