package app

import (
	"context"

	"isucari/domain"
	"isucari/pkg/httperror"
)

type GetNewCategoryItemsHandler struct {
	store      Store
	pipeline   *ListingPipeline
	categories *CategoryResolver
}

func NewGetNewCategoryItemsHandler(store Store, pipeline *ListingPipeline, categories *CategoryResolver) *GetNewCategoryItemsHandler {
	return &GetNewCategoryItemsHandler{
		store:      store,
		pipeline:   pipeline,
		categories: categories,
	}
}

type GetNewCategoryItemsRequest struct {
	RootCategoryID int64  `params:"root_category_id" validate:"gt=0"`
	ItemID         string `query:"item_id"`
	CreatedAt      string `query:"created_at"`

	sentQueryKey func(key string) bool
}

// SetQueryKeys lets the cursor tell an empty value from a missing key.
func (r *GetNewCategoryItemsRequest) SetQueryKeys(has func(key string) bool) {
	r.sentQueryKey = has
}

type GetNewCategoryItemsResponse struct {
	RootCategoryID   int64               `json:"root_category_id"`
	RootCategoryName string              `json:"root_category_name"`
	HasNext          bool                `json:"has_next"`
	Items            []domain.ItemSimple `json:"items"`
}

func (h GetNewCategoryItemsHandler) Handle(ctx context.Context, req *GetNewCategoryItemsRequest) (*GetNewCategoryItemsResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, httperror.BadRequest(
			"new_category_items.validation_failed",
			"incorrect category id",
			nil,
		)
	}

	cursor, err := ParseCursor(req.ItemID, req.CreatedAt, req.sentQueryKey)
	if err != nil {
		return nil, toHTTPError("new_category_items", err)
	}

	res, err := withConn(ctx, h.store, func(repo Repository) (*GetNewCategoryItemsResponse, error) {
		root, err := h.categories.Resolve(ctx, repo, req.RootCategoryID)
		if err != nil {
			return nil, err
		}
		if !root.IsRoot() {
			return nil, ErrCategoryNotFound
		}

		res := &GetNewCategoryItemsResponse{
			RootCategoryID:   root.ID,
			RootCategoryName: root.CategoryName,
			Items:            []domain.ItemSimple{},
		}

		childIDs, err := repo.GetChildCategoryIDs(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		if len(childIDs) == 0 {
			return res, nil
		}

		page, err := h.pipeline.List(ctx, repo, ItemQuery{
			Statuses:    NewItemStatuses,
			CategoryIDs: childIDs,
			Cursor:      cursor,
		})
		if err != nil {
			return nil, err
		}

		res.HasNext = page.HasNext
		res.Items = page.Items
		return res, nil
	})
	if err != nil {
		return nil, toHTTPError("new_category_items", err)
	}

	return res, nil
}
