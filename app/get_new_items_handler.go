package app

import (
	"context"

	"isucari/domain"
)

type GetNewItemsHandler struct {
	store    Store
	pipeline *ListingPipeline
}

func NewGetNewItemsHandler(store Store, pipeline *ListingPipeline) *GetNewItemsHandler {
	return &GetNewItemsHandler{
		store:    store,
		pipeline: pipeline,
	}
}

type GetNewItemsRequest struct {
	ItemID    string `query:"item_id"`
	CreatedAt string `query:"created_at"`

	sentQueryKey func(key string) bool
}

// SetQueryKeys lets the cursor tell an empty value from a missing key.
func (r *GetNewItemsRequest) SetQueryKeys(has func(key string) bool) {
	r.sentQueryKey = has
}

type GetNewItemsResponse struct {
	HasNext bool                `json:"has_next"`
	Items   []domain.ItemSimple `json:"items"`
}

func (h GetNewItemsHandler) Handle(ctx context.Context, req *GetNewItemsRequest) (*GetNewItemsResponse, error) {
	cursor, err := ParseCursor(req.ItemID, req.CreatedAt, req.sentQueryKey)
	if err != nil {
		return nil, toHTTPError("new_items", err)
	}

	page, err := withConn(ctx, h.store, func(repo Repository) (ListingPage, error) {
		return h.pipeline.List(ctx, repo, ItemQuery{
			Statuses: NewItemStatuses,
			Cursor:   cursor,
		})
	})
	if err != nil {
		return nil, toHTTPError("new_items", err)
	}

	return &GetNewItemsResponse{
		HasNext: page.HasNext,
		Items:   page.Items,
	}, nil
}
