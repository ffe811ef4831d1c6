package app

import (
	"context"

	"isucari/domain"
	"isucari/pkg/httperror"
)

type GetUserItemsHandler struct {
	store    Store
	pipeline *ListingPipeline
}

func NewGetUserItemsHandler(store Store, pipeline *ListingPipeline) *GetUserItemsHandler {
	return &GetUserItemsHandler{
		store:    store,
		pipeline: pipeline,
	}
}

type GetUserItemsRequest struct {
	UserID    int64  `params:"user_id" validate:"gt=0"`
	ItemID    string `query:"item_id"`
	CreatedAt string `query:"created_at"`

	sentQueryKey func(key string) bool
}

// SetQueryKeys lets the cursor tell an empty value from a missing key.
func (r *GetUserItemsRequest) SetQueryKeys(has func(key string) bool) {
	r.sentQueryKey = has
}

type GetUserItemsResponse struct {
	User    domain.UserSimple   `json:"user"`
	HasNext bool                `json:"has_next"`
	Items   []domain.ItemSimple `json:"items"`
}

func (h GetUserItemsHandler) Handle(ctx context.Context, req *GetUserItemsRequest) (*GetUserItemsResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, httperror.BadRequest(
			"user_items.validation_failed",
			"incorrect user id",
			nil,
		)
	}

	cursor, err := ParseCursor(req.ItemID, req.CreatedAt, req.sentQueryKey)
	if err != nil {
		return nil, toHTTPError("user_items", err)
	}

	res, err := withConn(ctx, h.store, func(repo Repository) (*GetUserItemsResponse, error) {
		user, err := LookupUserSimple(ctx, repo, req.UserID)
		if err != nil {
			return nil, err
		}

		page, err := h.pipeline.List(ctx, repo, ItemQuery{
			Statuses: UserItemStatuses,
			SellerID: user.ID,
			Cursor:   cursor,
		})
		if err != nil {
			return nil, err
		}

		return &GetUserItemsResponse{
			User:    user,
			HasNext: page.HasNext,
			Items:   page.Items,
		}, nil
	})
	if err != nil {
		return nil, toHTTPError("user_items", err)
	}

	return res, nil
}
