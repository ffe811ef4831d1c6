package app

import (
	"context"
	"database/sql"
	"errors"

	"isucari/domain"
)

type GetSettingsHandler struct {
	store      Store
	categories *CategoryResolver
}

func NewGetSettingsHandler(store Store, categories *CategoryResolver) *GetSettingsHandler {
	return &GetSettingsHandler{
		store:      store,
		categories: categories,
	}
}

type GetSettingsRequest struct{}

// User stays nil: sessions are handled in front of this service.
type GetSettingsResponse struct {
	User              *domain.User      `json:"user"`
	PaymentServiceURL string            `json:"payment_service_url"`
	Categories        []domain.Category `json:"categories"`
}

func (h GetSettingsHandler) Handle(ctx context.Context, _ *GetSettingsRequest) (*GetSettingsResponse, error) {
	res, err := withConn(ctx, h.store, func(repo Repository) (*GetSettingsResponse, error) {
		paymentURL, err := configValue(ctx, repo, domain.ConfigPaymentServiceURL, domain.DefaultPaymentServiceURL)
		if err != nil {
			return nil, err
		}

		categories, err := h.categories.All(ctx, repo)
		if err != nil {
			return nil, err
		}

		return &GetSettingsResponse{
			PaymentServiceURL: paymentURL,
			Categories:        categories,
		}, nil
	})
	if err != nil {
		return nil, toHTTPError("settings", err)
	}

	return res, nil
}

func configValue(ctx context.Context, repo Repository, name, fallback string) (string, error) {
	cfg, err := repo.GetConfig(ctx, name)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && cfg.Val == "") {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return cfg.Val, nil
}
