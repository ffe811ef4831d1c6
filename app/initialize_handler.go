package app

import (
	"context"

	"go.uber.org/zap"

	"isucari/domain"
	"isucari/pkg/events"
	"isucari/pkg/httperror"
)

type InitializeHandler struct {
	store     Store
	publisher events.Publisher
}

func NewInitializeHandler(store Store, publisher events.Publisher) *InitializeHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &InitializeHandler{
		store:     store,
		publisher: publisher,
	}
}

type InitializeRequest struct {
	PaymentServiceURL  string `json:"payment_service_url" validate:"required,url"`
	ShipmentServiceURL string `json:"shipment_service_url" validate:"required,url"`
}

type InitializeResponse struct {
	IsCampaign bool `json:"is_campaign"`
}

func (h InitializeHandler) Handle(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, httperror.BadRequest(
			"initialize.validation_failed",
			"json decode error",
			nil,
		)
	}

	settings := []domain.Config{
		{Name: domain.ConfigPaymentServiceURL, Val: req.PaymentServiceURL},
		{Name: domain.ConfigShipmentServiceURL, Val: req.ShipmentServiceURL},
	}

	_, err := withConn(ctx, h.store, func(repo Repository) (struct{}, error) {
		for _, s := range settings {
			if err := repo.UpsertConfig(ctx, s.Name, s.Val); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, toHTTPError("initialize", err)
	}

	headers := events.Headers{
		TraceID:       events.GenerateTraceID(),
		CorrelationID: events.GenerateCorrelationID(),
	}
	for _, s := range settings {
		event := events.NewEvent(events.ConfigUpdatedEvent, events.EventVersionV1, events.ConfigUpdatedPayload{
			Name: s.Name,
			Val:  s.Val,
		}, headers)
		if err := h.publisher.Publish(ctx, events.ConfigExchange, event, headers); err != nil {
			zap.L().Warn("Failed to publish config update",
				zap.String("name", s.Name),
				zap.String("traceId", headers.TraceID),
				zap.Error(err),
			)
		}
	}

	return &InitializeResponse{
		IsCampaign: false,
	}, nil
}
