package consumers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"isucari/app"
	"isucari/pkg/events"
)

var ErrMalformedPayload = errors.New("malformed payload")

// ItemEventHandler keeps users.num_sell_items in step with item lifecycle
// events. Every event carrying a seller triggers a recount, so redelivered or
// reordered events converge on the same value.
type ItemEventHandler struct {
	store app.Store
}

func NewItemEventHandler(store app.Store) *ItemEventHandler {
	return &ItemEventHandler{store: store}
}

func (h *ItemEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if !strings.HasPrefix(event.Event, events.ItemDomain+".") {
		zap.L().Warn("Unknown item event type", zap.String("event", event.Event))
		return nil
	}

	var payload events.ItemLifecyclePayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.SellerID <= 0 {
		return fmt.Errorf("%w: sellerId missing or invalid", ErrMalformedPayload)
	}

	repo, err := h.store.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer repo.Close()

	count, err := repo.RefreshSellerItemCount(ctx, payload.SellerID)
	if err != nil {
		return fmt.Errorf("refresh seller %d item count: %w", payload.SellerID, err)
	}

	zap.L().Info("Seller item count refreshed",
		zap.String("event", event.Event),
		zap.Int64("itemId", payload.ItemID),
		zap.Int64("sellerId", payload.SellerID),
		zap.Int("numSellItems", count),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
