package events

import "time"

const (
	ItemDomain     = "item"
	ItemExchange   = "isucari.item"
	ConfigExchange = "isucari.config"
)

// Item lifecycle events are produced by the sell/buy/ship services.
const (
	ItemListedEvent    = "item.listed"
	ItemEditedEvent    = "item.edited"
	ItemBoughtEvent    = "item.bought"
	ItemShippedEvent   = "item.shipped"
	ItemCompletedEvent = "item.completed"
	ItemCancelledEvent = "item.cancelled"
	ItemStoppedEvent   = "item.stopped"

	ConfigUpdatedEvent = "config.updated"
)

const (
	EventVersionV1 = "v1"
)

type ItemLifecyclePayload struct {
	ItemID     int64     `json:"itemId"`
	SellerID   int64     `json:"sellerId"`
	BuyerID    int64     `json:"buyerId,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

type ConfigUpdatedPayload struct {
	Name string `json:"name"`
	Val  string `json:"val"`
}
