package events

import (
	"context"
	"encoding/json"
	"testing"
)

func TestEvent_GetRoutingKey(t *testing.T) {
	e := NewEvent(ItemListedEvent, EventVersionV1, nil, Headers{})
	if got := e.GetRoutingKey(); got != "item.listed.v1" {
		t.Errorf("GetRoutingKey() = %q, want %q", got, "item.listed.v1")
	}
}

func TestEvent_DecodePayload_AfterWireRoundTrip(t *testing.T) {
	headers := Headers{TraceID: GenerateTraceID(), CorrelationID: GenerateCorrelationID()}
	sent := NewEvent(ItemBoughtEvent, EventVersionV1, ItemLifecyclePayload{
		ItemID:   10,
		SellerID: 3,
		BuyerID:  7,
		Status:   "trading",
	}, headers)

	body, err := sent.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var received Event
	if err := json.Unmarshal(body, &received); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if received.TraceID != headers.TraceID {
		t.Errorf("TraceID = %q, want %q", received.TraceID, headers.TraceID)
	}

	var payload ItemLifecyclePayload
	if err := received.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.SellerID != 3 || payload.ItemID != 10 || payload.BuyerID != 7 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestEvent_DecodePayload_Malformed(t *testing.T) {
	e := &Event{Payload: map[string]any{"sellerId": "not-a-number"}}

	var payload ItemLifecyclePayload
	if err := e.DecodePayload(&payload); err == nil {
		t.Error("DecodePayload() error = nil, want error")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), ConfigExchange, NewEvent(ConfigUpdatedEvent, EventVersionV1, nil, Headers{}), Headers{}); err != nil {
		t.Errorf("Publish() = %v, want nil", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
