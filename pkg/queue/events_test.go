package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeEventRoundTripsSubscriptionData(t *testing.T) {
	value, err := json.Marshal(Event{
		Type:      EventSubscriptionCreated,
		Timestamp: time.Now(),
		Data: SubscriptionEventData{
			SubscriberID: "a",
			ChannelID:    "b",
			State:        "subscribed",
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event, err := DecodeEvent(value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Type != EventSubscriptionCreated {
		t.Fatalf("unexpected type %s", event.Type)
	}

	var data SubscriptionEventData
	if err := event.DecodeData(&data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.SubscriberID != "a" || data.ChannelID != "b" || data.State != "subscribed" {
		t.Fatalf("unexpected data %+v", data)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not json":     "{",
		"missing type": `{"data":{}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeEvent([]byte(raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
