package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/videotube/videotube/pkg/queue"
)

// Publisher records published events as the JSON a Kafka consumer would
// receive.
type Publisher struct {
	mu       sync.Mutex
	messages []queue.Message
	Err      error
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(_ context.Context, key string, value interface{}) error {
	if p.Err != nil {
		return p.Err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	p.messages = append(p.messages, queue.Message{Key: key, Value: data})
	p.mu.Unlock()
	return nil
}

func (p *Publisher) Messages() []queue.Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]queue.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// EventTypes lists the type of every published event in order.
func (p *Publisher) EventTypes() []queue.EventType {
	var types []queue.EventType
	for _, msg := range p.Messages() {
		if event, err := queue.DecodeEvent(msg.Value); err == nil {
			types = append(types, event.Type)
		}
	}
	return types
}
