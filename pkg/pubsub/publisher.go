package pubsub

import (
	"context"
	"encoding/json"
)

// Pack is a message with its partition key.
type Pack struct {
	Key []byte
	Msg []byte
}

func NewJSONPack(key string, v any) (*Pack, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &Pack{Key: []byte(key), Msg: b}, nil
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}

type MockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, pack *Pack) error
}

func (p *MockPublisher) Publish(ctx context.Context, topic string, pack *Pack) error {
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, topic, pack)
	}

	return nil
}
