package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	want := Message{Type: "email", Body: []byte(`{"to":"t@test.test"}`)}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	select {
	case got := <-msgs:
		if got.Type != want.Type || string(got.Body) != string(want.Body) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishCancelled(t *testing.T) {
	q := NewInMemory(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Publish(ctx, Message{Type: "email"}); err == nil {
		t.Error("Publish() on cancelled context should fail")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"plain", Message{Type: "email", Body: []byte("hello")}},
		{"body with separator", Message{Type: "email", Body: []byte(`{"a":"b|c"}`)}},
		{"empty body", Message{Type: "email", Body: []byte("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deserialize(serialize(tt.msg))
			if got.Type != tt.msg.Type || string(got.Body) != string(tt.msg.Body) {
				t.Errorf("round trip = %+v, want %+v", got, tt.msg)
			}
		})
	}
}
