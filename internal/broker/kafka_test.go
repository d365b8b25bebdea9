package broker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryReader hands out queued messages and cancels the consumer once the
// queue is drained
type memoryReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *memoryReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	r.cancel()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *memoryReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *memoryReader) Close() error { return nil }

func newMemoryConsumer(offsets ...int64) (*Consumer, *memoryReader, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &memoryReader{cancel: cancel}
	for _, off := range offsets {
		reader.queue = append(reader.queue, kafka.Message{Offset: off, Value: []byte("{}")})
	}
	consumer := NewConsumerWithReader(reader, "bookings")
	consumer.SetRetry(3, time.Millisecond)
	return consumer, reader, ctx
}

func TestConsumerRetriesBeforeCommitting(t *testing.T) {
	consumer, reader, ctx := newMemoryConsumer(10, 11)

	calls := map[int64]int{}
	err := consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		calls[msg.Offset]++
		if msg.Offset == 10 && calls[msg.Offset] == 1 {
			return errors.New("smtp busy")
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, calls[10])
	assert.Equal(t, 1, calls[11])
	assert.Equal(t, []int64{10, 11}, reader.committed)
}

func TestConsumerCommitsAfterAttemptsExhausted(t *testing.T) {
	consumer, reader, ctx := newMemoryConsumer(7)

	attempts := 0
	err := consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		attempts++
		return errors.New("permanent failure")
	})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 3, attempts)
	require.Len(t, reader.committed, 1)
	assert.Equal(t, int64(7), reader.committed[0])
}

func TestConsumerStopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &memoryReader{cancel: cancel, queue: []kafka.Message{{Offset: 3}}}
	consumer := NewConsumerWithReader(reader, "bookings")
	consumer.SetRetry(5, time.Hour)

	err := consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		cancel()
		return errors.New("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.committed)
}
