package channels_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/pomodoro/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_Subscribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(b *channels.Broadcaster[string]) error
		wantErr string
	}{
		{
			name:    "nil channel",
			setup:   func(b *channels.Broadcaster[string]) error { return b.Subscribe(nil) },
			wantErr: "cannot be nil",
		},
		{
			name: "nil channel with timeout",
			setup: func(b *channels.Broadcaster[string]) error {
				return b.SubscribeWithTimeout(nil, time.Second)
			},
			wantErr: "cannot be nil",
		},
		{
			name: "zero timeout",
			setup: func(b *channels.Broadcaster[string]) error {
				return b.SubscribeWithTimeout(make(chan string, 1), 0)
			},
			wantErr: "must be positive",
		},
		{
			name: "negative timeout",
			setup: func(b *channels.Broadcaster[string]) error {
				return b.SubscribeWithTimeout(make(chan string, 1), -time.Second)
			},
			wantErr: "must be positive",
		},
		{
			name:  "valid",
			setup: func(b *channels.Broadcaster[string]) error { return b.Subscribe(make(chan string, 1)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.setup(channels.NewBroadcaster[string]())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBroadcaster_Run(t *testing.T) {
	t.Parallel()

	t.Run("no subscribers", func(t *testing.T) {
		t.Parallel()

		_, err := channels.NewBroadcaster[string]().Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no subscribers")
	})

	t.Run("twice", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		b := channels.NewBroadcaster[string]()
		require.NoError(t, b.Subscribe(make(chan string, 1)))

		_, err := b.Run(ctx)
		require.NoError(t, err)

		_, err = b.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already started")

		err = b.Subscribe(make(chan string, 1))
		require.Error(t, err, "late subscribers are rejected")
	})
}

func TestBroadcaster_DeliversToEverySubscriber(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := channels.NewBroadcaster[string]()
	display := make(chan string, 10)
	logSink := make(chan string, 10)
	require.NoError(t, b.Subscribe(display))
	require.NoError(t, b.SubscribeWithTimeout(logSink, 50*time.Millisecond))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	input <- "work"
	input <- "short_break"
	input <- "work"

	cancel()
	b.Wait()
	close(display)
	close(logSink)

	want := []string{"work", "short_break", "work"}
	assert.Equal(t, want, receiveAll(display, 10*time.Millisecond))
	assert.Equal(t, want, receiveAll(logSink, 10*time.Millisecond))
}

func TestBroadcaster_SlowSubscriberDrops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := channels.NewBroadcaster[int]()
	full := make(chan int, 1)
	full <- 99
	ready := make(chan int, 10)
	require.NoError(t, b.Subscribe(full))
	require.NoError(t, b.Subscribe(ready))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		input <- i
	}

	cancel()
	b.Wait()
	close(ready)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, receiveAll(ready, 10*time.Millisecond))

	stats := b.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, 5, stats[0].Dropped)
	assert.False(t, stats[0].Inactive)
	assert.Equal(t, 0, stats[1].Dropped)
}

func TestBroadcaster_ClosedSubscriberGoesInactive(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := channels.NewBroadcaster[int]()
	gone := make(chan int, 10)
	alive := make(chan int, 10)
	require.NoError(t, b.Subscribe(gone))
	require.NoError(t, b.Subscribe(alive))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	close(gone)
	input <- 1
	input <- 2

	cancel()
	b.Wait()

	stats := b.Stats()
	assert.Equal(t, 2, stats[0].Dropped)
	assert.True(t, stats[0].Inactive)
	assert.False(t, stats[1].Inactive)
}

func TestBroadcaster_SendAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	b := channels.NewBroadcaster[int]()
	require.NoError(t, b.Subscribe(make(chan int, 1)))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	cancel()
	b.Wait()

	require.ErrorIs(t, channels.SendNonBlock(input, 1), channels.ErrChannelClosed)
}

// receiveAll drains ch until it is closed or stays idle for idle.
func receiveAll[T any](ch <-chan T, idle time.Duration) []T {
	var out []T

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return out
			}

			out = append(out, msg)
		case <-time.After(idle):
			return out
		}
	}
}
