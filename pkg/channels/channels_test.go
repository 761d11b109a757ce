package channels_test

import (
	"testing"
	"time"

	"github.com/alkime/pomodoro/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	t.Parallel()

	type sendFunc func(ch chan<- int, v int) error

	nonBlock := func(ch chan<- int, v int) error { return channels.SendNonBlock(ch, v) }
	withTimeout := func(ch chan<- int, v int) error {
		return channels.SendWithTimeout(ch, v, 2*time.Millisecond)
	}

	tests := []struct {
		name    string
		send    sendFunc
		mkChan  func() chan int
		wantErr error
	}{
		{"non-blocking into free buffer", nonBlock, func() chan int { return make(chan int, 1) }, nil},
		{"non-blocking into full buffer", nonBlock, fullChan, channels.ErrChannelFull},
		{"non-blocking unbuffered without reader", nonBlock, func() chan int { return make(chan int) }, channels.ErrChannelFull},
		{"non-blocking into closed", nonBlock, closedChan, channels.ErrChannelClosed},
		{"timeout into free buffer", withTimeout, func() chan int { return make(chan int, 1) }, nil},
		{"timeout into full buffer", withTimeout, fullChan, channels.ErrChannelTimeout},
		{"timeout into closed", withTimeout, closedChan, channels.ErrChannelClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.send(tt.mkChan(), 42)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSendWithTimeout_Receiver(t *testing.T) {
	t.Parallel()

	ch := make(chan int)
	go func() { <-ch }()

	require.NoError(t, channels.SendWithTimeout(ch, 1, 100*time.Millisecond))
}

func TestSend_ClosedKeepsBufferedData(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 2)
	ch <- 1
	close(ch)

	require.ErrorIs(t, channels.SendNonBlock(ch, 2), channels.ErrChannelClosed)
	assert.Equal(t, 1, <-ch)
}

func fullChan() chan int {
	ch := make(chan int, 1)
	ch <- 0

	return ch
}

func closedChan() chan int {
	ch := make(chan int)
	close(ch)

	return ch
}
