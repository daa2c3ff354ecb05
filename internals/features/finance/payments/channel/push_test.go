package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/finance/payments/gateway"
)

type fakeStreamer struct {
	events chan gateway.StatusEvent
	errs   chan error
}

func newFakeStreamer() *fakeStreamer {
	return &fakeStreamer{
		events: make(chan gateway.StatusEvent, 8),
		errs:   make(chan error, 1),
	}
}

func (f *fakeStreamer) StreamStatus(ctx context.Context, tranID string) (<-chan gateway.StatusEvent, <-chan error) {
	return f.events, f.errs
}

func (f *fakeStreamer) finish(err error) {
	if err != nil {
		f.errs <- err
	}
	close(f.errs)
	close(f.events)
}

func TestPushChannel_ForwardsUntilTerminal(t *testing.T) {
	s := newFakeStreamer()
	s.events <- gateway.StatusEvent{Status: gateway.StatusPending}
	s.events <- gateway.StatusEvent{Status: gateway.StatusPaid}

	ch := NewPushChannel(s, "TRX-1")

	var got []gateway.PaymentStatus
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch.Events():
			if !ok {
				assert.Equal(t, []gateway.PaymentStatus{gateway.StatusPending, gateway.StatusPaid}, got)
				assert.NoError(t, ch.Err())
				return
			}
			got = append(got, ev.Status)
		case <-timeout:
			t.Fatal("channel tidak selesai")
		}
	}
}

func TestPushChannel_TransportErrorSurfaces(t *testing.T) {
	s := newFakeStreamer()
	s.finish(errors.New("connection reset"))

	ch := NewPushChannel(s, "TRX-2")

	select {
	case _, open := <-ch.Events():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel tidak menutup")
	}

	var chErr *ChannelError
	require.ErrorAs(t, ch.Err(), &chErr)
	assert.Equal(t, "push", chErr.Mode)
}

func TestPushChannel_CloseIdempotent(t *testing.T) {
	s := newFakeStreamer()
	ch := NewPushChannel(s, "TRX-3")

	ch.Close()
	ch.Close()

	_, open := <-ch.Events()
	assert.False(t, open)
}
