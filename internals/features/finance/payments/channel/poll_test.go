package channel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/finance/payments/gateway"
)

// fakeChecker mengembalikan hasil sesuai skrip; setelah skrip habis,
// terus mengulang hasil terakhir.
type fakeChecker struct {
	mu     sync.Mutex
	script []func() (gateway.StatusEvent, error)
	calls  int32
}

func (f *fakeChecker) CheckStatus(ctx context.Context, tranID string) (gateway.StatusEvent, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.script) == 0 {
		return gateway.StatusEvent{TranID: tranID, Status: gateway.StatusPending}, nil
	}
	step := f.script[0]
	if len(f.script) > 1 {
		f.script = f.script[1:]
	}
	return step()
}

func (f *fakeChecker) callCount() int32 { return atomic.LoadInt32(&f.calls) }

func pendingStep() func() (gateway.StatusEvent, error) {
	return func() (gateway.StatusEvent, error) {
		return gateway.StatusEvent{Status: gateway.StatusPending}, nil
	}
}

func paidStep() func() (gateway.StatusEvent, error) {
	return func() (gateway.StatusEvent, error) {
		return gateway.StatusEvent{Status: gateway.StatusPaid}, nil
	}
}

func failStep() func() (gateway.StatusEvent, error) {
	return func() (gateway.StatusEvent, error) {
		return gateway.StatusEvent{}, errors.New("timeout")
	}
}

func collect(t *testing.T, ch *PollChannel, timeout time.Duration) []gateway.StatusEvent {
	t.Helper()
	var got []gateway.StatusEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch.Events():
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-deadline:
			t.Fatal("channel tidak selesai dalam batas waktu")
		}
	}
}

func TestPollChannel_StopsAfterTerminal(t *testing.T) {
	f := &fakeChecker{script: []func() (gateway.StatusEvent, error){
		pendingStep(), paidStep(),
	}}
	ch := NewPollChannel(f, "TRX-1", 10*time.Millisecond)

	got := collect(t, ch, 2*time.Second)
	require.Len(t, got, 2)
	assert.Equal(t, gateway.StatusPending, got[0].Status)
	assert.Equal(t, gateway.StatusPaid, got[1].Status)
	assert.NoError(t, ch.Err())

	// setelah terminal tidak boleh ada tick baru
	calls := f.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, f.callCount())
}

func TestPollChannel_SingleFailedTickTolerated(t *testing.T) {
	f := &fakeChecker{script: []func() (gateway.StatusEvent, error){
		pendingStep(), failStep(), paidStep(),
	}}
	ch := NewPollChannel(f, "TRX-2", 10*time.Millisecond)

	got := collect(t, ch, 2*time.Second)
	require.Len(t, got, 2, "tick yang gagal dilewati, bukan diteruskan")
	assert.Equal(t, gateway.StatusPaid, got[1].Status)
	assert.NoError(t, ch.Err(), "satu kegagalan bukan ChannelError")
}

func TestPollChannel_ConsecutiveFailsKillChannel(t *testing.T) {
	f := &fakeChecker{script: []func() (gateway.StatusEvent, error){
		failStep(), // diulang terus (elemen terakhir skrip)
	}}
	ch := NewPollChannel(f, "TRX-3", 5*time.Millisecond)

	got := collect(t, ch, 2*time.Second)
	assert.Empty(t, got)

	var chErr *ChannelError
	require.ErrorAs(t, ch.Err(), &chErr)
	assert.Equal(t, "poll", chErr.Mode)
	assert.Equal(t, int32(defaultMaxConsecutiveFails), f.callCount())
}

func TestPollChannel_CloseIdempotentAndStopsTicks(t *testing.T) {
	f := &fakeChecker{}
	ch := NewPollChannel(f, "TRX-4", 10*time.Millisecond)

	time.Sleep(35 * time.Millisecond)
	ch.Close()
	ch.Close() // idempoten

	calls := f.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, f.callCount(), "nol tick setelah Close")
	assert.NoError(t, ch.Err())

	_, open := <-ch.Events()
	assert.False(t, open)
}

func TestPollChannel_ZeroTicksAfterImmediateClose(t *testing.T) {
	f := &fakeChecker{}
	ch := NewPollChannel(f, "TRX-5", 50*time.Millisecond)
	ch.Close()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), f.callCount())
}
