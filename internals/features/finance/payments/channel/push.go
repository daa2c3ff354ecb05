// internals/features/finance/payments/channel/push.go
package channel

import (
	"context"
	"sync"

	"kampusku_backend/internals/features/finance/payments/gateway"
)

// StatusStreamer = subset gateway.Client yang dibutuhkan mode push.
type StatusStreamer interface {
	StreamStatus(ctx context.Context, tranID string) (<-chan gateway.StatusEvent, <-chan error)
}

// PushChannel membungkus stream SSE gateway. Menutup diri setelah event
// terminal; error transport muncul lewat Err().
type PushChannel struct {
	events chan gateway.StatusEvent

	cancel context.CancelFunc

	closeOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

func NewPushChannel(streamer StatusStreamer, tranID string) *PushChannel {
	ctx, cancel := context.WithCancel(context.Background())
	p := &PushChannel{
		events: make(chan gateway.StatusEvent),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	upstream, errs := streamer.StreamStatus(ctx, tranID)

	go func() {
		defer close(p.events)
		defer close(p.done)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-upstream:
				if !ok {
					// stream habis tanpa terminal: cek apakah ada error transport
					if err, open := <-errs; open && err != nil {
						p.setErr(&ChannelError{Mode: "push", Err: err})
					}
					return
				}
				select {
				case p.events <- ev:
				case <-ctx.Done():
					return
				}
				if ev.Status.IsTerminal() {
					return
				}
			}
		}
	}()

	return p
}

func (p *PushChannel) Events() <-chan gateway.StatusEvent { return p.events }

func (p *PushChannel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *PushChannel) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *PushChannel) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
	})
	<-p.done
}
