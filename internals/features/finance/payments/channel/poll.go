// internals/features/finance/payments/channel/poll.go
package channel

import (
	"context"
	"log"
	"sync"
	"time"

	"kampusku_backend/internals/features/finance/payments/gateway"
)

// StatusChecker = subset gateway.Client yang dibutuhkan mode poll.
type StatusChecker interface {
	CheckStatus(ctx context.Context, tranID string) (gateway.StatusEvent, error)
}

const defaultMaxConsecutiveFails = 5

// PollChannel menanyakan status tiap interval tetap.
// Satu tick gagal cuma di-log dan dilewati; gagal beruntun melewati
// batas dianggap kanal putus.
type PollChannel struct {
	checker  StatusChecker
	tranID   string
	interval time.Duration
	maxFails int

	events chan gateway.StatusEvent

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

func NewPollChannel(checker StatusChecker, tranID string, interval time.Duration) *PollChannel {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &PollChannel{
		checker:  checker,
		tranID:   tranID,
		interval: interval,
		maxFails: defaultMaxConsecutiveFails,
		events:   make(chan gateway.StatusEvent),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *PollChannel) run() {
	defer close(p.events)
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	fails := 0
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
		}

		ev, err := p.checker.CheckStatus(p.ctx, p.tranID)
		if err != nil {
			if p.ctx.Err() != nil {
				return
			}
			fails++
			log.Printf("[WARN] poll status %s gagal (%d/%d): %v", p.tranID, fails, p.maxFails, err)
			if fails >= p.maxFails {
				p.setErr(&ChannelError{Mode: "poll", Err: err})
				return
			}
			continue
		}
		fails = 0

		select {
		case p.events <- ev:
		case <-p.ctx.Done():
			return
		}
		if ev.Status.IsTerminal() {
			return
		}
	}
}

func (p *PollChannel) Events() <-chan gateway.StatusEvent { return p.events }

func (p *PollChannel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *PollChannel) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Close menghentikan polling. Aman dipanggil berkali-kali; setelah kembali,
// tidak ada tick baru yang menyentuh jaringan.
func (p *PollChannel) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
	})
	<-p.done
}
