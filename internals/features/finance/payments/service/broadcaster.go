// internals/features/finance/payments/service/broadcaster.go
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionEvent = frame yang dikirim ke browser lewat endpoint SSE sesi.
type SessionEvent struct {
	SessionID  uuid.UUID  `json:"session_id"`
	Status     string     `json:"status"`
	QRImageURL *string    `json:"qr_image_url,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	LastError  *string    `json:"last_error,omitempty"`
	// Closing=true adalah frame terakhir (auto-close setelah terminal).
	Closing bool `json:"closing,omitempty"`
}

// Broadcaster fan-out event sesi ke semua subscriber SSE-nya.
// Publish tidak pernah memblokir: subscriber lambat kehilangan frame
// lama (buffer kecil), bukan menahan reconciler.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan SessionEvent]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uuid.UUID]map[chan SessionEvent]struct{})}
}

func (b *Broadcaster) Subscribe(sessionID uuid.UUID) (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 8)

	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan SessionEvent]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[sessionID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, sessionID)
				}
			}
			b.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

func (b *Broadcaster) Publish(ev SessionEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default: // subscriber lambat: frame lama dikorbankan
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
