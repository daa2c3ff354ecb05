// internals/features/finance/payments/service/manager.go
package service

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	"kampusku_backend/internals/features/finance/payments/channel"
	"kampusku_backend/internals/features/finance/payments/gateway"
	payModel "kampusku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Manager = registry reconciler hidup, SATU goroutine pengawas
   per sesi. Shutdown() dipasang di graceful shutdown main.go.
========================================================= */

type Manager struct {
	store       *Store
	gw          *gateway.Client
	notifier    Notifier
	broadcaster *Broadcaster
	cfg         configs.PaymentSettings

	mu       sync.Mutex
	live     map[uuid.UUID]*Reconciler
	byTranID map[string]uuid.UUID
	closed   bool
	wg       sync.WaitGroup
}

func NewManager(db *gorm.DB, cfg configs.PaymentSettings) *Manager {
	InitMidtrans(cfg.MidtransServerKey, cfg.MidtransUseProd)
	return &Manager{
		store:       NewStore(db),
		gw:          gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.QRLifetimeSec),
		notifier:    LogNotifier{},
		broadcaster: NewBroadcaster(),
		cfg:         cfg,
		live:        make(map[uuid.UUID]*Reconciler),
		byTranID:    make(map[string]uuid.UUID),
	}
}

func (m *Manager) Store() *Store             { return m.store }
func (m *Manager) Broadcaster() *Broadcaster { return m.broadcaster }

// Start menyalakan pengawas untuk sesi yang baru dibuat.
func (m *Manager) Start(sess payModel.PaymentSessionModel, semester, payerName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	if _, dup := m.live[sess.PaymentSessionsID]; dup {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Reconciler{
		SessionID:      sess.PaymentSessionsID,
		RegistrationID: sess.PaymentSessionsRegistrationID,
		Provider:       sess.PaymentSessionsProvider,
		AmountIDR:      sess.PaymentSessionsAmountIDR,
		Semester:       semester,
		PayerName:      payerName,

		store:     m.store,
		regStore:  m.store,
		notifier:  m.notifier,
		broadcast: m.broadcaster,
		initiator: m.gw,

		ttl:            m.cfg.SessionTTL,
		autoCloseDelay: m.cfg.AutoCloseDelay,

		ctx:      ctx,
		cancel:   cancel,
		external: make(chan gateway.StatusEvent),
		done:     make(chan struct{}),
	}

	switch sess.PaymentSessionsProvider {
	case payModel.ProviderMidtrans:
		// midtrans: status datang dari webhook, tanpa kanal gateway
		sessID := sess.PaymentSessionsID
		amount := sess.PaymentSessionsAmountIDR
		desc := "Registrasi semester " + semester
		r.initiateCheckout = func(context.Context) (string, string, error) {
			return GenerateSnapCheckout(sessID, amount, desc)
		}
	default:
		pollFactory := func(tranID string) channel.StatusChannel {
			return channel.NewPollChannel(m.gw, tranID, m.cfg.PollInterval)
		}
		if strings.EqualFold(m.cfg.StatusMode, "push") {
			r.newChannel = func(tranID string) channel.StatusChannel {
				return channel.NewPushChannel(m.gw, tranID)
			}
			r.fallbackChannel = pollFactory
			r.channelMode = payModel.EventSourceStream
		} else {
			r.newChannel = pollFactory
			r.channelMode = payModel.EventSourcePoll
		}
	}

	r.onTranID = func(tranID string) {
		m.mu.Lock()
		m.byTranID[tranID] = r.SessionID
		m.mu.Unlock()
	}

	m.live[sess.PaymentSessionsID] = r
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		r.run()

		m.mu.Lock()
		delete(m.live, r.SessionID)
		if t := r.TranID(); t != "" {
			delete(m.byTranID, t)
		}
		m.mu.Unlock()
	}()

	log.Printf("[INFO] 🚀 pengawas sesi pembayaran %s dinyalakan (provider=%s)", sess.PaymentSessionsID, sess.PaymentSessionsProvider)
	return true
}

func (m *Manager) Get(sessionID uuid.UUID) (*Reconciler, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.live[sessionID]
	return r, ok
}

// Cancel membatalkan sesi yang masih hidup. false = tidak ada pengawasnya
// (sesi sudah terminal atau proses pernah restart).
func (m *Manager) Cancel(sessionID uuid.UUID) bool {
	m.mu.Lock()
	r, ok := m.live[sessionID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	r.Cancel()
	return true
}

// Dispatch menyuapkan event webhook ke pengawas sesi berdasar tran_id.
func (m *Manager) Dispatch(tranID string, ev gateway.StatusEvent) bool {
	m.mu.Lock()
	sessID, ok := m.byTranID[tranID]
	var r *Reconciler
	if ok {
		r = m.live[sessID]
	}
	m.mu.Unlock()
	if r == nil {
		return false
	}
	return r.Inject(ev)
}

// DispatchSession = Dispatch tapi berdasar id sesi (order_id midtrans).
func (m *Manager) DispatchSession(sessionID uuid.UUID, ev gateway.StatusEvent) bool {
	m.mu.Lock()
	r := m.live[sessionID]
	m.mu.Unlock()
	if r == nil {
		return false
	}
	return r.Inject(ev)
}

// Shutdown meruntuhkan semua pengawas tanpa menulis status sesi —
// sesi pending bisa diselesaikan webhook setelah proses naik lagi.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	reconcilers := make([]*Reconciler, 0, len(m.live))
	for _, r := range m.live {
		reconcilers = append(reconcilers, r)
	}
	m.mu.Unlock()

	for _, r := range reconcilers {
		r.Stop()
	}
	m.wg.Wait()
	log.Printf("[INFO] 🧹 semua pengawas sesi pembayaran berhenti")
}
