package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/finance/payments/channel"
	"kampusku_backend/internals/features/finance/payments/gateway"
	payModel "kampusku_backend/internals/features/finance/payments/model"
)

/* ============================== fakes =============================== */

type fakeStore struct {
	mu            sync.Mutex
	initiated     []string
	terminals     []payModel.PaymentSessionStatus
	lastErrors    []*string
	events        []string
	unpaidCalls   int
	checkoutCalls int
}

func (f *fakeStore) MarkInitiated(sessionID uuid.UUID, tranID, qrImageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiated = append(f.initiated, tranID)
	return nil
}

func (f *fakeStore) MarkCheckout(sessionID uuid.UUID, tranID, checkoutURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkoutCalls++
	return nil
}

func (f *fakeStore) MarkTerminal(sessionID uuid.UUID, status payModel.PaymentSessionStatus, lastError *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminals = append(f.terminals, status)
	f.lastErrors = append(f.lastErrors, lastError)
	return nil
}

func (f *fakeStore) RecordEvent(sessionID *uuid.UUID, tranID *string, source payModel.GatewayEventSource, observedStatus string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, observedStatus)
	return nil
}

func (f *fakeStore) MarkRegistrationUnpaid(registrationID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpaidCalls++
	return nil
}

func (f *fakeStore) terminalStatuses() []payModel.PaymentSessionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]payModel.PaymentSessionStatus, len(f.terminals))
	copy(out, f.terminals)
	return out
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, msg)
}

func (f *fakeNotifier) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, msg)
}

func (f *fakeNotifier) successCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.successes)
}

type fakeInitiator struct {
	qr    *gateway.QRSession
	err   error
	block chan struct{} // nil = jawab langsung
}

func (f *fakeInitiator) GenerateQR(ctx context.Context, req gateway.GenerateQRRequest) (*gateway.QRSession, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.qr, nil
}

// stubChannel: skrip event di tangan test; TIDAK menutup diri otomatis,
// supaya pengiriman ganda bisa disimulasikan.
type stubChannel struct {
	events    chan gateway.StatusEvent
	err       error
	closeOnce sync.Once
	closed    chan struct{}
}

func newStubChannel() *stubChannel {
	return &stubChannel{
		events: make(chan gateway.StatusEvent, 8),
		closed: make(chan struct{}),
	}
}

func (s *stubChannel) Events() <-chan gateway.StatusEvent { return s.events }
func (s *stubChannel) Err() error                         { return s.err }
func (s *stubChannel) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

/* ============================== harness ============================= */

type harness struct {
	r        *Reconciler
	store    *fakeStore
	notifier *fakeNotifier
	bc       *Broadcaster
	ch       *stubChannel
}

func newHarness(t *testing.T, opts func(*Reconciler)) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		store:    &fakeStore{},
		notifier: &fakeNotifier{},
		bc:       NewBroadcaster(),
		ch:       newStubChannel(),
	}
	h.r = &Reconciler{
		SessionID:      uuid.New(),
		RegistrationID: uuid.New(),
		Provider:       payModel.ProviderQRGate,
		AmountIDR:      2500000,

		store:     h.store,
		regStore:  h.store,
		notifier:  h.notifier,
		broadcast: h.bc,
		initiator: &fakeInitiator{qr: &gateway.QRSession{TranID: "TRX-9", QRImageURL: "https://cdn.example/qr.png"}},

		newChannel:  func(string) channel.StatusChannel { return h.ch },
		channelMode: payModel.EventSourcePoll,

		ttl:            5 * time.Second,
		autoCloseDelay: 30 * time.Millisecond,

		ctx:      ctx,
		cancel:   cancel,
		external: make(chan gateway.StatusEvent),
		done:     make(chan struct{}),
	}
	if opts != nil {
		opts(h.r)
	}
	return h
}

func (h *harness) runAndWait(t *testing.T, timeout time.Duration) {
	t.Helper()
	go h.r.run()
	select {
	case <-h.r.Done():
	case <-time.After(timeout):
		t.Fatal("reconciler tidak selesai dalam batas waktu")
	}
}

/* =============================== tests ============================== */

func TestReconciler_ExactlyOnceUnderDuplicatePaid(t *testing.T) {
	h := newHarness(t, nil)

	// gateway lapor PAID dua kali (push + poll dobel)
	h.ch.events <- gateway.StatusEvent{TranID: "TRX-9", Status: gateway.StatusPaid}
	h.ch.events <- gateway.StatusEvent{TranID: "TRX-9", Status: gateway.StatusPaid}

	h.runAndWait(t, 2*time.Second)

	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionPaid}, h.store.terminalStatuses())
	assert.Equal(t, 1, h.notifier.successCount())

	// event telat setelah terminal = no-op
	delivered := h.r.Inject(gateway.StatusEvent{Status: gateway.StatusPaid})
	assert.False(t, delivered)
	assert.Len(t, h.store.terminalStatuses(), 1)
}

func TestReconciler_CancelDuringInitiatingDiscardsResult(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, func(r *Reconciler) {
		r.initiator = &fakeInitiator{
			qr:    &gateway.QRSession{TranID: "TRX-LATE", QRImageURL: "x"},
			block: release,
		}
	})

	frames, unsubscribe := h.bc.Subscribe(h.r.SessionID)
	defer unsubscribe()

	go h.r.run()
	time.Sleep(20 * time.Millisecond) // biarkan masuk fase inisiasi

	cancelDone := make(chan struct{})
	go func() {
		h.r.Cancel()
		close(cancelDone)
	}()

	// tunggu pembatalan benar-benar berlaku sebelum hasil dilepas,
	// supaya skenario "hasil datang TELAT" yang diuji memang terjadi
	for h.r.ctx.Err() == nil {
		time.Sleep(time.Millisecond)
	}
	close(release) // hasil inisiasi datang TELAT

	select {
	case <-cancelDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel tidak kembali")
	}

	h.store.mu.Lock()
	initiated := len(h.store.initiated)
	h.store.mu.Unlock()
	assert.Zero(t, initiated, "hasil inisiasi yang telat harus dibuang")
	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionCanceled}, h.store.terminalStatuses())

	// tidak boleh ada frame pending nyelip setelah pembatalan
	for done := false; !done; {
		select {
		case ev := <-frames:
			assert.NotEqual(t, string(payModel.SessionPending), ev.Status,
				"hasil inisiasi telat tidak boleh menerbitkan frame pending")
		case <-time.After(100 * time.Millisecond):
			done = true
		}
	}
}

func TestReconciler_CancelIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	go h.r.run()
	time.Sleep(20 * time.Millisecond)

	h.r.Cancel()
	h.r.Cancel()

	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionCanceled}, h.store.terminalStatuses())
}

func TestReconciler_InitiationFailure(t *testing.T) {
	h := newHarness(t, func(r *Reconciler) {
		r.initiator = &fakeInitiator{err: &gateway.InitiationError{Message: "gateway menjawab 502", StatusCode: 502}}
	})
	h.runAndWait(t, 2*time.Second)

	statuses := h.store.terminalStatuses()
	require.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionFailed}, statuses)
	require.NotNil(t, h.store.lastErrors[0])
	assert.Contains(t, *h.store.lastErrors[0], "502")
	assert.Equal(t, 1, h.store.unpaidCalls)
}

func TestReconciler_ConflictAlreadyPaidBecomesPaid(t *testing.T) {
	h := newHarness(t, func(r *Reconciler) {
		r.initiator = &fakeInitiator{err: gateway.ErrConflictAlreadyPaid}
	})
	h.runAndWait(t, 2*time.Second)

	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionPaid}, h.store.terminalStatuses())
	assert.Equal(t, 1, h.notifier.successCount())
}

func TestReconciler_TTLExpiry(t *testing.T) {
	h := newHarness(t, func(r *Reconciler) {
		r.ttl = 50 * time.Millisecond
	})
	h.runAndWait(t, 2*time.Second)

	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionExpired}, h.store.terminalStatuses())
	assert.Equal(t, 1, h.store.unpaidCalls)
}

func TestReconciler_WebhookInjection(t *testing.T) {
	h := newHarness(t, nil)
	go h.r.run()
	time.Sleep(20 * time.Millisecond)

	delivered := h.r.Inject(gateway.StatusEvent{TranID: "TRX-9", Status: gateway.StatusPaid})
	assert.True(t, delivered)

	select {
	case <-h.r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler tidak selesai")
	}
	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionPaid}, h.store.terminalStatuses())
}

func TestReconciler_AutoCloseFrameAfterDelay(t *testing.T) {
	h := newHarness(t, nil)

	frames, unsubscribe := h.bc.Subscribe(h.r.SessionID)
	defer unsubscribe()

	h.ch.events <- gateway.StatusEvent{TranID: "TRX-9", Status: gateway.StatusPaid}
	h.runAndWait(t, 2*time.Second)

	var got []SessionEvent
	deadline := time.After(time.Second)
	for len(got) < 3 {
		select {
		case ev := <-frames:
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("frame kurang: %v", got)
		}
	}

	// pending(qr) → paid → closing
	assert.Equal(t, string(payModel.SessionPending), got[0].Status)
	require.NotNil(t, got[0].QRImageURL)
	assert.Equal(t, string(payModel.SessionPaid), got[1].Status)
	assert.False(t, got[1].Closing)
	assert.Equal(t, string(payModel.SessionPaid), got[2].Status)
	assert.True(t, got[2].Closing)
}

func TestReconciler_AutoCloseCanceledOnTeardown(t *testing.T) {
	h := newHarness(t, func(r *Reconciler) {
		r.autoCloseDelay = 200 * time.Millisecond
	})

	frames, unsubscribe := h.bc.Subscribe(h.r.SessionID)
	defer unsubscribe()

	h.ch.events <- gateway.StatusEvent{TranID: "TRX-9", Status: gateway.StatusPaid}
	h.runAndWait(t, 2*time.Second)

	// runtuhkan sebelum jeda auto-close habis
	h.r.Stop()

	timeout := time.After(400 * time.Millisecond)
	for {
		select {
		case ev := <-frames:
			assert.False(t, ev.Closing, "frame closing harus batal saat sesi diruntuhkan")
		case <-timeout:
			return
		}
	}
}

func TestReconciler_CancelPublishesClosingFrame(t *testing.T) {
	h := newHarness(t, nil)

	frames, unsubscribe := h.bc.Subscribe(h.r.SessionID)
	defer unsubscribe()

	go h.r.run()
	time.Sleep(20 * time.Millisecond)

	h.r.Cancel()

	// pembatalan tetap mengakhiri stream klien: frame canceled lalu closing
	var sawClosing bool
	deadline := time.After(time.Second)
	for !sawClosing {
		select {
		case ev := <-frames:
			if ev.Closing {
				assert.Equal(t, string(payModel.SessionCanceled), ev.Status)
				sawClosing = true
			}
		case <-deadline:
			t.Fatal("frame closing tidak pernah terbit setelah Cancel")
		}
	}
}

func TestReconciler_PushFallsBackToPoll(t *testing.T) {
	pollCh := newStubChannel()
	pollCh.events <- gateway.StatusEvent{TranID: "TRX-9", Status: gateway.StatusPaid}

	h := newHarness(t, func(r *Reconciler) {
		r.channelMode = payModel.EventSourceStream
		r.fallbackChannel = func(string) channel.StatusChannel { return pollCh }
	})

	// kanal push mati dengan error transport
	h.ch.err = &channel.ChannelError{Mode: "push", Err: context.DeadlineExceeded}
	close(h.ch.events)

	h.runAndWait(t, 2*time.Second)

	assert.Equal(t, []payModel.PaymentSessionStatus{payModel.SessionPaid}, h.store.terminalStatuses())
}
