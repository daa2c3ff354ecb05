// internals/features/finance/payments/service/reconciler.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"kampusku_backend/internals/features/finance/payments/channel"
	"kampusku_backend/internals/features/finance/payments/gateway"
	payModel "kampusku_backend/internals/features/finance/payments/model"
)

// Initiator = subset gateway.Client yang dipakai fase inisiasi.
type Initiator interface {
	GenerateQR(ctx context.Context, req gateway.GenerateQRRequest) (*gateway.QRSession, error)
}

// ChannelFactory membuka kanal status untuk tran_id tertentu.
type ChannelFactory func(tranID string) channel.StatusChannel

// RegistrationStore = bagian store yang menyentuh registrasi.
type RegistrationStore interface {
	MarkRegistrationUnpaid(registrationID uuid.UUID) error
}

/* =========================================================
   Reconciler = state machine satu sesi pembayaran
   Idle → Initiating → AwaitingPayment → Terminal(status)
   - efek samping terminal dijamin SEKALI lewat terminalOnce
   - event setelah terminal = no-op
========================================================= */

type Reconciler struct {
	SessionID      uuid.UUID
	RegistrationID uuid.UUID
	Provider       payModel.PaymentProvider
	AmountIDR      int64
	Semester       string
	PayerName      string

	store     SessionStore
	regStore  RegistrationStore
	notifier  Notifier
	broadcast *Broadcaster
	initiator Initiator

	newChannel      ChannelFactory
	fallbackChannel ChannelFactory // nil = tanpa fallback
	channelMode     payModel.GatewayEventSource

	// inisiasi non-QR (midtrans snap); nil untuk provider qrgate
	initiateCheckout func(ctx context.Context) (tranID, checkoutURL string, err error)

	ttl            time.Duration
	autoCloseDelay time.Duration

	onTranID func(tranID string) // dipanggil sekali setelah inisiasi sukses

	ctx    context.Context
	cancel context.CancelFunc

	external chan gateway.StatusEvent // injeksi dari webhook

	terminalOnce sync.Once
	closingOnce  sync.Once
	done         chan struct{}

	mu          sync.Mutex
	tranID      string
	finalStatus payModel.PaymentSessionStatus
}

func (r *Reconciler) Done() <-chan struct{} { return r.done }

func (r *Reconciler) TranID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tranID
}

// run dijalankan Manager sebagai satu goroutine pengawas per sesi.
func (r *Reconciler) run() {
	defer close(r.done)

	tranID, ok := r.initiate()
	if !ok {
		return
	}

	r.await(tranID)
}

/* ============================ Initiating ============================ */

func (r *Reconciler) initiate() (string, bool) {
	if r.Provider == payModel.ProviderMidtrans {
		return r.initiateMidtrans()
	}

	qr, err := r.initiator.GenerateQR(r.ctx, gateway.GenerateQRRequest{
		RegistrationID: r.RegistrationID,
		Semester:       r.Semester,
		AmountIDR:      r.AmountIDR,
		PayerName:      r.PayerName,
	})
	// dibatalkan saat inisiasi masih terbang: hasil yang telat DIBUANG.
	// cek + apply satu critical section dengan Cancel(), supaya tidak ada
	// celah "cek lolos, lalu keburu dibatalkan, lalu hasil tetap ditulis".
	r.mu.Lock()
	if r.ctx.Err() != nil {
		r.mu.Unlock()
		return "", false
	}
	if err != nil {
		r.mu.Unlock()
		if errors.Is(err, gateway.ErrConflictAlreadyPaid) {
			// gateway bilang sudah lunas — samakan saja, bukan error
			r.terminal(payModel.SessionPaid, nil)
			return "", false
		}
		msg := err.Error()
		r.terminal(payModel.SessionFailed, &msg)
		return "", false
	}

	if err := r.store.MarkInitiated(r.SessionID, qr.TranID, qr.QRImageURL); err != nil {
		log.Printf("[ERROR] simpan hasil inisiasi sesi %s: %v", r.SessionID, err)
	}
	r.tranID = qr.TranID

	img := qr.QRImageURL
	r.broadcast.Publish(SessionEvent{
		SessionID:  r.SessionID,
		Status:     string(payModel.SessionPending),
		QRImageURL: &img,
	})
	r.mu.Unlock()

	if r.onTranID != nil {
		r.onTranID(qr.TranID)
	}
	return qr.TranID, true
}

func (r *Reconciler) initiateMidtrans() (string, bool) {
	tranID, checkoutURL, err := r.initiateCheckout(r.ctx)

	r.mu.Lock()
	if r.ctx.Err() != nil {
		r.mu.Unlock()
		return "", false
	}
	if err != nil {
		r.mu.Unlock()
		msg := err.Error()
		r.terminal(payModel.SessionFailed, &msg)
		return "", false
	}

	if err := r.store.MarkCheckout(r.SessionID, tranID, checkoutURL); err != nil {
		log.Printf("[ERROR] simpan checkout sesi %s: %v", r.SessionID, err)
	}
	r.tranID = tranID

	r.broadcast.Publish(SessionEvent{
		SessionID: r.SessionID,
		Status:    string(payModel.SessionPending),
	})
	r.mu.Unlock()

	if r.onTranID != nil {
		r.onTranID(tranID)
	}
	return tranID, true
}

/* ========================== AwaitingPayment ========================= */

func (r *Reconciler) await(tranID string) {
	// batal di sela inisiasi selesai dan fase tunggu: jangan buka kanal
	if r.ctx.Err() != nil {
		return
	}

	ttl := time.NewTimer(r.ttl)
	defer ttl.Stop()

	// midtrans: tidak ada kanal gateway, hanya webhook + TTL
	var ch channel.StatusChannel
	if r.newChannel != nil {
		ch = r.newChannel(tranID)
		defer ch.Close()
	}
	usedFallback := false

	events := func() <-chan gateway.StatusEvent {
		if ch == nil {
			return nil
		}
		return ch.Events()
	}

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ttl.C:
			msg := "sesi kedaluwarsa sebelum pembayaran terkonfirmasi"
			r.terminal(payModel.SessionExpired, &msg)
			return

		case ev := <-r.external:
			// webhook sudah direkam controller-nya sendiri
			if r.applyEvent(ev) {
				return
			}

		case ev, ok := <-events():
			if !ok {
				if r.fallbackChannel != nil && !usedFallback {
					// mode push putus → turun ke poll
					log.Printf("[WARN] kanal push sesi %s berhenti, beralih ke poll (err=%v)", r.SessionID, ch.Err())
					usedFallback = true
					r.channelMode = payModel.EventSourcePoll
					ch = r.fallbackChannel(tranID)
					defer ch.Close()
					continue
				}
				msg := "kanal status berakhir tanpa status terminal"
				if ch != nil && ch.Err() != nil {
					msg = ch.Err().Error()
				}
				r.terminal(payModel.SessionFailed, &msg)
				return
			}

			if err := r.store.RecordEvent(&r.SessionID, &ev.TranID, r.channelMode, string(ev.Status), ev.Raw); err != nil {
				log.Printf("[WARN] rekam event gateway sesi %s: %v", r.SessionID, err)
			}
			if r.applyEvent(ev) {
				return
			}
		}
	}
}

// applyEvent memproses satu observasi; true kalau sesi mencapai terminal.
func (r *Reconciler) applyEvent(ev gateway.StatusEvent) bool {
	switch ev.Status {
	case gateway.StatusPaid:
		r.terminal(payModel.SessionPaid, nil)
		return true
	case gateway.StatusFailed:
		msg := "gateway melaporkan pembayaran gagal"
		r.terminal(payModel.SessionFailed, &msg)
		return true
	default:
		return false
	}
}

/* ============================= Terminal ============================= */

// terminal mengeksekusi efek samping terminal TEPAT SEKALI:
// persist sesi (+registrasi kalau paid), notifikasi, broadcast frame final,
// lalu jadwalkan frame auto-close (batal kalau sesi keburu diruntuhkan).
func (r *Reconciler) terminal(status payModel.PaymentSessionStatus, lastErr *string) {
	r.terminalOnce.Do(func() {
		r.mu.Lock()
		r.finalStatus = status
		r.mu.Unlock()

		if err := r.store.MarkTerminal(r.SessionID, status, lastErr); err != nil {
			log.Printf("[ERROR] simpan status terminal sesi %s: %v", r.SessionID, err)
		}

		now := time.Now()
		ev := SessionEvent{
			SessionID: r.SessionID,
			Status:    string(status),
			LastError: lastErr,
		}

		switch status {
		case payModel.SessionPaid:
			ev.PaidAt = &now
			r.notifier.Success(fmt.Sprintf("Pembayaran registrasi %s berhasil", r.RegistrationID))
		case payModel.SessionCanceled:
			if err := r.regStore.MarkRegistrationUnpaid(r.RegistrationID); err != nil {
				log.Printf("[WARN] kembalikan status registrasi %s: %v", r.RegistrationID, err)
			}
		default: // failed / expired
			if err := r.regStore.MarkRegistrationUnpaid(r.RegistrationID); err != nil {
				log.Printf("[WARN] kembalikan status registrasi %s: %v", r.RegistrationID, err)
			}
			msg := "Pembayaran tidak terselesaikan"
			if lastErr != nil {
				msg = *lastErr
			}
			r.notifier.Error(msg)
		}

		r.broadcast.Publish(ev)

		go func() {
			timer := time.NewTimer(r.autoCloseDelay)
			defer timer.Stop()
			select {
			case <-r.ctx.Done():
				return // sesi diruntuhkan duluan, frame auto-close batal
			case <-timer.C:
				r.publishClosing()
			}
		}()
	})
}

// publishClosing mengirim frame closing maksimal SEKALI, dengan status
// terminal yang benar-benar tercatat (bukan status si pemanggil).
func (r *Reconciler) publishClosing() {
	r.closingOnce.Do(func() {
		r.mu.Lock()
		st := r.finalStatus
		r.mu.Unlock()
		r.broadcast.Publish(SessionEvent{
			SessionID: r.SessionID,
			Status:    string(st),
			Closing:   true,
		})
	})
}

/* ========================== Cancel / Stop =========================== */

// Inject menyuapkan event eksternal (webhook) ke sesi yang masih hidup.
func (r *Reconciler) Inject(ev gateway.StatusEvent) bool {
	select {
	case r.external <- ev:
		return true
	case <-r.done:
		return false
	case <-r.ctx.Done():
		return false
	}
}

// Cancel = pembatalan eksplisit (endpoint / TTL manual). Idempoten.
// ctx dibatalkan DULUAN supaya hasil inisiasi yang masih terbang pasti
// kena cek discard dan tidak ada transisi/aktivitas jaringan setelah ini.
// Frame closing dikirim sinkron karena goroutine auto-close ikut mati.
func (r *Reconciler) Cancel() {
	r.mu.Lock()
	r.cancel()
	r.mu.Unlock()
	r.terminal(payModel.SessionCanceled, nil)
	<-r.done
	r.publishClosing()
}

// Stop meruntuhkan goroutine TANPA menulis status (dipakai saat shutdown
// proses; sesi tetap pending dan bisa diselesaikan webhook).
func (r *Reconciler) Stop() {
	r.cancel()
	<-r.done
}
