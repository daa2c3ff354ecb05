// internals/features/finance/payments/channel/channel.go
//
// StatusChannel = sumber event status pembayaran untuk satu tran_id.
// Dua implementasi: PollChannel (interval tetap) dan PushChannel (SSE).
// Kontrak:
//   - event diteruskan sesuai urutan observasi
//   - maksimal SATU event terminal per channel, lalu channel menutup diri
//   - Close() idempoten dan menghentikan semua aktivitas jaringan
package channel

import (
	"fmt"

	"kampusku_backend/internals/features/finance/payments/gateway"
)

type StatusChannel interface {
	// Events tertutup saat channel selesai (terminal, error, atau Close).
	Events() <-chan gateway.StatusEvent
	// Err mengembalikan error penyebab berhenti, nil kalau berhenti normal.
	Err() error
	Close()
}

// ChannelError: channel mati di tengah jalan (transport putus, tick gagal beruntun).
type ChannelError struct {
	Mode string // "poll" | "push"
	Err  error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("kanal status %s terputus: %v", e.Mode, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
