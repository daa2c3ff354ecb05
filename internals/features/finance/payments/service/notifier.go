// internals/features/finance/payments/service/notifier.go
package service

import "log"

// Notifier = port notifikasi hasil pembayaran. Diinjeksikan ke reconciler
// supaya bisa diganti (mis. push ke WA/email) tanpa menyentuh state machine.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Printf("[INFO] ✅ %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("[ERROR] ❌ %s", msg) }
