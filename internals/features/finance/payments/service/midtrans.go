// internals/features/finance/payments/service/midtrans.go
package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Midtrans Client (provider sekunder: checkout Snap)
========================================================= */

var SnapClient snap.Client

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if serverKey == "" {
		return
	}
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

// GenerateSnapCheckout membuat transaksi Snap untuk satu sesi.
// OrderID = id sesi, supaya callback bisa dipetakan balik.
func GenerateSnapCheckout(sessionID uuid.UUID, amountIDR int64, description string) (tranID, redirectURL string, err error) {
	if amountIDR <= 0 {
		return "", "", errors.New("invalid amount_idr")
	}
	orderID := sessionID.String()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amountIDR,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       orderID,
				Price:    amountIDR,
				Qty:      1,
				Name:     firstNonEmpty(description, "Pembayaran Registrasi"),
				Category: "Registrasi",
			},
		},
	}

	resp, respErr := SnapClient.CreateTransaction(req)
	if respErr != nil {
		return "", "", fmt.Errorf("midtrans: %s", respErr.GetMessage())
	}
	return orderID, resp.RedirectURL, nil
}

func firstNonEmpty(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
