// internals/features/finance/payments/gateway/client.go
package gateway

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

/* =========================================================
   Status dari gateway
========================================================= */

type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusPaid    PaymentStatus = "PAID"
	StatusFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusFailed
}

// StatusEvent = satu observasi status untuk sebuah tran_id.
type StatusEvent struct {
	TranID     string
	Status     PaymentStatus
	Raw        []byte
	ObservedAt time.Time
}

/* =========================================================
   Error taxonomy
========================================================= */

// ErrConflictAlreadyPaid: gateway menjawab 409 — tagihan sudah lunas.
var ErrConflictAlreadyPaid = errors.New("tagihan sudah dibayar")

// InitiationError: inisiasi QR gagal (transport, 5xx, atau body tak lengkap).
type InitiationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *InitiationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inisiasi gagal: %s: %v", e.Message, e.Err)
	}
	return "inisiasi gagal: " + e.Message
}

func (e *InitiationError) Unwrap() error { return e.Err }

/* =========================================================
   Client
========================================================= */

type Client struct {
	BaseURL    string
	APIKey     string
	HTTP       *http.Client
	QRLifetime int // detik, dikirim ke gateway saat generate
}

func NewClient(baseURL, apiKey string, qrLifetimeSec int) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		QRLifetime: qrLifetimeSec,
	}
}

type GenerateQRRequest struct {
	RegistrationID uuid.UUID
	Semester       string
	AmountIDR      int64
	PayerName      string
}

// QRSession = hasil inisiasi yang sukses.
type QRSession struct {
	TranID     string
	QRImageURL string
	ExpiresIn  int
}

type generateQRBody struct {
	RegistrationID string `json:"registration_id"`
	Semester       string `json:"semester,omitempty"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PayerName      string `json:"payer_name,omitempty"`
	Lifetime       int    `json:"lifetime,omitempty"`
}

type generateQRResponse struct {
	TranID    string `json:"tran_id"`
	QRImage   string `json:"qr_image"`
	QRImgURL  string `json:"qr_image_url"`
	ExpiresIn int    `json:"expires_in"`
}

// GenerateQR melakukan SATU kali POST /payment/generate-qr, tanpa retry.
// Prasyarat dicek sebelum menyentuh jaringan.
func (c *Client) GenerateQR(ctx context.Context, req GenerateQRRequest) (*QRSession, error) {
	if req.RegistrationID == uuid.Nil {
		return nil, &InitiationError{Message: "registration id kosong"}
	}
	if req.AmountIDR <= 0 {
		return nil, &InitiationError{Message: "nominal harus lebih dari nol"}
	}

	body, err := sonic.Marshal(generateQRBody{
		RegistrationID: req.RegistrationID.String(),
		Semester:       req.Semester,
		Amount:         req.AmountIDR,
		Currency:       "IDR",
		PayerName:      req.PayerName,
		Lifetime:       c.QRLifetime,
	})
	if err != nil {
		return nil, &InitiationError{Message: "gagal encode payload", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/payment/generate-qr", bytes.NewReader(body))
	if err != nil {
		return nil, &InitiationError{Message: "gagal membentuk request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, &InitiationError{Message: "gateway tidak bisa dihubungi", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, ErrConflictAlreadyPaid
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &InitiationError{StatusCode: resp.StatusCode, Message: "gagal membaca respons", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &InitiationError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("gateway menjawab %d", resp.StatusCode)}
	}

	var out generateQRResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, &InitiationError{StatusCode: resp.StatusCode, Message: "respons bukan JSON valid", Err: err}
	}

	image := out.QRImgURL
	if image == "" {
		image = out.QRImage
	}
	// 2xx tapi tanpa gambar QR tetap dianggap gagal inisiasi
	if out.TranID == "" || image == "" {
		return nil, &InitiationError{StatusCode: resp.StatusCode, Message: "respons gateway tidak lengkap (tran_id / qr_image_url kosong)"}
	}

	return &QRSession{TranID: out.TranID, QRImageURL: image, ExpiresIn: out.ExpiresIn}, nil
}

type checkStatusResponse struct {
	Status struct {
		Message string `json:"message"`
	} `json:"status"`
}

// CheckStatus = satu tick mode poll: GET /payment/check-status/{tran_id}.
func (c *Client) CheckStatus(ctx context.Context, tranID string) (StatusEvent, error) {
	if strings.TrimSpace(tranID) == "" {
		return StatusEvent{}, errors.New("tran_id kosong")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/payment/check-status/"+tranID, nil)
	if err != nil {
		return StatusEvent{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return StatusEvent{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return StatusEvent{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusEvent{}, fmt.Errorf("cek status: gateway menjawab %d", resp.StatusCode)
	}

	var out checkStatusResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return StatusEvent{}, fmt.Errorf("cek status: respons bukan JSON valid: %w", err)
	}

	st, err := ParseStatus(out.Status.Message)
	if err != nil {
		return StatusEvent{}, err
	}
	return StatusEvent{TranID: tranID, Status: st, Raw: raw, ObservedAt: time.Now()}, nil
}

// StreamStatus membuka SSE GET /payment/stream/{tran_id} dan mengirim setiap
// frame `data:` sebagai StatusEvent. Channel event ditutup saat ctx batal,
// stream EOF, atau error transport (error terakhir dikirim ke errs).
func (c *Client) StreamStatus(ctx context.Context, tranID string) (<-chan StatusEvent, <-chan error) {
	events := make(chan StatusEvent)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/payment/stream/"+tranID, nil)
		if err != nil {
			errs <- err
			return
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		httpReq.Header.Set("Accept", "text/event-stream")

		// client stream tidak boleh kena timeout request biasa
		streamClient := &http.Client{Transport: c.HTTP.Transport}
		resp, err := streamClient.Do(httpReq)
		if err != nil {
			if ctx.Err() == nil {
				errs <- err
			}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			errs <- fmt.Errorf("stream status: gateway menjawab %d", resp.StatusCode)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" {
				continue
			}

			// frame stream: {"status":"PAID"}; beberapa gateway mengirim
			// bentuk nested {"status":{"message":"PAID"}} — terima keduanya
			var frame struct {
				Status any `json:"status"`
			}
			if err := sonic.Unmarshal([]byte(payload), &frame); err != nil {
				continue // frame rusak dilewati, bukan fatal
			}
			var raw string
			switch v := frame.Status.(type) {
			case string:
				raw = v
			case map[string]any:
				raw, _ = v["message"].(string)
			}
			st, err := ParseStatus(raw)
			if err != nil {
				continue
			}

			ev := StatusEvent{TranID: tranID, Status: st, Raw: []byte(payload), ObservedAt: time.Now()}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if st.IsTerminal() {
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errs <- err
		}
	}()

	return events, errs
}

// ParseStatus memetakan string status gateway (case-insensitive).
func ParseStatus(s string) (PaymentStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return StatusPending, nil
	case "PAID", "SETTLEMENT", "CAPTURE":
		return StatusPaid, nil
	case "FAILED", "EXPIRE", "CANCEL", "DENY":
		return StatusFailed, nil
	}
	return "", fmt.Errorf("status gateway tidak dikenal: %q", s)
}
