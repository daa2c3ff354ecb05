package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(srv.URL, "test-key", 900)
	c.HTTP = srv.Client()
	return c
}

func TestGenerateQR_HappyPath(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment/generate-qr", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"tran_id":"TRX-001","qr_image_url":"https://cdn.example/qr/TRX-001.png","expires_in":900}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	qr, err := c.GenerateQR(context.Background(), GenerateQRRequest{
		RegistrationID: uuid.New(),
		AmountIDR:      1500000,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRX-001", qr.TranID)
	assert.Equal(t, "https://cdn.example/qr/TRX-001.png", qr.QRImageURL)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "hanya satu POST, tanpa retry")
}

func TestGenerateQR_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.GenerateQR(context.Background(), GenerateQRRequest{
		RegistrationID: uuid.New(),
		AmountIDR:      1500000,
	})
	assert.ErrorIs(t, err, ErrConflictAlreadyPaid)
}

func TestGenerateQR_MissingImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tran_id":"TRX-002"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.GenerateQR(context.Background(), GenerateQRRequest{
		RegistrationID: uuid.New(),
		AmountIDR:      1500000,
	})

	var initErr *InitiationError
	require.True(t, errors.As(err, &initErr), "2xx tanpa qr_image_url harus jadi InitiationError")
}

func TestGenerateQR_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.GenerateQR(context.Background(), GenerateQRRequest{
		RegistrationID: uuid.New(),
		AmountIDR:      1500000,
	})

	var initErr *InitiationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, http.StatusBadGateway, initErr.StatusCode)
}

func TestGenerateQR_PreconditionsSkipNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := newTestClient(srv)

	tests := []struct {
		name string
		req  GenerateQRRequest
	}{
		{"registration id kosong", GenerateQRRequest{AmountIDR: 1000}},
		{"nominal nol", GenerateQRRequest{RegistrationID: uuid.New()}},
		{"nominal negatif", GenerateQRRequest{RegistrationID: uuid.New(), AmountIDR: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GenerateQR(context.Background(), tt.req)
			var initErr *InitiationError
			require.True(t, errors.As(err, &initErr))
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "prasyarat gagal tidak boleh menyentuh jaringan")
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment/check-status/TRX-003", r.URL.Path)
		fmt.Fprint(w, `{"status":{"message":"PAID"}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	ev, err := c.CheckStatus(context.Background(), "TRX-003")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, ev.Status)
	assert.Equal(t, "TRX-003", ev.TranID)
}

func TestCheckStatus_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":{"message":"WHATEVER"}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.CheckStatus(context.Background(), "TRX-004")
	assert.Error(t, err)
}

func TestStreamStatus_TerminalClosesStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment/stream/TRX-005", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"status\":\"PENDING\"}\n\n")
		flusher.Flush()
		// bentuk nested juga diterima
		fmt.Fprint(w, "data: {\"status\":{\"message\":\"PAID\"}}\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	c := newTestClient(srv)
	events, errs := c.StreamStatus(context.Background(), "TRX-005")

	var got []PaymentStatus
	for ev := range events {
		got = append(got, ev.Status)
	}
	assert.Equal(t, []PaymentStatus{StatusPending, StatusPaid}, got)
	assert.NoError(t, <-errs)
}

func TestStreamStatus_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"status\":{\"message\":\"PENDING\"}}\n\n")
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(srv)
	events, _ := c.StreamStatus(ctx, "TRX-006")

	ev := <-events
	assert.Equal(t, StatusPending, ev.Status)

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open, "channel event harus tertutup setelah cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel event tidak tertutup setelah cancel")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentStatus
		wantErr bool
	}{
		{"PENDING", StatusPending, false},
		{"paid", StatusPaid, false},
		{"settlement", StatusPaid, false},
		{"  FAILED ", StatusFailed, false},
		{"expire", StatusFailed, false},
		{"deny", StatusFailed, false},
		{"mystery", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
