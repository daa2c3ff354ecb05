package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	if GetEnv("PAYMENT_GATEWAY_BASE_URL") == "" {
		log.Println("⚠️ PAYMENT_GATEWAY_BASE_URL belum diset, sesi QR tidak akan bisa dibuat")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("⚠️ %s bukan angka valid (%q), pakai default %d", key, v, def)
	}
	return def
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("⚠️ %s bukan durasi valid (%q), pakai default %s", key, v, def)
	}
	return def
}

func GetEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

/* =======================
   PAYMENT SETTINGS
   Semua knob timing/transport flow pembayaran QR diambil dari ENV di satu tempat,
   supaya controller/service tidak baca os.Getenv sendiri-sendiri.
======================= */

type PaymentSettings struct {
	GatewayBaseURL string
	GatewayAPIKey  string

	// push = subscribe SSE gateway, poll = cek status tiap interval
	StatusMode string

	PollInterval   time.Duration
	SessionTTL     time.Duration // batas tunggu AwaitingPayment (hard timeout)
	AutoCloseDelay time.Duration // jeda sebelum stream UI ditutup setelah PAID
	QRLifetimeSec  int           // diteruskan ke gateway saat generate QR

	MidtransServerKey string
	MidtransUseProd   bool
}

func PaymentSettingsFromEnv() PaymentSettings {
	mode := GetEnv("PAYMENT_STATUS_MODE", "poll")
	if mode != "push" && mode != "poll" {
		log.Printf("⚠️ PAYMENT_STATUS_MODE tidak dikenal (%q), fallback ke poll", mode)
		mode = "poll"
	}
	return PaymentSettings{
		GatewayBaseURL:    GetEnv("PAYMENT_GATEWAY_BASE_URL"),
		GatewayAPIKey:     GetEnv("PAYMENT_GATEWAY_API_KEY"),
		StatusMode:        mode,
		PollInterval:      GetEnvDuration("PAYMENT_POLL_INTERVAL", 3*time.Second),
		SessionTTL:        GetEnvDuration("PAYMENT_SESSION_TTL", 15*time.Minute),
		AutoCloseDelay:    GetEnvDuration("PAYMENT_AUTO_CLOSE_DELAY", 3*time.Second),
		QRLifetimeSec:     GetEnvInt("PAYMENT_QR_LIFETIME_SEC", 900),
		MidtransServerKey: GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:   GetEnvBool("MIDTRANS_USE_PROD", false),
	}
}
