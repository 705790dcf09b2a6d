package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ShippingMode selects how the checkout shipping fee is computed.
type ShippingMode string

const (
	// ShippingFlat charges FlatFee whenever the subtotal is above zero.
	ShippingFlat ShippingMode = "flat"
	// ShippingThreshold charges ThresholdFee below FreeAbove, nothing at or over it.
	ShippingThreshold ShippingMode = "threshold"
)

// ShippingPolicy is configuration, not business logic: both observed fee
// schemes are selectable, with flat-500 as the default.
type ShippingPolicy struct {
	Mode         ShippingMode
	FlatFee      float64
	ThresholdFee float64
	FreeAbove    float64
}

// Fee returns the shipping charge for a given cart subtotal.
func (p ShippingPolicy) Fee(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	if p.Mode == ShippingThreshold {
		if subtotal >= p.FreeAbove {
			return 0
		}
		return p.ThresholdFee
	}
	return p.FlatFee
}

type Config struct {
	Port        string
	Environment string

	// Local durable storage (embedded sqlite) and public asset serving.
	DataDir       string
	UploadDir     string
	PublicBaseURL string

	// Admin gate.
	AdminPassHash string // bcrypt hash of the shared admin secret
	JWTSecret     string
	AdminAPIKey   string

	// Remote document store (Firestore).
	FirebaseProjectID   string
	FirebaseCredentials string

	// Asset uploads.
	CloudinaryURL string

	// WhatsApp hand-off.
	WhatsAppPhone string
	QRServiceURL  string

	Currency string
	Shipping ShippingPolicy
}

// Load reads the environment (optionally from a .env file) into a Config.
// The result is built once in main and passed down explicitly.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DataDir:       getEnv("DATA_DIR", "./data"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		AdminAPIKey:   getEnv("ADMIN_API_KEY", ""),

		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),

		WhatsAppPhone: getEnv("WHATSAPP_PHONE", "919876500000"),
		QRServiceURL:  getEnv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/"),

		Currency: getEnv("CURRENCY", "INR"),
		Shipping: ShippingPolicy{
			Mode:         ShippingMode(getEnv("SHIPPING_MODE", string(ShippingFlat))),
			FlatFee:      getEnvFloat("SHIPPING_FLAT_FEE", 500),
			ThresholdFee: getEnvFloat("SHIPPING_THRESHOLD_FEE", 200),
			FreeAbove:    getEnvFloat("SHIPPING_FREE_ABOVE", 5000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
