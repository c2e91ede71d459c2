package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string    `json:"serverAddress"`
	DatabasePath  string    `json:"databasePath"`
	DatabaseURL   string    `json:"databaseUrl"`
	MongoDatabase string    `json:"mongoDatabase"`
	Auth          Auth      `json:"auth"`
	Assets        Assets    `json:"assets"`
	RateLimit     RateLimit `json:"rateLimit"`
	CORS          CORS      `json:"cors"`
}

// Auth configures bearer token issuance
type Auth struct {
	JWTSecret   string `json:"jwtSecret"`
	JWTIssuer   string `json:"jwtIssuer"`
	TokenTTLHrs int    `json:"tokenTtlHours"`
}

// TokenTTL returns the lifetime of issued tokens
func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHrs) * time.Hour
}

// Assets configures where uploaded avatars are stored. When S3Bucket is set
// the S3-compatible host is used, otherwise files go under LocalPath.
type Assets struct {
	LocalPath         string   `json:"localPath"`
	PublicBaseURL     string   `json:"publicBaseUrl"`
	S3Bucket          string   `json:"s3Bucket"`
	S3Region          string   `json:"s3Region"`
	S3Endpoint        string   `json:"s3Endpoint"`
	S3AccessKey       string   `json:"s3AccessKey"`
	S3SecretKey       string   `json:"s3SecretKey"`
	AvatarMaxSizeMB   int64    `json:"avatarMaxSizeMB"`
	AvatarSize        int      `json:"avatarSize"`
	AvatarMaxPixels   int64    `json:"avatarMaxPixels"`
	AllowedExtensions []string `json:"allowedExtensions"`
}

// UseS3 returns true if avatars go to an S3-compatible bucket
func (a Assets) UseS3() bool {
	return a.S3Bucket != ""
}

// RateLimit configures the per-IP limiter on authentication endpoints
type RateLimit struct {
	LoginPerMinute int `json:"loginPerMinute"`
	Burst          int `json:"burst"`
}

// CORS configuration for the single-page frontend
type CORS struct {
	AllowedOrigins []string `json:"allowedOrigins"`
}

// DatabaseBackend names the persistence backend selected by the configuration
type DatabaseBackend string

const (
	BackendSQLite   DatabaseBackend = "sqlite"
	BackendPostgres DatabaseBackend = "postgres"
	BackendMongo    DatabaseBackend = "mongodb"
)

// Backend picks the store from DatabaseURL: mongodb:// selects MongoDB, any
// other URL PostgreSQL, and no URL the SQLite file at DatabasePath.
func (c *Config) Backend() DatabaseBackend {
	switch {
	case c.DatabaseURL == "":
		return BackendSQLite
	case strings.HasPrefix(c.DatabaseURL, "mongodb://"), strings.HasPrefix(c.DatabaseURL, "mongodb+srv://"):
		return BackendMongo
	default:
		return BackendPostgres
	}
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.Backend() == BackendPostgres
}

// DefaultJWTSecret is the placeholder signing key shipped in the defaults
const DefaultJWTSecret = "CHANGE_THIS_TO_A_SECURE_SECRET_AT_LEAST_32_CHARS"

// UsesDefaultSecret reports whether tokens are still signed with the placeholder key
func (a Auth) UsesDefaultSecret() bool {
	return a.JWTSecret == DefaultJWTSecret
}

// Warnings lists settings that work but should not reach production
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Auth.UsesDefaultSecret() {
		warnings = append(warnings, "JWT secret is the built-in placeholder; set JWT_SECRET or auth.jwtSecret")
	} else if len(c.Auth.JWTSecret) < 32 {
		warnings = append(warnings, "JWT secret is shorter than 32 characters")
	}
	return warnings
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":3000",
		DatabasePath:  "gather.db",
		MongoDatabase: "gather",
		Auth: Auth{
			JWTSecret:   DefaultJWTSecret,
			JWTIssuer:   "gather-api",
			TokenTTLHrs: 24,
		},
		Assets: Assets{
			LocalPath:       "./uploads",
			PublicBaseURL:   "/uploads",
			S3Region:        "us-east-1",
			AvatarMaxSizeMB: 5,
			AvatarSize:      256,
			AvatarMaxPixels: 40_000_000,
			AllowedExtensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif",
			},
		},
		RateLimit: RateLimit{
			LoginPerMinute: 10,
			Burst:          5,
		},
		CORS: CORS{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if !cfg.Assets.UseS3() {
		if err := os.MkdirAll(cfg.Assets.LocalPath, 0755); err != nil {
			return nil, err
		}
		absPath, err := filepath.Abs(cfg.Assets.LocalPath)
		if err != nil {
			return nil, err
		}
		cfg.Assets.LocalPath = absPath
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerAddress = ":" + port
	}
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if name := os.Getenv("MONGO_DATABASE"); name != "" {
		cfg.MongoDatabase = name
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			cfg.Auth.TokenTTLHrs = hours
		}
	}

	if path := os.Getenv("ASSET_STORAGE_PATH"); path != "" {
		cfg.Assets.LocalPath = path
	}
	if base := os.Getenv("ASSET_BASE_URL"); base != "" {
		cfg.Assets.PublicBaseURL = base
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.Assets.S3Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.Assets.S3Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.Assets.S3Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY_ID"); key != "" {
		cfg.Assets.S3AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_ACCESS_KEY"); secret != "" {
		cfg.Assets.S3SecretKey = secret
	}
	if base := os.Getenv("S3_PUBLIC_BASE_URL"); base != "" {
		cfg.Assets.PublicBaseURL = base
	}
	if size := os.Getenv("AVATAR_MAX_SIZE_MB"); size != "" {
		if mb, err := strconv.ParseInt(size, 10, 64); err == nil && mb > 0 {
			cfg.Assets.AvatarMaxSizeMB = mb
		}
	}

	if rate := os.Getenv("LOGIN_RATE_PER_MINUTE"); rate != "" {
		if n, err := strconv.Atoi(rate); err == nil && n > 0 {
			cfg.RateLimit.LoginPerMinute = n
		}
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = strings.Split(origins, ",")
	}
}
