package config

import (
	"encoding/json"
	"net"
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr string
	BaseURL  string

	SigMode       string
	SigKeysJSON   string
	SigKeyID      string
	SigEd25519Pub string

	AdminAPIKey string

	StorageBackend string
	PostgresDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitPerMin int
	MaxPayloadMB    int

	ShortTTLSeconds int
	LongTTLSeconds  int

	ExchangePolicyPath string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:           envDefault("OMP_HTTP_ADDR", ":8080"),
		BaseURL:            os.Getenv("OMP_BASE_URL"),
		SigMode:            envDefault("OMP_SIG_MODE", "off"),
		SigKeysJSON:        os.Getenv("OMP_SIG_KEYS"),
		SigKeyID:           os.Getenv("OMP_SIG_KEYID"),
		SigEd25519Pub:      os.Getenv("OMP_SIG_ED25519_PUB"),
		AdminAPIKey:        os.Getenv("OMP_ADMIN_API_KEY"),
		StorageBackend:     envDefault("OMP_STORAGE", "memory"),
		PostgresDSN:        os.Getenv("OMP_POSTGRES_DSN"),
		RedisAddr:          os.Getenv("OMP_REDIS_ADDR"),
		RedisPassword:      os.Getenv("OMP_REDIS_PASSWORD"),
		RedisDB:            envIntDefault("OMP_REDIS_DB", 0),
		RateLimitPerMin:    envIntDefault("OMP_RATE_LIMIT", 60),
		MaxPayloadMB:       envIntDefault("OMP_MAX_PAYLOAD_MB", 5),
		ShortTTLSeconds:    envIntDefault("OMP_SHORT_TTL", 300),
		LongTTLSeconds:     envIntDefault("OMP_LONG_TTL", 31536000),
		ExchangePolicyPath: os.Getenv("OMP_EXCHANGE_POLICY"),
	}
}

// SigKeyEntries decodes OMP_SIG_KEYS, a JSON object mapping keyid to an
// encoded ed25519 public key, e.g. {"sig1":"<b64url pk>"}.
func (c Config) SigKeyEntries() (map[string]string, error) {
	if c.SigKeysJSON == "" {
		return nil, nil
	}
	out := make(map[string]string)
	if err := json.Unmarshal([]byte(c.SigKeysJSON), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListenerHostPort splits HTTPAddr into the listener tuple. The host may be
// empty for wildcard binds like ":8080".
func (c Config) ListenerHostPort() (string, int) {
	host, portStr, err := net.SplitHostPort(c.HTTPAddr)
	if err != nil {
		return "", 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

func (c Config) ServerPort() int {
	if _, port := c.ListenerHostPort(); port > 0 {
		return port
	}
	return 8080
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
