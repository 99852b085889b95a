package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/proconnect/internal/logger"
	"gopkg.in/yaml.v3"
)

// loadEnv reads .env only outside production (in containers/prod the config
// comes from the environment alone).
func loadEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		path := dir + "/.env"
		f, err := os.Open(path)
		if err == nil {
			loadEnvFrom(f)
			f.Close()
			return
		}
		parent := strings.TrimSuffix(dir, "/")
		if idx := strings.LastIndex(parent, "/"); idx <= 0 {
			return
		} else {
			dir = parent[:idx]
			if dir == "" {
				dir = "/"
			}
		}
	}
}

func loadEnvFrom(f *os.File) {
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		if len(val) >= 2 && (val[0] == '"' && val[len(val)-1] == '"' || val[0] == '\'' && val[len(val)-1] == '\'') {
			val = val[1 : len(val)-1]
		}
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

// CacheConfig controls caching of anonymous-safe backend responses
// (job search results, public profiles).
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// RedisConfig selects the store used for the response cache and login
// rate limits.
// Empty URL switches the service to the in-memory store.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// Config holds the web client settings.
// Priority: environment variables > YAML file > defaults.
type Config struct {
	// Server
	ServerAddr   string        `yaml:"server_addr"`
	ReadTimeout  time.Duration `yaml:"-"`
	WriteTimeout time.Duration `yaml:"-"`
	IdleTimeout  time.Duration `yaml:"-"`

	// BackendURL is the base URL of the REST backend that owns all
	// business logic (auth, profiles, jobs, notifications, chat history).
	BackendURL     string        `yaml:"backend_url"`
	BackendTimeout time.Duration `yaml:"-"`

	// RelayWSURL is the base URL of the chat relay; a room connection is
	// opened at {RelayWSURL}/ws/{room}.
	RelayWSURL string `yaml:"relay_ws_url"`

	// WebSocket bridge settings
	WSWriteTimeout   int `yaml:"ws_write_timeout"`
	WSMaxFrameSize   int `yaml:"ws_max_frame_size"`
	WSSendBufferSize int `yaml:"ws_send_buffer_size"`

	// Cookies
	CookieSecure bool `yaml:"cookie_secure"`

	// CORS for the JSON endpoints used by in-page fetches.
	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`

	// Logging
	LogLevel string `yaml:"log_level"`

	Cache CacheConfig `yaml:"cache"`
	Redis RedisConfig `yaml:"-"`
}

// yamlConfig is the intermediate structure for parsing config/web.yaml.
type yamlConfig struct {
	ServerAddr         string      `yaml:"server_addr"`
	ReadTimeout        int         `yaml:"read_timeout"`
	WriteTimeout       int         `yaml:"write_timeout"`
	IdleTimeout        int         `yaml:"idle_timeout"`
	BackendURL         string      `yaml:"backend_url"`
	BackendTimeout     int         `yaml:"backend_timeout"`
	RelayWSURL         string      `yaml:"relay_ws_url"`
	WSWriteTimeout     int         `yaml:"ws_write_timeout"`
	WSMaxFrameSize     int         `yaml:"ws_max_frame_size"`
	WSSendBufferSize   int         `yaml:"ws_send_buffer_size"`
	CookieSecure       bool        `yaml:"cookie_secure"`
	CORSAllowedOrigins string      `yaml:"cors_allowed_origins"`
	LogLevel           string      `yaml:"log_level"`
	Cache              CacheConfig `yaml:"cache"`
}

// Load loads the configuration.
// .env variables are applied first (if present), then YAML, then env
// (env wins).
func Load() *Config {
	loadEnv()
	yc := yamlConfig{
		ServerAddr:         ":8090",
		ReadTimeout:        15,
		WriteTimeout:       15,
		IdleTimeout:        60,
		BackendURL:         "http://localhost:8080",
		BackendTimeout:     10,
		RelayWSURL:         "ws://localhost:8081",
		WSWriteTimeout:     10,
		WSMaxFrameSize:     4096,
		WSSendBufferSize:   64,
		CORSAllowedOrigins: "*",
		LogLevel:           "info",
		Cache:              CacheConfig{TTLMinutes: 10},
	}

	// Application config: CONFIG_PATH → config/web.yaml
	paths := []string{os.Getenv("CONFIG_PATH"), "config/web.yaml"}
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &yc); err != nil {
			logger.Errorf("config: parse %s: %v (using defaults)", path, err)
		} else {
			logger.Infof("config: loaded %s", path)
		}
		break
	}

	cacheTTL := envInt("CACHE_TTL_MINUTES", yc.Cache.TTLMinutes)
	if cacheTTL <= 0 {
		cacheTTL = 10
	}

	cfg := &Config{
		ServerAddr:         envStr("SERVER_ADDR", yc.ServerAddr),
		ReadTimeout:        time.Duration(envInt("READ_TIMEOUT", yc.ReadTimeout)) * time.Second,
		WriteTimeout:       time.Duration(envInt("WRITE_TIMEOUT", yc.WriteTimeout)) * time.Second,
		IdleTimeout:        time.Duration(envInt("IDLE_TIMEOUT", yc.IdleTimeout)) * time.Second,
		BackendURL:         strings.TrimSuffix(envStr("BACKEND_URL", yc.BackendURL), "/"),
		BackendTimeout:     time.Duration(envInt("BACKEND_TIMEOUT", yc.BackendTimeout)) * time.Second,
		RelayWSURL:         strings.TrimSuffix(envStr("RELAY_WS_URL", yc.RelayWSURL), "/"),
		WSWriteTimeout:     envInt("WS_WRITE_TIMEOUT", yc.WSWriteTimeout),
		WSMaxFrameSize:     envInt("WS_MAX_FRAME_SIZE", yc.WSMaxFrameSize),
		WSSendBufferSize:   envInt("WS_SEND_BUFFER_SIZE", yc.WSSendBufferSize),
		CookieSecure:       envBool("COOKIE_SECURE", yc.CookieSecure),
		CORSAllowedOrigins: envStr("CORS_ALLOWED_ORIGINS", yc.CORSAllowedOrigins),
		LogLevel:           envStr("LOG_LEVEL", yc.LogLevel),
		Cache:              CacheConfig{TTLMinutes: cacheTTL},
		Redis:              RedisConfig{URL: envStr("REDIS_URL", "")},
	}

	if os.Getenv("APP_ENV") == "production" {
		if strings.Contains(cfg.BackendURL, "localhost") {
			logger.Errorf("config: set BACKEND_URL in production (dev default is in use)")
			os.Exit(1)
		}
		if !cfg.CookieSecure {
			logger.Errorf("config: COOKIE_SECURE=false in production; session cookies will be sent over plain HTTP")
		}
	}

	return cfg
}

// envStr returns the value of the environment variable or fallback.
func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns the numeric value of the environment variable or fallback.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
