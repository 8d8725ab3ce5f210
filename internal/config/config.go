package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	MediaBackendBlob  = "blob"
	MediaBackendMinio = "minio"

	defaultPageCacheSeconds = 900
	defaultAPICacheSeconds  = 1800
)

// ConfigPath is read when Load is called with an empty path.
var ConfigPath = configPathFromEnv()

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port               string     `yaml:"port"`
	LogLevel           string     `yaml:"logLevel"`
	LogsDir            string     `yaml:"logsDir"`
	Debug              bool       `yaml:"debug"`
	AllowedHosts       []string   `yaml:"allowedHosts"`
	DatabaseURL        string     `yaml:"databaseURL"`
	PersonalInfoID     uint       `yaml:"personalInfoID"`
	ContentFile        string     `yaml:"contentFile"`
	RedisAddr          string     `yaml:"redisAddr"`
	RedisPassword      string     `yaml:"redisPassword"`
	CachePrefix        string     `yaml:"cachePrefix"`
	PageCacheSeconds   int        `yaml:"pageCacheSeconds"`
	APICacheSeconds    int        `yaml:"apiCacheSeconds"`
	MediaBackend       string     `yaml:"mediaBackend"`
	MediaBucketURL     string     `yaml:"mediaBucketURL"`
	MediaURL           string     `yaml:"mediaURL"`
	MinioEndpoint      string     `yaml:"minioEndpoint"`
	MinioAccessKey     string     `yaml:"minioAccessKey"`
	MinioSecretKey     string     `yaml:"minioSecretKey"`
	MinioBucket        string     `yaml:"minioBucket"`
	MinioUseSSL        bool       `yaml:"minioUseSSL"`
	TrustedProxyCIDRs  []string   `yaml:"trustedProxyCidrs"`
	RateLimitPerMinute int        `yaml:"rateLimitPerMinute"`
	Site               SiteConfig `yaml:"site"`
}

// SiteConfig holds the page branding shown by the renderer.
type SiteConfig struct {
	Header     string `yaml:"header"`
	Title      string `yaml:"title"`
	IndexTitle string `yaml:"indexTitle"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *FileConfig) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = strings.TrimSpace(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOGS_DIR"); v != "" {
		cfg.LogsDir = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("ALLOWED_HOSTS"); v != "" {
		cfg.AllowedHosts = splitCSV(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("MEDIA_BUCKET_URL"); v != "" {
		cfg.MediaBucketURL = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.MinioUseSSL = b
		}
	}
	if v := os.Getenv("PORTFOLIO_TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitCSV(v)
	}
	if v := os.Getenv("PORTFOLIO_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = n
		}
	}
}

func applyDefaults(cfg *FileConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.PageCacheSeconds == 0 {
		cfg.PageCacheSeconds = defaultPageCacheSeconds
	}
	if cfg.APICacheSeconds == 0 {
		cfg.APICacheSeconds = defaultAPICacheSeconds
	}
	if cfg.MediaBackend == "" {
		cfg.MediaBackend = MediaBackendBlob
	}
	if cfg.MediaBucketURL == "" && cfg.MediaBackend == MediaBackendBlob {
		cfg.MediaBucketURL = "mem://"
	}
	if cfg.MediaURL == "" {
		cfg.MediaURL = "/media/"
	}
	if !strings.HasSuffix(cfg.MediaURL, "/") {
		cfg.MediaURL += "/"
	}
	if cfg.Site.Header == "" {
		cfg.Site.Header = "Portfolio Admin"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Portfolio Admin Portal"
	}
	if cfg.Site.IndexTitle == "" {
		cfg.Site.IndexTitle = "Welcome to Portfolio Admin"
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" && strings.TrimSpace(cfg.ContentFile) == "" {
		return errors.New("config: databaseURL or contentFile is required (set in config.yaml or DATABASE_URL)")
	}
	if !cfg.Debug {
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required when debug=false (set in config.yaml or REDIS_ADDR)")
		}
		if len(cfg.AllowedHosts) == 0 {
			return errors.New("config: allowedHosts is required when debug=false (set in config.yaml or ALLOWED_HOSTS)")
		}
	}
	if cfg.PageCacheSeconds < 0 || cfg.APICacheSeconds < 0 {
		return errors.New("config: cache ttls must be >= 0")
	}
	if cfg.RateLimitPerMinute < 0 {
		return errors.New("config: rateLimitPerMinute must be >= 0")
	}
	switch cfg.MediaBackend {
	case MediaBackendBlob:
	case MediaBackendMinio:
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" || cfg.MinioBucket == "" {
			return errors.New("config: mediaBackend=minio requires minioEndpoint, minioAccessKey, minioSecretKey and minioBucket")
		}
	default:
		return fmt.Errorf("config: unknown mediaBackend %q (want blob or minio)", cfg.MediaBackend)
	}
	for _, cidr := range cfg.TrustedProxyCIDRs {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			return fmt.Errorf("config: invalid trustedProxyCidrs entry %q", cidr)
		}
	}
	return nil
}

func configPathFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("PORTFOLIO_CONFIG")); v != "" {
		return v
	}
	return "config.yaml"
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
