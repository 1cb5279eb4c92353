package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment 开启调试信息回显（500 响应中附带 details）。
	EnvDevelopment = "development"
	// EnvProduction 为默认运行模式。
	EnvProduction = "production"

	DefaultFromEmail = "onboarding@resend.dev"
	DefaultToEmail   = "founder.auctusventures@gmail.com"
	DefaultResendURL = "https://api.resend.com/"
	// DefaultSessionSecret is only suitable for local development.
	DefaultSessionSecret = "auctus-dev-secret"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	DatabaseURL    string
	ResendAPIKey   string
	ResendFrom     string
	ResendTo       string
	ResendBaseURL  string
	Environment    string
	SessionSecret  string
	// SecureCookies 仅在 TLS 终止于本服务之前（或本服务直接提供 HTTPS）时开启。
	SecureCookies  bool
	GinMode        string
	NotifyTimezone string
	LogLevel       string
}

// Development reports whether internal error detail may be echoed to clients.
func (c AppConfig) Development() bool {
	return c.Environment == EnvDevelopment
}

// PersistenceEnabled reports whether a store connection string was provided.
func (c AppConfig) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	from := strings.TrimSpace(os.Getenv("RESEND_FROM_EMAIL"))
	if from == "" {
		from = DefaultFromEmail
	}

	to := strings.TrimSpace(os.Getenv("RESEND_TO_EMAIL"))
	if to == "" {
		to = DefaultToEmail
	}

	baseURL := strings.TrimSpace(os.Getenv("RESEND_BASE_URL"))
	if baseURL == "" {
		baseURL = DefaultResendURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	environment := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if environment == "" {
		environment = strings.ToLower(strings.TrimSpace(os.Getenv("NODE_ENV")))
	}
	if environment == "" {
		environment = EnvProduction
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = DefaultSessionSecret
	}

	// 无法解析时按 false 处理
	secureCookies, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("SESSION_COOKIE_SECURE")))

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	timezone := strings.TrimSpace(os.Getenv("NOTIFY_TIMEZONE"))
	if timezone == "" {
		timezone = "America/New_York"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ResendAPIKey:   strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		ResendFrom:     from,
		ResendTo:       to,
		ResendBaseURL:  baseURL,
		Environment:    environment,
		SessionSecret:  sessionSecret,
		SecureCookies:  secureCookies,
		GinMode:        ginMode,
		NotifyTimezone: timezone,
		LogLevel:       logLevel,
	}
}

// LoadDotEnv 按 .env.local、.env 的顺序加载第一个存在的文件，文件都不存在时不报错。
// 已存在的环境变量不会被覆盖。
func LoadDotEnv(dir string) (string, error) {
	for _, name := range []string{".env.local", ".env"} {
		path := name
		if dir != "" {
			path = strings.TrimRight(dir, "/") + "/" + name
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}
