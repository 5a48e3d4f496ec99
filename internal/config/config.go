package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	LineChannelSecret      string `env:"LINE_CHANNEL_SECRET,required"`
	LineChannelAccessToken string `env:"LINE_CHANNEL_ACCESS_TOKEN,required"`
	LineAPIBaseURL         string `env:"LINE_API_BASE_URL" envDefault:"https://api.line.me"`
	LineDataAPIBaseURL     string `env:"LINE_DATA_API_BASE_URL" envDefault:"https://api-data.line.me"`

	GyazoAccessToken string `env:"GYAZO_ACCESS_TOKEN,required"`
	GyazoUploadURL   string `env:"GYAZO_UPLOAD_URL" envDefault:"https://upload.gyazo.com/api/upload"`

	LLMAPIKey  string `env:"LLM_API_KEY,required"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"0"`

	AnalysisRateMax           int `env:"ANALYSIS_RATE_MAX" envDefault:"5"`
	AnalysisRateWindowMinutes int `env:"ANALYSIS_RATE_WINDOW_MINUTES" envDefault:"10"`

	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`

	SMTPHost        string `env:"SMTP_HOST"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser        string `env:"SMTP_USER"`
	SMTPPass        string `env:"SMTP_PASS"`
	SMTPFrom        string `env:"SMTP_FROM"`
	SMTPFromName    string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS      bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	PharmacistEmail string `env:"PHARMACIST_EMAIL"`
}

// SessionTTL devuelve 0 cuando las sesiones no expiran.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// AnalysisRateWindow es la ventana del límite de imágenes por usuario.
func (c *Config) AnalysisRateWindow() time.Duration {
	return time.Duration(c.AnalysisRateWindowMinutes) * time.Minute
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
