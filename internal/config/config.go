// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	FrontendURL             string `yaml:"frontend_url" env-default:"https://qiyoga.xyz"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitConnection        `yaml:"rabbit_connection"`
	HTTPServer              `yaml:"http_server"`
	Paddle                  `yaml:"paddle"`
	AdminToken              `yaml:"admin_token"`
	SMTP                    `yaml:"smtp"`
	LLM                     `yaml:"llm"`
	Lease                   `yaml:"lease"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":3001"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitConnection структура для настройки подключения к RabbitMQ.
type RabbitConnection struct {
	AddressRabbit string        `yaml:"addressrabbit"`
	RetriesRabbit int           `yaml:"retries" env-default:"5"`
	DelayRabbit   time.Duration `yaml:"delay" env-default:"3s"`
}

// Paddle структура с настройками платёжного провайдера.
//
// WebhookSecret может быть пустым: в этом случае подпись webhook не
// проверяется, о чём приложение громко предупреждает при старте.
// SignatureScheme выбирает профиль подписи: "hmac" (ts=,hmac=, разделитель ".")
// или "h1" (ts=,h1=, разделитель ":").
type Paddle struct {
	APIKey          string `yaml:"api_key" env:"PADDLE_API_KEY"`
	APIURL          string `yaml:"api_url" env-default:"https://api.paddle.com"`
	PriceID         string `yaml:"price_id" env:"PADDLE_PRICE_ID"`
	WebhookSecret   string `yaml:"webhook_secret" env:"PADDLE_WEBHOOK_SECRET"`
	SignatureScheme string `yaml:"signature_scheme" env-default:"hmac"`
}

// AdminToken структура для проверки служебного bearer-токена.
type AdminToken struct {
	AdminSecretKey string        `yaml:"admin_secret_key" env:"ADMIN_JWT_SECRET"`
	TokenTTL       time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// SMTP структура для настройки отправки почты.
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
}

// LLM структура с настройками клиента пояснения условий договора.
type LLM struct {
	LLMAPIKey  string        `yaml:"api_key" env:"LLM_API_KEY"`
	LLMAPIURL  string        `yaml:"api_url" env-default:"https://api.openai.com/v1/chat/completions"`
	LLMModel   string        `yaml:"model" env-default:"gpt-4o-mini"`
	LLMTimeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// Lease структура с ограничениями загрузки документов.
type Lease struct {
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env-default:"5242880"`
	AnalysisTTL    time.Duration `yaml:"analysis_ttl" env-default:"24h"`
	FreeClauses    int           `yaml:"free_clauses" env-default:"5"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
