// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	RabbitMQ                `yaml:"rabbitmq"`
	Telegram                `yaml:"telegram"`
	YandexGPT               `yaml:"yandexgpt"`
	Entitlement             `yaml:"entitlement"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitMQ структура для настройки подключения к брокеру сообщений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"rabbitmq_url"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay"`
}

// Telegram структура для настройки бота и вебхука
type Telegram struct {
	Token                string `yaml:"token" env:"TELEGRAM_TOKEN"`
	WebhookURL           string `yaml:"webhook_url"`
	WebhookSecret        string `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET"`
	WebAppURL            string `yaml:"webapp_url"`
	ProviderToken        string `yaml:"provider_token" env:"TELEGRAM_PROVIDER_TOKEN"`
	SubscriptionPriceRUB int    `yaml:"subscription_price_rub" env-default:"499"`
}

// YandexGPT структура для настройки клиента генерации раскладов
type YandexGPT struct {
	APIKey   string `yaml:"api_key" env:"YANDEXGPT_API_KEY"`
	FolderID string `yaml:"folder_id" env:"YANDEXGPT_FOLDER_ID"`
}

// Entitlement структура с правилами доступа к раскладам
type Entitlement struct {
	FreeReadings     int `yaml:"free_readings" env-default:"3"`
	SubscriptionDays int `yaml:"subscription_days" env-default:"30"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
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

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  MaxRetries: %d\n"+
			"  RetryDelay: %s\n"+
			"Telegram:\n"+
			"  WebhookURL: %s\n"+
			"  WebAppURL: %s\n"+
			"  SubscriptionPriceRUB: %d\n"+
			"YandexGPT:\n"+
			"  FolderID: %s\n"+
			"Entitlement:\n"+
			"  FreeReadings: %d\n"+
			"  SubscriptionDays: %d\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RabbitMQURL,
		c.RabbitMQMaxRetries,
		c.RabbitMQRetryDelay,
		c.WebhookURL,
		c.WebAppURL,
		c.SubscriptionPriceRUB,
		c.FolderID,
		c.FreeReadings,
		c.SubscriptionDays,
	)
}
