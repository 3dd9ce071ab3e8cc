// Package config предоставляет структуры и функцию для парсинга и загрузки
// конфига портала.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек портала.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	AppName         string `yaml:"app_name" env:"APP_NAME" env-default:"SHM Client"`
	AdminGID        int    `yaml:"admin_gid" env-default:"1"`
	HTTPServer      `yaml:"http_server"`
	Upstream        `yaml:"upstream"`
	RedisConnection `yaml:"redis_connection"`
	Session         `yaml:"session"`
	Telegram        `yaml:"telegram"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Upstream адрес и таймаут биллингового API SHM.
type Upstream struct {
	AddressSHM string        `yaml:"address_shm" env:"SHM_ADDRESS"`
	TimeoutSHM time.Duration `yaml:"timeout_shm" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session параметры сессионной куки и записи сессии в redis. TTL скользящий:
// продлевается на каждом запросе с кукой.
type Session struct {
	CookieName string        `yaml:"cookie_name" env-default:"session-id"`
	TTL        time.Duration `yaml:"ttl" env-default:"72h"`
}

// Telegram настройки интеграции с Telegram, отдаются фронтенду как есть.
type Telegram struct {
	BotName          string `yaml:"bot_name" env:"TELEGRAM_BOT_NAME"`
	BotAuthEnable    bool   `yaml:"bot_auth_enable" env:"TELEGRAM_BOT_AUTH_ENABLE"`
	WebAppAuthEnable bool   `yaml:"webapp_auth_enable" env:"TELEGRAM_WEBAPP_AUTH_ENABLE"`
	Profile          string `yaml:"profile" env-default:"telegram_bot"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH, и завершает
// процесс при любой ошибке.
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
