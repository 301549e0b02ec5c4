// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек всех сервисов платформы.
type Config struct {
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RabbitMQURL             string        `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries      int           `yaml:"rabbitmq_max_retries" env-default:"10"`
	RabbitMQRetryDelay      time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	LLMClient               `yaml:"llm_client"`
	SMTPConnection          `yaml:"smtp_connection"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey  string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL      time.Duration `yaml:"token_ttl" env-default:"24h"`
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl" env-default:"30m"`
}

// LLMClient структура для настройки клиента языковой модели.
// Системные промпты — конфигурация, а не код: ограничение тем
// помощника задаётся текстом промпта, не логикой сервиса.
type LLMClient struct {
	APIKey           string        `yaml:"api_key" env:"LLM_API_KEY"`
	Model            string        `yaml:"model" env-default:"gpt-4o"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env-default:"30s"`
	HelpSystemPrompt string        `yaml:"help_system_prompt" env-default:"You are MED-X, an AI-powered help bot assisting university students using the MED-X e-learning platform. Answer questions about the platform's features, navigation and services, and give general study advice for medical, pharmacy and allied health students. Respond clearly, concisely and professionally. If asked anything outside these domains, politely state that you can only assist with platform-related or study-related queries."`
	QuizSystemPrompt string        `yaml:"quiz_system_prompt" env-default:"You are an AI assistant specialized in creating educational quizzes. Generate a multiple-choice practice quiz based on the provided e-book content. Produce between 5 and 10 questions. Each question must have exactly 4 options, and one of them must be the correct answer. Cover key concepts and details from the content. Reply with JSON only, in the form {\"quiz\":[{\"question\":\"...\",\"options\":[\"...\",\"...\",\"...\",\"...\"],\"correctAnswer\":\"...\"}]}."`
}

// SMTPConnection структура для настройки SMTP транспорта.
type SMTPConnection struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port" env-default:"587"`
	User     string `yaml:"user"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
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
