package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL  string   `env:"DATABASE_URL,required"`
	LLMAPIKey    string   `env:"LLM_API_KEY,required"`
	LLMBaseURL   string   `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel     string   `env:"LLM_MODEL" envDefault:"llama-3.1-8b-instant"`
	HistoryLimit int      `env:"HISTORY_LIMIT" envDefault:"10"`
	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
