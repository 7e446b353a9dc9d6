package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config guarda todas as configurações do processo.
// Carregada uma única vez no boot e nunca alterada depois.
type Config struct {
	// AmoCRM
	Subdomain         string // ex: "minhaempresa"
	BaseDomain        string // ex: "amocrm.ru" ou "kommo.com"
	Token             string // token de longa duração
	PipelineID        int
	StatusID          int
	ResponsibleUserID int
	PhoneFieldID      int
	Tag               string
	Source            string

	// Infra (usado apenas pelo webhookd)
	DatabaseURL  string
	RabbitUser   string
	RabbitPass   string
	RabbitHost   string
	RabbitPort   string
	WebhookPort  string
	MailHost     string
	MailPort     int
	MailUser     string
	MailPass     string
	AlertEmail   string
	MetadataFile string
	LogFile      string
}

// Load lê o .env (se existir) e monta a Config a partir das
// variáveis de ambiente. Retorna erro na primeira variável
// obrigatória ausente ou com ID inválido.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Subdomain:  os.Getenv("AMO_SUBDOMAIN"),
		BaseDomain: getEnvOr("AMO_BASE_DOMAIN", "amocrm.ru"),
		Token:      os.Getenv("AMO_TOKEN"),
		Tag:        getEnvOr("AMO_TAG", "LeadRecord"),
		Source:     getEnvOr("AMO_SOURCE", "LeadRecord"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RabbitUser:   getEnvOr("RABBITMQ_USER", "guest"),
		RabbitPass:   getEnvOr("RABBITMQ_PASS", "guest"),
		RabbitHost:   getEnvOr("RABBITMQ_HOST", "localhost"),
		RabbitPort:   getEnvOr("RABBITMQ_PORT", "5672"),
		WebhookPort:  getEnvOr("WEBHOOK_PORT", "5000"),
		MailHost:     os.Getenv("MAIL_HOST"),
		MailUser:     os.Getenv("MAIL_USER"),
		MailPass:     os.Getenv("MAIL_PASS"),
		AlertEmail:   os.Getenv("ALERT_EMAIL"),
		MetadataFile: getEnvOr("AMO_METADATA_FILE", "cache/amo_metadata.json"),
		LogFile:      getEnvOr("AMO_LOG_FILE", "logs/amo.log"),
	}

	if cfg.Subdomain == "" {
		return nil, fmt.Errorf("AMO_SUBDOMAIN deve estar configurado no .env")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("AMO_TOKEN deve estar configurado no .env")
	}

	var err error
	if cfg.PipelineID, err = intEnv("AMO_PIPELINE_ID"); err != nil {
		return nil, err
	}
	if cfg.StatusID, err = intEnv("AMO_STATUS_ID"); err != nil {
		return nil, err
	}
	if cfg.ResponsibleUserID, err = intEnv("AMO_RESPONSIBLE_USER_ID"); err != nil {
		return nil, err
	}
	if cfg.PhoneFieldID, err = intEnv("AMO_PHONE_FIELD_ID"); err != nil {
		return nil, err
	}

	cfg.MailPort = 587
	if v := os.Getenv("MAIL_PORT"); v != "" {
		if cfg.MailPort, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("MAIL_PORT inválido: %q", v)
		}
	}

	return cfg, nil
}

// LoadMetadataOnly carrega o mínimo necessário para o utilitário de
// metadados: credenciais e caminho do cache. Os IDs numéricos da
// pipeline não são exigidos aqui — é justamente este utilitário que
// o operador usa para descobri-los.
func LoadMetadataOnly() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Subdomain:    os.Getenv("AMO_SUBDOMAIN"),
		BaseDomain:   getEnvOr("AMO_BASE_DOMAIN", "amocrm.ru"),
		Token:        os.Getenv("AMO_TOKEN"),
		MetadataFile: getEnvOr("AMO_METADATA_FILE", "cache/amo_metadata.json"),
		LogFile:      getEnvOr("AMO_LOG_FILE", "logs/amo_fields.log"),
	}

	if cfg.Subdomain == "" {
		return nil, fmt.Errorf("AMO_SUBDOMAIN deve estar configurado no .env")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("AMO_TOKEN deve estar configurado no .env")
	}

	return cfg, nil
}

func intEnv(name string) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, fmt.Errorf("%s deve estar configurado no .env", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %q", name, v)
	}
	return n, nil
}

func getEnvOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
