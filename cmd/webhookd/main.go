package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/metadata"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/logging"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	closeLog, err := logging.Setup(cfg.LogFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer closeLog()

	// 1. Banco (journal de entregas)
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Erro ao conectar no Postgres: %v", err)
	}
	defer db.Close()

	// 2. Fila
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 3. Cliente do CRM, cache de metadados e fluxo de criação
	client := amocrm.NewClient(cfg.Token, amocrm.AccountURL(cfg.Subdomain, cfg.BaseDomain))
	journal := database.NewDeliveryRepository(db)

	// O cache resolve responsável/email/comentário dos webhooks.
	// Falha no refresh não derruba o servidor: sem cache o webhook
	// só entrega o telefone.
	cache := metadata.NewCache(cfg.MetadataFile, client)
	if err := cache.Refresh(context.Background()); err != nil {
		log.Printf("⚠️ Erro ao atualizar cache de metadados: %v", err)
	} else {
		log.Println("✅ Cache de metadados do AmoCRM atualizado")
	}

	flow := usecase.NewCreateLeadUseCase(client, journal, usecase.Settings{
		PipelineID:        cfg.PipelineID,
		StatusID:          cfg.StatusID,
		ResponsibleUserID: cfg.ResponsibleUserID,
		PhoneFieldID:      cfg.PhoneFieldID,
		Tag:               cfg.Tag,
		Source:            cfg.Source,
	})

	// 4. Alerta por email (opcional: sem MAIL_HOST o worker só loga)
	var alerts queue.AlertSender
	if cfg.MailHost != "" && cfg.AlertEmail != "" {
		alerts = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.AlertEmail)
	}

	// 5. Worker (consome a fila e entrega ao CRM)
	worker := queue.NewWorker(rabbitMQ.Ch, flow, alerts, cache)
	go worker.Start(queue.QueueName)

	// 6. Handlers e router
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	webhookHandler := handlers.NewWebhookHandler(producer)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Servidor de webhooks AmoCRM rodando!"))
	})
	r.Post("/webhook", webhookHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.WebhookPort
	log.Printf("🔥 Servidor de webhooks rodando na porta %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("❌ Erro no servidor HTTP: %v", err)
	}
}
