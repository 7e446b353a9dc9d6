package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
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

	phone := readPhone()
	if phone == "" {
		log.Fatal("❌ Nenhum telefone informado")
	}

	client := amocrm.NewClient(cfg.Token, amocrm.AccountURL(cfg.Subdomain, cfg.BaseDomain))
	flow := usecase.NewCreateLeadUseCase(client, nil, usecase.Settings{
		PipelineID:        cfg.PipelineID,
		StatusID:          cfg.StatusID,
		ResponsibleUserID: cfg.ResponsibleUserID,
		PhoneFieldID:      cfg.PhoneFieldID,
		Tag:               cfg.Tag,
		Source:            cfg.Source,
	})

	out, err := flow.Execute(context.Background(), usecase.CreateLeadInput{Phone: phone})

	switch {
	case err == nil:
		fmt.Printf("Lead criado com sucesso! (ID do lead: %d, ID do contato: %d)\n", out.LeadID, out.ContactID)
	case out.LeadID != 0 && out.ContactID != 0:
		// Vínculo falhou, mas as duas entidades existem no CRM
		fmt.Printf("Lead %d e contato %d criados, mas o vínculo falhou. Detalhes no log.\n", out.LeadID, out.ContactID)
		os.Exit(1)
	case out.ContactID != 0:
		fmt.Printf("Apenas o contato foi criado (ID: %d); o lead falhou. Detalhes no log.\n", out.ContactID)
		os.Exit(1)
	default:
		fmt.Println("Erro ao criar lead e contato. Detalhes no log.")
		os.Exit(1)
	}
}

// readPhone usa o argumento da linha de comando ou pergunta no terminal.
func readPhone() string {
	if len(os.Args) > 1 {
		return strings.TrimSpace(os.Args[1])
	}

	fmt.Print("Informe o número de telefone: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
