package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
	"github.com/xavierca1/ligue-leads/internal/logging"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// pausa entre requisições para não estourar o rate limit do AmoCRM
const pauseBetweenLeads = time.Second

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Uso: uploadleads <arquivo.csv>")
		fmt.Println("O CSV precisa de uma coluna 'telefone' (ou 'phone').")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	closeLog, err := logging.Setup(cfg.LogFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer closeLog()

	phones, err := readPhonesFromCSV(os.Args[1])
	if err != nil {
		log.Fatalf("❌ Erro ao ler o arquivo: %v", err)
	}
	if len(phones) == 0 {
		log.Fatal("❌ Nenhum telefone encontrado no arquivo")
	}

	log.Printf("📋 %d telefones lidos de %s", len(phones), os.Args[1])

	client := amocrm.NewClient(cfg.Token, amocrm.AccountURL(cfg.Subdomain, cfg.BaseDomain))
	flow := usecase.NewCreateLeadUseCase(client, nil, usecase.Settings{
		PipelineID:        cfg.PipelineID,
		StatusID:          cfg.StatusID,
		ResponsibleUserID: cfg.ResponsibleUserID,
		PhoneFieldID:      cfg.PhoneFieldID,
		Tag:               cfg.Tag,
		Source:            cfg.Source,
	})

	total := len(phones)
	success := 0

	for i, phone := range phones {
		out, err := flow.Execute(context.Background(), usecase.CreateLeadInput{Phone: phone})

		if err == nil {
			success++
		}
		fmt.Println(resultLine(i+1, total, phone, out, err))

		if i < total-1 {
			time.Sleep(pauseBetweenLeads)
		}
	}

	fmt.Printf("\nConcluído: %d/%d leads criados. Detalhes em %s\n", success, total, cfg.LogFile)
	if success < total {
		os.Exit(1)
	}
}

// resultLine descreve o desfecho de uma linha do arquivo.
// Em falha de vínculo as duas entidades existem no CRM e os dois
// IDs precisam aparecer; só "contato criado" quando o lead falhou.
func resultLine(n, total int, phone string, out *usecase.CreateLeadOutput, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Lead criado %d/%d: %s (lead %d, contato %d)", n, total, phone, out.LeadID, out.ContactID)
	case out.LeadID != 0 && out.ContactID != 0:
		return fmt.Sprintf("Lead %d e contato %d criados %d/%d, mas o vínculo falhou: %s", out.LeadID, out.ContactID, n, total, phone)
	case out.ContactID != 0:
		return fmt.Sprintf("Apenas contato criado %d/%d: %s (contato %d)", n, total, phone, out.ContactID)
	default:
		return fmt.Sprintf("Falha %d/%d: %s", n, total, phone)
	}
}

// readPhonesFromCSV lê a coluna de telefones do CSV, ignorando
// linhas vazias. O cabeçalho diz qual coluna usar.
func readPhonesFromCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("arquivo vazio")
	}

	col := -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "telefone", "phone":
			col = i
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("coluna 'telefone' não encontrada no cabeçalho")
	}

	var phones []string
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		phone := strings.TrimSpace(row[col])
		if phone != "" {
			phones = append(phones, phone)
		}
	}

	return phones, nil
}
