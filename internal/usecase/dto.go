package usecase

import (
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
)

// Settings são os IDs e nomes fixos da conta, definidos na configuração
// (o utilitário amofields existe para o operador descobri-los).
type Settings struct {
	PipelineID        int
	StatusID          int
	ResponsibleUserID int
	PhoneFieldID      int
	Tag               string
	Source            string
}

type CreateLeadInput struct {
	Phone       string
	ContactName string // opcional; padrão "Contato <fone>"

	// Sobrescritas opcionais vindas do webhook (0/"" = usa Settings)
	Source            string
	ResponsibleUserID int
	CustomFields      []amocrm.LeadFieldValue
}

// CreateLeadOutput carrega os IDs criados (0 = não criado) e até
// onde o fluxo chegou. Em falha parcial os IDs já criados vêm
// preenchidos mesmo com erro.
type CreateLeadOutput struct {
	LeadID    int
	ContactID int
	LeadName  string
	Stage     entity.Stage
}
