package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
)

// CreateLeadUseCase orquestra a sequência contato -> lead -> vínculo.
// Sem retry e sem rollback: falha em qualquer passo aborta os
// seguintes e o que já foi criado no CRM fica lá (e vai para o log).
type CreateLeadUseCase struct {
	CRM      CRMClient
	Journal  DeliveryJournal
	Settings Settings
}

func NewCreateLeadUseCase(crm CRMClient, journal DeliveryJournal, settings Settings) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		CRM:      crm,
		Journal:  journal,
		Settings: settings,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	out := &CreateLeadOutput{Stage: entity.StageStart}

	if input.Phone == "" {
		err := fmt.Errorf("telefone é obrigatório")
		out.Stage = entity.StageFailed
		uc.record(ctx, input.Phone, out, err)
		return out, err
	}

	uc.warnDuplicates(ctx, input.Phone)

	contactName := input.ContactName
	if contactName == "" {
		contactName = entity.ContactName(input.Phone)
	}

	// 1. Contato
	contactID, err := uc.CRM.CreateContact(ctx, amocrm.CreateContactInput{
		Name:         contactName,
		Phone:        input.Phone,
		PhoneFieldID: uc.Settings.PhoneFieldID,
	})
	if err != nil {
		log.Printf("❌ Erro ao criar contato com telefone %s: %v", input.Phone, err)
		out.Stage = entity.StageFailed
		uc.record(ctx, input.Phone, out, err)
		return out, err
	}
	out.ContactID = contactID
	out.Stage = entity.StageContactCreated
	log.Printf("✅ Contato criado #%d com telefone %s", contactID, input.Phone)

	// 2. Lead (o webhook pode sobrescrever origem e responsável)
	source := uc.Settings.Source
	if input.Source != "" {
		source = input.Source
	}
	responsible := uc.Settings.ResponsibleUserID
	if input.ResponsibleUserID != 0 {
		responsible = input.ResponsibleUserID
	}

	out.LeadName = entity.LeadName(input.Phone)
	leadID, err := uc.CRM.CreateLead(ctx, amocrm.CreateLeadInput{
		Name:              out.LeadName,
		PipelineID:        uc.Settings.PipelineID,
		StatusID:          uc.Settings.StatusID,
		ResponsibleUserID: responsible,
		Tags:              []string{uc.Settings.Tag},
		Source:            source,
		CustomFields:      input.CustomFields,
	})
	if err != nil {
		// O contato fica órfão no CRM; registra o ID para o operador
		log.Printf("❌ Erro ao criar lead %s: %v", out.LeadName, err)
		log.Printf("⚠️ Contato #%d ficou órfão (sem lead)", contactID)
		out.Stage = entity.StageFailed
		uc.record(ctx, input.Phone, out, err)
		return out, err
	}
	out.LeadID = leadID
	out.Stage = entity.StageLeadCreated

	// 3. Vínculo
	if err := uc.CRM.LinkContact(ctx, leadID, contactID); err != nil {
		// Lead e contato existem mas desvinculados; reporta e devolve
		// os dois IDs mesmo assim (sem rollback)
		log.Printf("❌ Erro ao vincular lead %d ao contato %d: %v", leadID, contactID, err)
		out.Stage = entity.StageFailed
		uc.record(ctx, input.Phone, out, err)
		return out, err
	}
	out.Stage = entity.StageLinked

	uc.logSummary(input.Phone, out)
	out.Stage = entity.StageDone
	uc.record(ctx, input.Phone, out, nil)

	return out, nil
}

func (uc *CreateLeadUseCase) logSummary(phone string, out *CreateLeadOutput) {
	log.Printf("✅ Lead criado: %s", out.LeadName)
	log.Printf("   ID do lead: %d", out.LeadID)
	log.Printf("   ID do contato: %d", out.ContactID)
	log.Printf("   Funil: %d / Etapa: %d", uc.Settings.PipelineID, uc.Settings.StatusID)
	log.Printf("   Responsável: %d", uc.Settings.ResponsibleUserID)
	log.Printf("   Tag: %s", uc.Settings.Tag)
	log.Printf("   Origem: %s", uc.Settings.Source)
	log.Printf("   Telefone: %s", phone)
	log.Println("----------------------------------------")
}

// warnDuplicates avisa quando o telefone já passou pelo fluxo antes.
// A duplicação é comportamento documentado; o journal só dá visibilidade.
func (uc *CreateLeadUseCase) warnDuplicates(ctx context.Context, phone string) {
	if uc.Journal == nil {
		return
	}

	count, err := uc.Journal.CountByPhone(ctx, phone)
	if err != nil {
		log.Printf("⚠️ Erro ao consultar entregas anteriores de %s: %v", phone, err)
		return
	}
	if count > 0 {
		log.Printf("⚠️ Telefone %s já tem %d entrega(s) no journal; um novo contato e um novo lead serão criados", phone, count)
	}
}

func (uc *CreateLeadUseCase) record(ctx context.Context, phone string, out *CreateLeadOutput, flowErr error) {
	if uc.Journal == nil || !out.Stage.Terminal() {
		return
	}

	var kind, detail string
	if flowErr != nil {
		kind = amocrm.ErrorKind(flowErr)
		detail = flowErr.Error()
	}

	d := entity.NewDelivery(phone, out.ContactID, out.LeadID, out.Stage, kind, detail)
	if err := uc.Journal.Record(ctx, d); err != nil {
		// O journal é auditoria, não parte do fluxo: falha dele não
		// muda o resultado da entrega
		log.Printf("⚠️ Erro ao registrar entrega no journal: %v", err)
	}
}
