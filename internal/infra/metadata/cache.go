package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
)

// Fetcher é o que o cache precisa do cliente AmoCRM para se atualizar.
type Fetcher interface {
	LeadFields(ctx context.Context) ([]amocrm.CustomField, error)
	ContactFields(ctx context.Context) ([]amocrm.CustomField, error)
	CompanyFields(ctx context.Context) ([]amocrm.CustomField, error)
	Pipelines(ctx context.Context) ([]amocrm.Pipeline, error)
	Users(ctx context.Context) ([]amocrm.User, error)
}

// Snapshot é o conteúdo gravado em disco: o retrato dos metadados
// remotos no momento do último refresh.
type Snapshot struct {
	RefreshedAt   time.Time            `json:"refreshed_at"`
	LeadFields    []amocrm.CustomField `json:"lead_fields"`
	ContactFields []amocrm.CustomField `json:"contact_fields"`
	CompanyFields []amocrm.CustomField `json:"company_fields"`
	Pipelines     []amocrm.Pipeline    `json:"pipelines"`
	Users         []amocrm.User        `json:"users"`
}

// Cache mapeia nomes legíveis para os IDs numéricos do CRM.
// Um único arquivo JSON, sem lock: dois refresh concorrentes
// são um risco conhecido, não um cenário suportado.
type Cache struct {
	path    string
	fetcher Fetcher
	snap    *Snapshot
}

func NewCache(path string, fetcher Fetcher) *Cache {
	return &Cache{path: path, fetcher: fetcher}
}

// Refresh rebusca todos os metadados e regrava o arquivo.
// A escrita é atômica (arquivo temporário + rename) para não deixar
// um snapshot pela metade se o processo morrer no meio.
func (c *Cache) Refresh(ctx context.Context) error {
	snap := &Snapshot{RefreshedAt: time.Now()}

	var err error
	if snap.LeadFields, err = c.fetcher.LeadFields(ctx); err != nil {
		return fmt.Errorf("refresh de campos de leads: %w", err)
	}
	if snap.ContactFields, err = c.fetcher.ContactFields(ctx); err != nil {
		return fmt.Errorf("refresh de campos de contatos: %w", err)
	}
	if snap.CompanyFields, err = c.fetcher.CompanyFields(ctx); err != nil {
		return fmt.Errorf("refresh de campos de empresas: %w", err)
	}
	if snap.Pipelines, err = c.fetcher.Pipelines(ctx); err != nil {
		return fmt.Errorf("refresh de funis: %w", err)
	}
	if snap.Users, err = c.fetcher.Users(ctx); err != nil {
		return fmt.Errorf("refresh de usuários: %w", err)
	}

	if err := c.write(snap); err != nil {
		return err
	}

	c.snap = snap
	return nil
}

// FieldID procura o ID de um campo customizado pelo nome.
// entity: "leads", "contacts" ou "companies".
func (c *Cache) FieldID(entity, name string) (int, error) {
	snap, err := c.load()
	if err != nil {
		return 0, err
	}

	var fields []amocrm.CustomField
	switch entity {
	case "leads":
		fields = snap.LeadFields
	case "contacts":
		fields = snap.ContactFields
	case "companies":
		fields = snap.CompanyFields
	default:
		return 0, &LookupError{Kind: "campo", Name: name, Detail: fmt.Sprintf("tipo de entidade desconhecido: %q", entity)}
	}

	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f.ID, nil
		}
	}

	return 0, &LookupError{Kind: "campo", Name: name}
}

// StatusID procura o ID de uma etapa pelo nome dentro de um funil.
func (c *Cache) StatusID(pipelineID int, name string) (int, error) {
	snap, err := c.load()
	if err != nil {
		return 0, err
	}

	for _, p := range snap.Pipelines {
		if p.ID != pipelineID {
			continue
		}
		for _, s := range p.Statuses {
			if strings.EqualFold(s.Name, name) {
				return s.ID, nil
			}
		}
	}

	return 0, &LookupError{Kind: "etapa", Name: name, Detail: fmt.Sprintf("funil %d", pipelineID)}
}

// UserID procura o ID de um usuário pelo nome (com ou sem sobrenome).
func (c *Cache) UserID(name string) (int, error) {
	snap, err := c.load()
	if err != nil {
		return 0, err
	}

	for _, u := range snap.Users {
		if strings.EqualFold(u.Name, name) || strings.EqualFold(u.FullName(), name) {
			return u.ID, nil
		}
	}

	return 0, &LookupError{Kind: "usuário", Name: name}
}

// Current devolve o snapshot carregado (para listagens do CLI).
func (c *Cache) Current() (*Snapshot, error) {
	return c.load()
}

// load lê o arquivo uma única vez por processo; lookups nunca
// alteram o cache.
func (c *Cache) load() (*Snapshot, error) {
	if c.snap != nil {
		return c.snap, nil
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LookupError{Detail: fmt.Sprintf("cache %s não existe; rode 'refresh' primeiro", c.path)}
		}
		return nil, fmt.Errorf("erro ao ler cache %s: %w", c.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("cache %s corrompido: %w", c.path, err)
	}

	c.snap = &snap
	return c.snap, nil
}

func (c *Cache) write(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório do cache: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar cache: %w", err)
	}

	return os.Rename(tmp, c.path)
}
