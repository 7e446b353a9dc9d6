package amocrm

import (
	"context"
	"encoding/json"
	"fmt"
)

// CustomField é um campo customizado de leads/contatos/empresas.
type CustomField struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Code string `json:"code,omitempty"`
}

// Pipeline é um funil de vendas com suas etapas (statuses).
type Pipeline struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Statuses []PipelineStatus
}

type PipelineStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User é um usuário da conta AmoCRM.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// FullName junta nome e sobrenome do jeito que a interface do CRM mostra.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}

// LeadFields lista os campos customizados de leads.
func (c *Client) LeadFields(ctx context.Context) ([]CustomField, error) {
	return c.customFields(ctx, "leads")
}

// ContactFields lista os campos customizados de contatos.
func (c *Client) ContactFields(ctx context.Context) ([]CustomField, error) {
	return c.customFields(ctx, "contacts")
}

// CompanyFields lista os campos customizados de empresas.
func (c *Client) CompanyFields(ctx context.Context) ([]CustomField, error) {
	return c.customFields(ctx, "companies")
}

func (c *Client) customFields(ctx context.Context, entity string) ([]CustomField, error) {
	body, status, err := c.get(ctx, "/"+entity+"/custom_fields")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("erro ao buscar campos de %s (status %d): %s", entity, status, excerpt(body))
	}

	var result struct {
		Embedded struct {
			CustomFields []CustomField `json:"custom_fields"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("resposta inválida ao buscar campos de %s: %w", entity, err)
	}

	return result.Embedded.CustomFields, nil
}

// Pipelines lista os funis de leads com as etapas de cada um.
func (c *Client) Pipelines(ctx context.Context) ([]Pipeline, error) {
	body, status, err := c.get(ctx, "/leads/pipelines")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("erro ao buscar funis (status %d): %s", status, excerpt(body))
	}

	var result struct {
		Embedded struct {
			Pipelines []struct {
				ID       int    `json:"id"`
				Name     string `json:"name"`
				Embedded struct {
					Statuses []PipelineStatus `json:"statuses"`
				} `json:"_embedded"`
			} `json:"pipelines"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("resposta inválida ao buscar funis: %w", err)
	}

	pipelines := make([]Pipeline, 0, len(result.Embedded.Pipelines))
	for _, p := range result.Embedded.Pipelines {
		pipelines = append(pipelines, Pipeline{
			ID:       p.ID,
			Name:     p.Name,
			Statuses: p.Embedded.Statuses,
		})
	}

	return pipelines, nil
}

// Users lista os usuários da conta.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	body, status, err := c.get(ctx, "/users")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("erro ao buscar usuários (status %d): %s", status, excerpt(body))
	}

	var result struct {
		Embedded struct {
			Users []User `json:"users"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("resposta inválida ao buscar usuários: %w", err)
	}

	return result.Embedded.Users, nil
}
