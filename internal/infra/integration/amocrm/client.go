package amocrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const userAgent = "amoCRM-oAuth-client/1.0"

// maxRetryAfterWait limita a espera imposta pelo rate limit do AmoCRM.
const maxRetryAfterWait = 60 * time.Second

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// AccountURL monta a base da API v4 a partir do subdomínio da conta.
// Ex: ("minhaempresa", "amocrm.ru") -> "https://minhaempresa.amocrm.ru/api/v4"
func AccountURL(subdomain, baseDomain string) string {
	return fmt.Sprintf("https://%s.%s/api/v4", subdomain, baseDomain)
}

func NewClient(token, baseURL string) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateContact cria o contato com o telefone no campo customizado
// configurado e retorna o ID atribuído pelo CRM.
func (c *Client) CreateContact(ctx context.Context, input CreateContactInput) (int, error) {
	// A API v4 espera um array de contatos, mesmo para um só
	payload := []contactRequest{
		{
			Name: input.Name,
			CustomFieldsValues: []customFieldValue{
				{
					FieldID: input.PhoneFieldID,
					Values: []fieldValue{
						{Value: input.Phone, EnumCode: "WORK"},
					},
				},
			},
		},
	}

	body, status, err := c.post(ctx, "/contacts", payload)
	if err != nil {
		if IsAuthError(err) {
			return 0, err
		}
		return 0, &ContactCreationError{Detail: err.Error()}
	}
	if status < 200 || status > 299 {
		return 0, &ContactCreationError{Status: status, Detail: excerpt(body)}
	}

	var result struct {
		Embedded struct {
			Contacts []struct {
				ID int `json:"id"`
			} `json:"contacts"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &ContactCreationError{Status: status, Detail: "resposta inválida: " + err.Error()}
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, &ContactCreationError{Status: status, Detail: "resposta sem o ID do contato criado"}
	}

	return result.Embedded.Contacts[0].ID, nil
}

// CreateLead cria o lead na pipeline/etapa configuradas e retorna o ID.
// A vinculação ao contato é uma chamada separada (LinkContact).
func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	tags := make([]tagRef, 0, len(input.Tags))
	for _, t := range input.Tags {
		tags = append(tags, tagRef{Name: t})
	}

	var fields []customFieldValue
	for _, f := range input.CustomFields {
		fields = append(fields, customFieldValue{
			FieldID: f.FieldID,
			Values:  []fieldValue{{Value: f.Value}},
		})
	}

	payload := []leadRequest{
		{
			Name:               input.Name,
			PipelineID:         input.PipelineID,
			StatusID:           input.StatusID,
			ResponsibleUserID:  input.ResponsibleUserID,
			Source:             input.Source,
			CustomFieldsValues: fields,
			Embedded:           &leadEmbedded{Tags: tags},
		},
	}

	body, status, err := c.post(ctx, "/leads", payload)
	if err != nil {
		if IsAuthError(err) {
			return 0, err
		}
		return 0, &LeadCreationError{Detail: err.Error()}
	}
	if status < 200 || status > 299 {
		return 0, &LeadCreationError{Status: status, Detail: excerpt(body)}
	}

	var result struct {
		Embedded struct {
			Leads []struct {
				ID int `json:"id"`
			} `json:"leads"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &LeadCreationError{Status: status, Detail: "resposta inválida: " + err.Error()}
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, &LeadCreationError{Status: status, Detail: "resposta sem o ID do lead criado"}
	}

	return result.Embedded.Leads[0].ID, nil
}

// LinkContact vincula o contato ao lead já criado.
func (c *Client) LinkContact(ctx context.Context, leadID, contactID int) error {
	payload := []linkRequest{
		{ToEntityID: contactID, ToEntityType: "contacts"},
	}

	body, status, err := c.post(ctx, fmt.Sprintf("/leads/%d/link", leadID), payload)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return &LinkError{LeadID: leadID, ContactID: contactID, Detail: err.Error()}
	}
	if status < 200 || status > 299 {
		return &LinkError{LeadID: leadID, ContactID: contactID, Status: status, Detail: excerpt(body)}
	}

	return nil
}

// GetLead busca um lead pelo ID. Os parâmetros "with" seguem direto
// para a API (ex: "contacts" para trazer os vínculos).
func (c *Client) GetLead(ctx context.Context, leadID int, with ...string) (*LeadDetail, error) {
	path := fmt.Sprintf("/leads/%d", leadID)
	if len(with) > 0 {
		path += "?with=" + with[0]
		for _, w := range with[1:] {
			path += "," + w
		}
	}

	body, status, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("erro ao buscar lead %d (status %d): %s", leadID, status, excerpt(body))
	}

	var lead LeadDetail
	if err := json.Unmarshal(body, &lead); err != nil {
		return nil, fmt.Errorf("resposta inválida ao buscar lead %d: %w", leadID, err)
	}

	return &lead, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

// do executa a chamada autenticada. Em 401/403 devolve AuthError;
// em 429 espera o Retry-After uma única vez e reenvia.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	if c.token == "" {
		return nil, 0, &AuthError{Detail: "token não configurado"}
	}

	body, status, hdr, err := c.doOnce(ctx, method, path, payload)
	if err != nil {
		return nil, 0, err
	}

	if status == http.StatusTooManyRequests {
		select {
		case <-time.After(retryAfter(hdr)):
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
		body, status, _, err = c.doOnce(ctx, method, path, payload)
		if err != nil {
			return nil, 0, err
		}
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, 0, &AuthError{Status: status, Detail: excerpt(body)}
	}

	return body, status, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload any) ([]byte, int, string, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, "", fmt.Errorf("erro ao gerar json: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, "", fmt.Errorf("erro na conexão com o amocrm: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return body, resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

// setHeaders centraliza os headers obrigatórios de toda chamada.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

func excerpt(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return time.Second
	}
	wait := time.Duration(secs) * time.Second
	if wait > maxRetryAfterWait {
		wait = maxRetryAfterWait
	}
	return wait
}
