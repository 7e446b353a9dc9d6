package amocrm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContactSendsAuthAndFieldID(t *testing.T) {
	var gotAuth, gotAgent string
	var gotBody []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/contacts", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_embedded":{"contacts":[{"id":501}]}}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	id, err := client.CreateContact(context.Background(), CreateContactInput{
		Name:         "Contato +79001234567",
		Phone:        "+79001234567",
		PhoneFieldID: 318033,
	})

	assert.NoError(t, err)
	assert.Equal(t, 501, id)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "amoCRM-oAuth-client/1.0", gotAgent)

	// A API espera um array com um contato e o telefone no campo configurado
	require.Len(t, gotBody, 1)
	assert.Equal(t, "Contato +79001234567", gotBody[0]["name"])
	cfv := gotBody[0]["custom_fields_values"].([]any)
	require.Len(t, cfv, 1)
	field := cfv[0].(map[string]any)
	assert.Equal(t, float64(318033), field["field_id"])
	values := field["values"].([]any)
	require.Len(t, values, 1)
	assert.Equal(t, "+79001234567", values[0].(map[string]any)["value"])
	assert.Equal(t, "WORK", values[0].(map[string]any)["enum_code"])
}

func TestCreateLeadBodyShape(t *testing.T) {
	var gotBody []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/leads", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"_embedded":{"leads":[{"id":901}]}}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	id, err := client.CreateLead(context.Background(), CreateLeadInput{
		Name:              "LR_+79001234567",
		PipelineID:        2194891,
		StatusID:          68384126,
		ResponsibleUserID: 9480922,
		Tags:              []string{"LeadRecord"},
		Source:            "LeadRecord",
	})

	assert.NoError(t, err)
	assert.Equal(t, 901, id)

	require.Len(t, gotBody, 1)
	lead := gotBody[0]
	assert.Equal(t, "LR_+79001234567", lead["name"])
	assert.Equal(t, float64(2194891), lead["pipeline_id"])
	assert.Equal(t, float64(68384126), lead["status_id"])
	assert.Equal(t, float64(9480922), lead["responsible_user_id"])
	assert.Equal(t, "LeadRecord", lead["source"])
	tags := lead["_embedded"].(map[string]any)["tags"].([]any)
	require.Len(t, tags, 1)
	assert.Equal(t, "LeadRecord", tags[0].(map[string]any)["name"])

	// Sem campos extras o bloco custom_fields_values fica de fora
	assert.NotContains(t, lead, "custom_fields_values")
}

func TestCreateLeadCustomFieldsBodyShape(t *testing.T) {
	var gotBody []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"_embedded":{"leads":[{"id":902}]}}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	id, err := client.CreateLead(context.Background(), CreateLeadInput{
		Name:       "LR_+79001234567",
		PipelineID: 2194891,
		StatusID:   68384126,
		CustomFields: []LeadFieldValue{
			{FieldID: 318035, Value: "cliente@exemplo.com"},
			{FieldID: 318041, Value: "ligar à tarde"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 902, id)

	require.Len(t, gotBody, 1)
	cfv := gotBody[0]["custom_fields_values"].([]any)
	require.Len(t, cfv, 2)
	first := cfv[0].(map[string]any)
	assert.Equal(t, float64(318035), first["field_id"])
	values := first["values"].([]any)
	require.Len(t, values, 1)
	assert.Equal(t, "cliente@exemplo.com", values[0].(map[string]any)["value"])
	second := cfv[1].(map[string]any)
	assert.Equal(t, float64(318041), second["field_id"])
}

func TestLinkContactPathAndBody(t *testing.T) {
	var gotPath string
	var gotBody []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	err := client.LinkContact(context.Background(), 901, 501)

	assert.NoError(t, err)
	assert.Equal(t, "/leads/901/link", gotPath)
	require.Len(t, gotBody, 1)
	assert.Equal(t, float64(501), gotBody[0]["to_entity_id"])
	assert.Equal(t, "contacts", gotBody[0]["to_entity_type"])
}

func TestContactCreation500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"title":"Server Error"}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	id, err := client.CreateContact(context.Background(), CreateContactInput{Phone: "+7900", PhoneFieldID: 1})

	assert.Equal(t, 0, id)
	var target *ContactCreationError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, http.StatusInternalServerError, target.Status)
	assert.Equal(t, "ContactCreationError", ErrorKind(err))
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("token-expirado", srv.URL)

	_, err := client.CreateContact(context.Background(), CreateContactInput{Phone: "+7900", PhoneFieldID: 1})
	assert.True(t, IsAuthError(err))

	_, err = client.CreateLead(context.Background(), CreateLeadInput{Name: "LR_x"})
	assert.True(t, IsAuthError(err))

	err = client.LinkContact(context.Background(), 1, 2)
	assert.True(t, IsAuthError(err))
}

func TestEmptyTokenFailsBeforeAnyCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient("", srv.URL)
	_, err := client.CreateContact(context.Background(), CreateContactInput{Phone: "+7900", PhoneFieldID: 1})

	assert.True(t, IsAuthError(err))
	assert.False(t, called)
}

func TestRateLimitWaitsAndRetriesOnce(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"_embedded":{"contacts":[{"id":501}]}}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	id, err := client.CreateContact(context.Background(), CreateContactInput{Phone: "+7900", PhoneFieldID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 501, id)
	assert.Equal(t, 2, calls)
}

func TestMalformedEnvelopeIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":{"contacts":[]}}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	_, err := client.CreateContact(context.Background(), CreateContactInput{Phone: "+7900", PhoneFieldID: 1})

	var target *ContactCreationError
	assert.ErrorAs(t, err, &target)
}

func TestGetLeadWithContacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/leads/901", r.URL.Path)
		require.Equal(t, "contacts", r.URL.Query().Get("with"))
		w.Write([]byte(`{"id":901,"name":"LR_+79001234567","pipeline_id":2194891,"_embedded":{"contacts":[{"id":501,"is_main":true}]}}`))
	}))
	defer srv.Close()

	client := NewClient("token-123", srv.URL)
	lead, err := client.GetLead(context.Background(), 901, "contacts")

	require.NoError(t, err)
	assert.Equal(t, 901, lead.ID)
	require.Len(t, lead.Embedded.Contacts, 1)
	assert.Equal(t, 501, lead.Embedded.Contacts[0].ID)
}
