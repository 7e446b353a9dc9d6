package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishDelivery(ctx context.Context, payload queue.LeadDeliveryPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func postWebhook(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func TestWebhookAcceptedAndQueued(t *testing.T) {
	producer := new(MockProducer)

	var published queue.LeadDeliveryPayload
	producer.On("PublishDelivery", mock.Anything, mock.MatchedBy(func(p queue.LeadDeliveryPayload) bool {
		published = p
		return p.Phone == "+79001234567" && p.EventID != ""
	})).Return(nil)

	h := NewWebhookHandler(producer)
	w := postWebhook(t, h, `{"name":"João","phone":"+79001234567","source":"landing-page"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp LeadWebhookResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, published.EventID, resp.EventID)
	assert.Equal(t, "João", published.Name)
	producer.AssertExpectations(t)
}

func TestWebhookRejectsMissingPhone(t *testing.T) {
	producer := new(MockProducer)

	h := NewWebhookHandler(producer)
	w := postWebhook(t, h, `{"name":"João"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	producer.AssertNotCalled(t, "PublishDelivery", mock.Anything, mock.Anything)
}

func TestWebhookRejectsBadJSON(t *testing.T) {
	producer := new(MockProducer)

	h := NewWebhookHandler(producer)
	w := postWebhook(t, h, `{telefone`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	producer.AssertNotCalled(t, "PublishDelivery", mock.Anything, mock.Anything)
}

func TestWebhookQueueFailureIs500(t *testing.T) {
	producer := new(MockProducer)
	producer.On("PublishDelivery", mock.Anything, mock.Anything).
		Return(assert.AnError)

	h := NewWebhookHandler(producer)
	w := postWebhook(t, h, `{"phone":"+79001234567"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
