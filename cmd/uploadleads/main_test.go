package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func TestResultLineSuccess(t *testing.T) {
	out := &usecase.CreateLeadOutput{LeadID: 901, ContactID: 501}
	line := resultLine(1, 3, "+79001234567", out, nil)

	assert.Contains(t, line, "Lead criado 1/3")
	assert.Contains(t, line, "lead 901")
	assert.Contains(t, line, "contato 501")
}

// Falha de vínculo: as duas entidades existem e os dois IDs aparecem,
// nunca "apenas contato criado".
func TestResultLineLinkFailureReportsBothIDs(t *testing.T) {
	out := &usecase.CreateLeadOutput{LeadID: 901, ContactID: 501}
	line := resultLine(1, 3, "+79001234567", out, errors.New("vínculo rejeitado"))

	assert.Contains(t, line, "Lead 901")
	assert.Contains(t, line, "contato 501")
	assert.Contains(t, line, "vínculo falhou")
	assert.NotContains(t, line, "Apenas contato")
}

func TestResultLineOrphanContact(t *testing.T) {
	out := &usecase.CreateLeadOutput{ContactID: 501}
	line := resultLine(2, 3, "+79001234567", out, errors.New("lead rejeitado"))

	assert.Contains(t, line, "Apenas contato criado 2/3")
	assert.Contains(t, line, "contato 501")
}

func TestResultLineTotalFailure(t *testing.T) {
	out := &usecase.CreateLeadOutput{}
	line := resultLine(3, 3, "+79001234567", out, errors.New("boom"))

	assert.Contains(t, line, "Falha 3/3")
}

func TestReadPhonesFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("nome,telefone\nJoão,+79001234567\nMaria,\n,+79007654321\n"), 0o644))

	phones, err := readPhonesFromCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"+79001234567", "+79007654321"}, phones)
}

func TestReadPhonesFromCSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("nome,email\nJoão,j@example.com\n"), 0o644))

	_, err := readPhonesFromCSV(path)
	assert.Error(t, err)
}
