package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Setup direciona o logger padrão para o arquivo de log (append-only)
// e para o stderr ao mesmo tempo. Devolve um close para o defer do main.
func Setup(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de logs: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir arquivo de log %s: %w", path, err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.SetFlags(log.LstdFlags)

	return func() { f.Close() }, nil
}
