package metadata

import (
	"errors"
	"fmt"
)

// LookupError: o nome pedido não existe no snapshot.
// O utilitário de linha de comando imprime "não encontrado" em vez
// de tratar isso como falha do processo.
type LookupError struct {
	Kind   string // "campo", "etapa", "usuário"
	Name   string
	Detail string
}

func (e *LookupError) Error() string {
	switch {
	case e.Name == "":
		return fmt.Sprintf("lookup de metadados falhou: %s", e.Detail)
	case e.Detail == "":
		return fmt.Sprintf("%s %q não encontrado", e.Kind, e.Name)
	default:
		return fmt.Sprintf("%s %q não encontrado (%s)", e.Kind, e.Name, e.Detail)
	}
}

func IsLookupError(err error) bool {
	var target *LookupError
	return errors.As(err, &target)
}
