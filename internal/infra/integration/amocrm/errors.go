package amocrm

import (
	"errors"
	"fmt"
)

// AuthError: token ausente ou rejeitado pelo CRM (401/403).
// Não há refresh de token; é falha terminal da execução.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("falha de autenticação no amocrm: %s", e.Detail)
	}
	return fmt.Sprintf("falha de autenticação no amocrm (status %d): %s", e.Status, e.Detail)
}

type ContactCreationError struct {
	Status int
	Detail string
}

func (e *ContactCreationError) Error() string {
	return fmt.Sprintf("erro ao criar contato (status %d): %s", e.Status, e.Detail)
}

type LeadCreationError struct {
	Status int
	Detail string
}

func (e *LeadCreationError) Error() string {
	return fmt.Sprintf("erro ao criar lead (status %d): %s", e.Status, e.Detail)
}

type LinkError struct {
	LeadID    int
	ContactID int
	Status    int
	Detail    string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("erro ao vincular lead %d ao contato %d (status %d): %s",
		e.LeadID, e.ContactID, e.Status, e.Detail)
}

func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsLinkError(err error) bool {
	var target *LinkError
	return errors.As(err, &target)
}

// ErrorKind dá o nome curto da categoria do erro, usado no journal e nos logs.
func ErrorKind(err error) string {
	var (
		auth    *AuthError
		contact *ContactCreationError
		lead    *LeadCreationError
		link    *LinkError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &auth):
		return "AuthError"
	case errors.As(err, &contact):
		return "ContactCreationError"
	case errors.As(err, &lead):
		return "LeadCreationError"
	case errors.As(err, &link):
		return "LinkError"
	default:
		return "UnknownError"
	}
}
