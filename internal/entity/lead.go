package entity

import "fmt"

// O lead e o contato vivem no CRM; localmente só circulam os IDs
// que a API devolve e os nomes derivados do telefone.

// LeadName deriva o nome do lead a partir do telefone (padrão LR_<fone>).
func LeadName(phone string) string {
	return fmt.Sprintf("LR_%s", phone)
}

// ContactName é o nome padrão do contato quando o chamador não informa um.
func ContactName(phone string) string {
	return fmt.Sprintf("Contato %s", phone)
}
