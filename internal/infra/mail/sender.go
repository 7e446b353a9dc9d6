package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, alertTo string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		AlertTo:  alertTo,
	}
}

// SendDeliveryAlert avisa o operador que uma entrega de lead falhou
// de vez (a mensagem já foi para a DLQ; ninguém vai reprocessar sozinho).
func (s *EmailSender) SendDeliveryAlert(phone, errKind, detail string) error {
	body := fmt.Sprintf(
		"A entrega do lead com telefone %s falhou.\n\nTipo: %s\nDetalhe: %s\n\nO evento está na DLQ (q.lead_deliveries.dlq) e o desfecho no journal.\n",
		phone, errKind, detail,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", s.User)
	m.SetHeader("To", s.AlertTo)
	m.SetHeader("Subject", fmt.Sprintf("[ligue-leads] Falha de entrega: %s (%s)", phone, errKind))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
