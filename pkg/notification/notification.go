// Package notification defines the outbound messages sent to clients.
package notification

import (
	"context"
	"time"
)

// Channel is the delivery medium of a message.
type Channel string

const (
	Email Channel = "email"
	SMS   Channel = "sms"
)

// Message is a notification addressed to one recipient.
type Message struct {
	Channel   Channel           `json:"channel"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject,omitempty"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Notifier delivers messages. Implementations must be safe for concurrent
// use.
type Notifier interface {
	Notify(ctx context.Context, msgs ...Message) error
	Close() error
}

// Welcome builds the e-mail carrying the generated password of a newly
// provisioned client.
func Welcome(email, titulaire, numeroCompte, password string) Message {
	return Message{
		Channel:   Email,
		Recipient: email,
		Subject:   "Bienvenue - Votre compte " + numeroCompte,
		Body: "Bonjour " + titulaire + ",\n\nVotre compte " + numeroCompte +
			" a été créé.\nVotre mot de passe temporaire est : " + password,
		Metadata:  map[string]string{"numeroCompte": numeroCompte},
		CreatedAt: time.Now().UTC(),
	}
}

// VerificationCode builds the SMS carrying the identity code of a newly
// provisioned client.
func VerificationCode(telephone, code string) Message {
	return Message{
		Channel:   SMS,
		Recipient: telephone,
		Body:      "Votre code d'activation est : " + code,
		CreatedAt: time.Now().UTC(),
	}
}
