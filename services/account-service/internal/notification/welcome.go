package notification

import (
	"context"
	"fmt"
	"html"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
)

// HTMLSender sends an HTML email with a plain text alternative.
type HTMLSender interface {
	SendHTML(to []string, subject, htmlBody, textBody string) error
}

// WelcomeMailer emails newly registered accounts.
type WelcomeMailer struct {
	sender  HTMLSender
	product string
}

// NewWelcomeMailer creates a WelcomeMailer signing its messages as product.
func NewWelcomeMailer(sender HTMLSender, product string) *WelcomeMailer {
	return &WelcomeMailer{sender: sender, product: product}
}

func (m *WelcomeMailer) NotifyRegistered(_ context.Context, account *model.Account) error {
	name := html.EscapeString(account.Name)
	product := html.EscapeString(m.product)

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account has been created. You can now sign in with %s.</p>
		<p>If you did not create this account, please contact support.</p>

		<p>Thank you,</p>
		<p>%s Team</p>
	`, name, html.EscapeString(account.Email), product)

	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour account has been created. You can now sign in with %s.\n\nThank you,\n%s Team\n",
		account.Name, account.Email, m.product,
	)

	return m.sender.SendHTML([]string{account.Email}, "Welcome to "+m.product, htmlBody, textBody)
}
