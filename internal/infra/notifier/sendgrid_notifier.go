package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier 透過SendGrid寄管理員告警信
type SendGridNotifier struct {
	apiKey     string
	sender     string
	adminEmail string
}

func NewSendGridNotifier(apiKey, sender, adminEmail string) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, sender: sender, adminEmail: adminEmail}
}

// Notify 寄信給管理員
// 任何錯誤只記log，不回傳 (通知失敗不能影響金流結果)
func (n *SendGridNotifier) Notify(ctx context.Context, subject, body string) {
	from := mail.NewEmail("ecomhub", n.sender)
	to := mail.NewEmail("", n.adminEmail)
	message := mail.NewSingleEmail(from, subject, to, body, fmt.Sprintf("<pre>%s</pre>", body))

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("admin notification failed")
		return
	}
	if response.StatusCode >= 400 {
		log.Error().Int("status", response.StatusCode).Str("subject", subject).
			Msg("admin notification rejected")
	}
}

var _ Notifier = (*SendGridNotifier)(nil)
