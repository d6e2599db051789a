package notifier

import "context"

// Notifier 管理員告警
// fire-and-forget, 通知失敗不可影響呼叫端的交易結果
type Notifier interface {
	Notify(ctx context.Context, subject, body string)
}
