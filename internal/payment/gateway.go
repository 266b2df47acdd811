package payment

import (
	"memberportal/pkg/platform/messagebus"
)

// StatusSuccess is the only gateway status that advances an orchestration.
const StatusSuccess = "success"

// GatewayMessage is the completion signal the gateway frame posts back.
type GatewayMessage struct {
	Status string `json:"status"`
	TrxRef string `json:"trxref"`
}

// Matches reports whether m completes the transaction with reference.
func (m GatewayMessage) Matches(reference string) bool {
	return m.Status == StatusSuccess && reference != "" && m.TrxRef == reference
}

// GatewayBus carries gateway messages to every waiting orchestration.
type GatewayBus interface {
	Subscribe(fn func(GatewayMessage)) (unsubscribe func())
}

// NewGatewayBus returns the in-process bus fed by the callback endpoint.
func NewGatewayBus() *messagebus.Bus[GatewayMessage] {
	return messagebus.New[GatewayMessage]()
}
