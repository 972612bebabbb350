package payment

const (
	EventPaymentPaid   = "payment.paid"
	EventPaymentFailed = "payment.failed"
)

// RoutingKeys ключи, на которые подписывается очередь сервиса
var RoutingKeys = []string{EventPaymentPaid, EventPaymentFailed}

// Message событие платёжного сервиса
type Message struct {
	Event string      `json:"event"`
	Data  MessageData `json:"data"`
}

type MessageData struct {
	PaymentID     string `json:"payment_id"`
	InvoiceNumber string `json:"invoice_number"`
}
