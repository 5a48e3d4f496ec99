package domain

// Tipos del payload de webhook de LINE. Solo se modelan los campos que usa el flujo.

const (
	EventTypeMessage  = "message"
	EventTypePostback = "postback"

	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

type WebhookEvent struct {
	Type            string           `json:"type"`
	Mode            string           `json:"mode,omitempty"`
	Timestamp       int64            `json:"timestamp"`
	WebhookEventID  string           `json:"webhookEventId,omitempty"`
	DeliveryContext *DeliveryContext `json:"deliveryContext,omitempty"`
	ReplyToken      string           `json:"replyToken,omitempty"`
	Source          *EventSource     `json:"source,omitempty"`
	Message         *EventMessage    `json:"message,omitempty"`
	Postback        *EventPostback   `json:"postback,omitempty"`
}

type DeliveryContext struct {
	IsRedelivery bool `json:"isRedelivery"`
}

type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type EventPostback struct {
	Data string `json:"data"`
}

// UserID devuelve el userId del origen o vacío si el evento no lo trae.
func (e WebhookEvent) UserID() string {
	if e.Source == nil {
		return ""
	}
	return e.Source.UserID
}

// IsRedelivery indica si LINE reenvía un evento ya entregado.
func (e WebhookEvent) IsRedelivery() bool {
	return e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery
}
