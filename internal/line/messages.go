package line

// Message es cualquier mensaje aceptado por el endpoint de reply.
type Message interface {
	MessageType() string
}

type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

func (m TextMessage) MessageType() string { return m.Type }

// FlexMessage es un bubble con un título y una lista vertical de botones.
type FlexMessage struct {
	Type     string     `json:"type"`
	AltText  string     `json:"altText"`
	Contents FlexBubble `json:"contents"`
}

func (m FlexMessage) MessageType() string { return m.Type }

type FlexBubble struct {
	Type string  `json:"type"`
	Body FlexBox `json:"body"`
}

type FlexBox struct {
	Type     string          `json:"type"`
	Layout   string          `json:"layout"`
	Margin   string          `json:"margin,omitempty"`
	Spacing  string          `json:"spacing,omitempty"`
	Contents []FlexComponent `json:"contents"`
}

// FlexComponent agrupa los nodos que pueden ir dentro de un FlexBox.
type FlexComponent interface {
	ComponentType() string
}

type FlexText struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
}

func (t FlexText) ComponentType() string { return t.Type }

type FlexButton struct {
	Type   string         `json:"type"`
	Action PostbackAction `json:"action"`
	Style  string         `json:"style,omitempty"`
	Margin string         `json:"margin,omitempty"`
}

func (b FlexButton) ComponentType() string { return b.Type }

func (b FlexBox) ComponentType() string { return b.Type }

type PostbackAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Data  string `json:"data"`
}

// NewPostbackButton construye un botón primario que devuelve data como postback.
func NewPostbackButton(label, data string) FlexButton {
	return FlexButton{
		Type: "button",
		Action: PostbackAction{
			Type:  "postback",
			Label: label,
			Data:  data,
		},
		Style:  "primary",
		Margin: "md",
	}
}

// NewButtonMenu arma el bubble: título en negrita y los botones en el orden recibido.
func NewButtonMenu(altText, title string, buttons []FlexButton) FlexMessage {
	items := make([]FlexComponent, 0, len(buttons))
	for _, b := range buttons {
		items = append(items, b)
	}
	return FlexMessage{
		Type:    "flex",
		AltText: altText,
		Contents: FlexBubble{
			Type: "bubble",
			Body: FlexBox{
				Type:   "box",
				Layout: "vertical",
				Contents: []FlexComponent{
					FlexText{Type: "text", Text: title, Weight: "bold", Size: "md"},
					FlexBox{
						Type:     "box",
						Layout:   "vertical",
						Margin:   "lg",
						Spacing:  "sm",
						Contents: items,
					},
				},
			},
		},
	}
}

// Buttons devuelve los botones del menú en orden.
func (m FlexMessage) Buttons() []FlexButton {
	var out []FlexButton
	for _, c := range m.Contents.Body.Contents {
		box, ok := c.(FlexBox)
		if !ok {
			continue
		}
		for _, item := range box.Contents {
			if b, ok := item.(FlexButton); ok {
				out = append(out, b)
			}
		}
	}
	return out
}
