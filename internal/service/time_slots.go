package service

import "rx-line/internal/line"

// Horarios fijos de cada etapa, en el orden en que se muestran.
var (
	GuidanceSlots = []string{
		"10:00 ~ 10:30",
		"10:30 ~ 11:00",
		"11:00 ~ 11:30",
		"11:30 ~ 12:00",
		"12:00 ~ 12:30",
		"12:30 ~ 13:00",
		"13:00 ~ 13:30",
		"13:30 ~ 14:00",
	}
	DeliverySlots = []string{
		"14:00 ~ 16:00",
		"16:00 ~ 18:00",
		"18:00 ~ 20:00",
		"20:00 ~ 22:00",
	}
)

const (
	menuAltText       = "時間を選択してください"
	guidanceMenuTitle = "ご希望の診療時間を選択してください"
	deliveryMenuTitle = "ご希望の配送時間を選択してください"
)

// BuildTimeButtons crea un botón por horario con payload time=<label>.
func BuildTimeButtons(labels []string) []line.FlexButton {
	buttons := make([]line.FlexButton, 0, len(labels))
	for _, label := range labels {
		buttons = append(buttons, line.NewPostbackButton(label, PostbackData(label)))
	}
	return buttons
}

func GuidanceMenu() line.FlexMessage {
	return line.NewButtonMenu(menuAltText, guidanceMenuTitle, BuildTimeButtons(GuidanceSlots))
}

func DeliveryMenu() line.FlexMessage {
	return line.NewButtonMenu(menuAltText, deliveryMenuTitle, BuildTimeButtons(DeliverySlots))
}
