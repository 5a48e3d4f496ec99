package service

import (
	"errors"
	"fmt"
	"strings"
)

const postbackTimePrefix = "time="

var ErrInvalidPostback = errors.New("postback invalid payload")

// TimeSelection es el resultado tipado de un postback time=<label>.
type TimeSelection struct {
	Label string
}

// PostbackData es el payload que lleva cada botón de horario.
func PostbackData(label string) string {
	return postbackTimePrefix + label
}

// ParsePostback extrae el horario de un payload time=<label>. El label vuelve
// tal cual; no se valida contra las listas fijas.
func ParsePostback(data string) (TimeSelection, error) {
	label, ok := strings.CutPrefix(data, postbackTimePrefix)
	if !ok || strings.TrimSpace(label) == "" {
		return TimeSelection{}, fmt.Errorf("%w: %q", ErrInvalidPostback, data)
	}
	return TimeSelection{Label: label}, nil
}
