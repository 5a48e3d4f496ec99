package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Stage identifica en qué punto del flujo de agendamiento está un usuario.
type Stage int

const (
	StageNoSession Stage = iota
	StageAwaitingFirstSelection
	StageAwaitingFinalization
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingFirstSelection:
		return "awaiting_first_selection"
	case StageAwaitingFinalization:
		return "awaiting_finalization"
	default:
		return "no_session"
	}
}

var (
	ErrSessionCorrupt    = errors.New("session corrupt")
	ErrSessionTransition = errors.New("session invalid transition")
)

// Session es el estado por usuario entre eventos del webhook. Los campos solo
// son válidos para su etapa, por eso se construye con los helpers de abajo.
type Session struct {
	stage        Stage
	imageURL     string
	guidanceTime string
}

// NoSession representa la ausencia de estado para un usuario.
func NoSession() Session {
	return Session{stage: StageNoSession}
}

// NewAwaitingFirstSelection crea la sesión tras procesar la imagen de la receta.
func NewAwaitingFirstSelection(imageURL string) (Session, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return Session{}, fmt.Errorf("%w: image url is required", ErrSessionTransition)
	}
	return Session{stage: StageAwaitingFirstSelection, imageURL: imageURL}, nil
}

// WithGuidance fija el horario de orientación. Solo es válido una vez.
func (s Session) WithGuidance(guidanceTime string) (Session, error) {
	if s.stage != StageAwaitingFirstSelection {
		return Session{}, fmt.Errorf("%w: guidance from %s", ErrSessionTransition, s.stage)
	}
	if guidanceTime == "" {
		return Session{}, fmt.Errorf("%w: guidance time is required", ErrSessionTransition)
	}
	return Session{
		stage:        StageAwaitingFinalization,
		imageURL:     s.imageURL,
		guidanceTime: guidanceTime,
	}, nil
}

func (s Session) Stage() Stage         { return s.stage }
func (s Session) ImageURL() string     { return s.imageURL }
func (s Session) GuidanceTime() string { return s.guidanceTime }

// sessionBlob conserva el formato {"imageURL", "guidanceTime"} del almacén.
type sessionBlob struct {
	ImageURL     string `json:"imageURL"`
	GuidanceTime string `json:"guidanceTime,omitempty"`
}

// EncodeSession serializa una sesión activa. NoSession no se persiste.
func EncodeSession(s Session) ([]byte, error) {
	if s.stage == StageNoSession {
		return nil, fmt.Errorf("%w: cannot encode empty session", ErrSessionTransition)
	}
	return json.Marshal(sessionBlob{ImageURL: s.imageURL, GuidanceTime: s.guidanceTime})
}

// DecodeSession deriva la etapa a partir de los campos presentes.
func DecodeSession(data []byte) (Session, error) {
	if len(data) == 0 {
		return NoSession(), nil
	}
	var blob sessionBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	if blob.ImageURL == "" {
		return Session{}, fmt.Errorf("%w: missing image url", ErrSessionCorrupt)
	}
	if blob.GuidanceTime == "" {
		return Session{stage: StageAwaitingFirstSelection, imageURL: blob.ImageURL}, nil
	}
	return Session{
		stage:        StageAwaitingFinalization,
		imageURL:     blob.ImageURL,
		guidanceTime: blob.GuidanceTime,
	}, nil
}
