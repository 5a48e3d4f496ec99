package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rx-line/internal/domain"
)

// ErrSenderDisabled indica que no hay SMTP configurado.
var ErrSenderDisabled = errors.New("email sender disabled")

// Sender define la interfaz para avisar al farmacéutico de un agendamiento nuevo.
type Sender interface {
	SendPrescriptionNotice(ctx context.Context, p domain.Prescription) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendPrescriptionNotice(_ context.Context, _ domain.Prescription) error {
	if s.reason == "" {
		return ErrSenderDisabled
	}
	return fmt.Errorf("%w: %s", ErrSenderDisabled, s.reason)
}

func noticeSubject(p domain.Prescription) string {
	return fmt.Sprintf("新規処方箋受付: %s", p.UserName)
}

func noticeBody(p domain.Prescription) string {
	lines := []string{
		"新しい処方箋の受付がありました。",
		"",
		fmt.Sprintf("受付番号: %d", p.ID),
		fmt.Sprintf("お名前: %s", p.UserName),
		fmt.Sprintf("LINE ユーザーID: %s", p.UserID),
		fmt.Sprintf("処方箋画像: %s", p.PrescriptionImageURL),
		fmt.Sprintf("服薬指導時間: %s", p.OnlineGuidanceTime),
		fmt.Sprintf("配送時間: %s", p.MedicineDeliveryTime),
	}
	return strings.Join(lines, "\n") + "\n"
}
