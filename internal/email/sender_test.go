package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rx-line/internal/domain"
)

func TestDisabledSender(t *testing.T) {
	err := NewDisabledSender("smtp not configured").SendPrescriptionNotice(context.Background(), domain.Prescription{})
	if !errors.Is(err, ErrSenderDisabled) {
		t.Fatalf("expected ErrSenderDisabled, got %v", err)
	}
	if !strings.Contains(err.Error(), "smtp not configured") {
		t.Fatalf("expected reason in error, got %v", err)
	}
}

func TestNoticeBody(t *testing.T) {
	p := domain.Prescription{
		ID:                   7,
		UserName:             "山田太郎",
		UserID:               "U1",
		PrescriptionImageURL: "https://i.gyazo.com/a.png",
		OnlineGuidanceTime:   "10:00 ~ 10:30",
		MedicineDeliveryTime: "14:00 ~ 16:00",
	}
	body := noticeBody(p)
	for _, want := range []string{"受付番号: 7", "山田太郎", "U1", "https://i.gyazo.com/a.png", "10:00 ~ 10:30", "14:00 ~ 16:00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q, got %q", want, body)
		}
	}
	if noticeSubject(p) != "新規処方箋受付: 山田太郎" {
		t.Fatalf("unexpected subject %q", noticeSubject(p))
	}
}

func TestNewSMTPSender_Validation(t *testing.T) {
	if _, err := NewSMTPSender("", 0, "", "", "rx@example.com", "", "ph@example.com", false); err == nil {
		t.Fatalf("expected error without host")
	}
	if _, err := NewSMTPSender("smtp.example.com", 0, "", "", "", "", "ph@example.com", false); err == nil {
		t.Fatalf("expected error without from")
	}
	if _, err := NewSMTPSender("smtp.example.com", 0, "", "", "rx@example.com", "", "", false); err == nil {
		t.Fatalf("expected error without recipient")
	}
	s, err := NewSMTPSender("smtp.example.com", 0, "", "", "rx@example.com", "薬局", "ph@example.com", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.port != 587 {
		t.Fatalf("expected default port 587, got %d", s.port)
	}
	if _, err := s.buildMessage(domain.Prescription{UserName: "x"}); err != nil {
		t.Fatalf("build message: %v", err)
	}
}
