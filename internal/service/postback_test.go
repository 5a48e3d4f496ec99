package service

import (
	"errors"
	"testing"
)

func TestParsePostback_RoundTripsEveryLabel(t *testing.T) {
	for _, label := range append(append([]string{}, GuidanceSlots...), DeliverySlots...) {
		sel, err := ParsePostback(PostbackData(label))
		if err != nil {
			t.Fatalf("parse %q: %v", label, err)
		}
		if sel.Label != label {
			t.Fatalf("expected %q, got %q", label, sel.Label)
		}
	}
}

func TestParsePostback_KeepsUnlistedLabel(t *testing.T) {
	sel, err := ParsePostback("time=09:00 ~ 09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sel.Label != "09:00 ~ 09:30" {
		t.Fatalf("unexpected label %q", sel.Label)
	}
}

func TestParsePostback_Invalid(t *testing.T) {
	for _, data := range []string{"", "time=", "time=   ", "action=buy", "TIME=10:00 ~ 10:30"} {
		if _, err := ParsePostback(data); !errors.Is(err, ErrInvalidPostback) {
			t.Fatalf("%q: expected ErrInvalidPostback, got %v", data, err)
		}
	}
}

func TestBuildTimeButtons_Order(t *testing.T) {
	buttons := BuildTimeButtons(GuidanceSlots)
	if len(buttons) != 8 {
		t.Fatalf("expected 8 buttons, got %d", len(buttons))
	}
	for i, b := range buttons {
		if b.Action.Type != "postback" || b.Action.Label != GuidanceSlots[i] || b.Action.Data != "time="+GuidanceSlots[i] {
			t.Fatalf("button %d mismatch: %+v", i, b.Action)
		}
	}
	if len(BuildTimeButtons(nil)) != 0 {
		t.Fatalf("expected no buttons for empty list")
	}
}

func TestMenus(t *testing.T) {
	g := GuidanceMenu()
	if g.AltText != "時間を選択してください" || len(g.Buttons()) != len(GuidanceSlots) {
		t.Fatalf("unexpected guidance menu %+v", g)
	}
	d := DeliveryMenu()
	if len(d.Buttons()) != 4 || d.Buttons()[3].Action.Label != "20:00 ~ 22:00" {
		t.Fatalf("unexpected delivery menu %+v", d)
	}
}

func TestIsSupportedPrescription(t *testing.T) {
	if !IsSupportedPrescription("ロキソニン錠60mg\nムコダイン", MedicineAllowList) {
		t.Fatalf("expected supported")
	}
	if IsSupportedPrescription("ワーファリン", MedicineAllowList) {
		t.Fatalf("expected unsupported")
	}
	if IsSupportedPrescription("anything", []string{""}) {
		t.Fatalf("empty entries must never match")
	}
	if IsSupportedPrescription("aspirin", []string{"Aspirin"}) {
		t.Fatalf("match must be case sensitive")
	}
}
