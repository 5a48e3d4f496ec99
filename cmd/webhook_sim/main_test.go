package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rx-line/internal/domain"
	"rx-line/internal/line"
	"rx-line/internal/service"
)

func TestBuildEvent(t *testing.T) {
	ev, err := buildEvent("postback", "U1", "", "time=10:00 ~ 10:30")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ev.Type != domain.EventTypePostback || ev.Postback.Data != "time=10:00 ~ 10:30" || ev.UserID() != "U1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.WebhookEventID == "" || ev.ReplyToken == "" {
		t.Fatalf("expected generated ids")
	}

	img, err := buildEvent("image", "U1", "", "")
	if err != nil || img.Message == nil || img.Message.Type != domain.MessageTypeImage {
		t.Fatalf("unexpected image event %+v err=%v", img, err)
	}

	if _, err := buildEvent("sticker", "U1", "", ""); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestTokenCommand(t *testing.T) {
	cmd := newTokenCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--secret", "s3cret", "--operator", "ops"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	token := strings.TrimSpace(out.String())
	claims, err := service.NewJWTService("s3cret", 0).ParseAdminToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Operator != "ops" {
		t.Fatalf("unexpected operator %q", claims.Operator)
	}
}

func TestSendCommandRequiresSecret(t *testing.T) {
	cmd := newSendCommand()
	cmd.SetArgs([]string{"--secret", ""})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestSendCommandSignsBody(t *testing.T) {
	var verr error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		verr = line.VerifySignature("s3cret", body, r.Header.Get(line.SignatureHeader))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	cmd := newSendCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--url", srv.URL, "--secret", "s3cret", "--kind", "text"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if verr != nil {
		t.Fatalf("server rejected signature: %v", verr)
	}
	if !strings.HasPrefix(out.String(), "200 OK") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
