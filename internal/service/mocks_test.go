package service

import (
	"context"
	"errors"
	"sync"

	"rx-line/internal/domain"
	"rx-line/internal/line"
)

type replyCall struct {
	Token    string
	Messages []line.Message
}

type mockMessenger struct {
	mu       sync.Mutex
	replies  []replyCall
	loadings []string
	content  line.Content
	profile  line.Profile

	replyErr   error
	contentErr error
	profileErr error
}

func (m *mockMessenger) Reply(_ context.Context, replyToken string, messages ...line.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replyCall{Token: replyToken, Messages: messages})
	return m.replyErr
}

func (m *mockMessenger) StartLoading(_ context.Context, chatID string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadings = append(m.loadings, chatID)
	return nil
}

func (m *mockMessenger) GetContent(_ context.Context, _ string) (line.Content, error) {
	return m.content, m.contentErr
}

func (m *mockMessenger) GetProfile(_ context.Context, userID string) (line.Profile, error) {
	if m.profileErr != nil {
		return line.Profile{}, m.profileErr
	}
	p := m.profile
	p.UserID = userID
	return p, nil
}

func (m *mockMessenger) Replies() []replyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]replyCall, len(m.replies))
	copy(out, m.replies)
	return out
}

type mockUploader struct {
	mu        sync.Mutex
	url       string
	err       error
	filenames []string
}

func (m *mockUploader) Upload(_ context.Context, filename string, _ []byte, _ string) (string, error) {
	m.mu.Lock()
	m.filenames = append(m.filenames, filename)
	m.mu.Unlock()
	return m.url, m.err
}

type mockPrescriptionRepo struct {
	mu      sync.Mutex
	created []domain.Prescription
	err     error
}

func (m *mockPrescriptionRepo) Create(_ context.Context, p domain.Prescription) (domain.Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Prescription{}, m.err
	}
	p.ID = int64(len(m.created) + 1)
	m.created = append(m.created, p)
	return p, nil
}

func (m *mockPrescriptionRepo) ListRecent(_ context.Context, _ int) ([]domain.Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Prescription(nil), m.created...), nil
}

func (m *mockPrescriptionRepo) Created() []domain.Prescription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Prescription(nil), m.created...)
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []domain.Prescription
	err  error
}

func (m *mockNotifier) SendPrescriptionNotice(_ context.Context, p domain.Prescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, p)
	return m.err
}

// failingSessionStore simula un Redis caído.
type failingSessionStore struct{}

var errStoreDown = errors.New("store down")

func (failingSessionStore) Get(context.Context, string) (domain.Session, error) {
	return domain.Session{}, errStoreDown
}
func (failingSessionStore) Put(context.Context, string, domain.Session) error { return errStoreDown }
func (failingSessionStore) Delete(context.Context, string) error { return errStoreDown }
