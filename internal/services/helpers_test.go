package services

import (
	"context"
	"sync"
	"testing"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/payment"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/testutil"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentEmail struct {
	To       []string
	Template string
	Data     email.TemplateData
}

// recordingProvider keeps every message instead of sending it.
type recordingProvider struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (p *recordingProvider) Send(e *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEmail{To: e.To})
	return nil
}

func (p *recordingProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEmail{To: to, Template: templateName, Data: data})
	return nil
}

func (p *recordingProvider) Sent() []sentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentEmail(nil), p.sent...)
}

// stubGateway answers every session request with a fixed result.
type stubGateway struct {
	session  *payment.Session
	err      error
	requests []payment.SessionRequest
}

func (g *stubGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

type testEnv struct {
	db        *gorm.DB
	services  *ServiceContainer
	mail      *recordingProvider
	gateway   *stubGateway
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewStorage(storage.Config{Type: "local", BasePath: dir, BaseURL: "/uploads"})
	require.NoError(t, err)

	mail := &recordingProvider{}
	gateway := &stubGateway{session: &payment.Session{Status: payment.StatusSuccess, GatewayURL: "https://gateway.test/pay"}}

	return &testEnv{
		db: testutil.NewDB(t),
		services: NewServiceContainer(Dependencies{
			Storage:       store,
			EmailProvider: mail,
			Gateway:       gateway,
			Payment: PaymentConfig{
				BackendURL:  "http://api.test/",
				FrontendURL: "http://app.test",
			},
		}),
		mail:      mail,
		gateway:   gateway,
		uploadDir: dir,
	}
}

func callerOf(u *models.User) dto.Caller {
	return dto.Caller{ID: u.ID, Role: u.Role}
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}
