package outreach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"formatech/internal/database"
	"formatech/internal/domain"
	"formatech/internal/metrics"
	"formatech/internal/middleware"
	"formatech/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	got  ContactContext
	kind MessageKind
	text string
}

func (f *fakeGenerator) Generate(_ context.Context, cc ContactContext, kind MessageKind) (string, error) {
	f.got, f.kind = cc, kind
	return f.text, nil
}

type fakeSender struct {
	sent []Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, e Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, e)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

type fakePeople struct {
	query  string
	result SearchResult
}

func (f *fakePeople) Search(_ context.Context, companyName string) (SearchResult, error) {
	f.query = companyName
	return f.result, nil
}

type env struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func setup(t *testing.T) env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:outreach_%s?mode=memory&cache=shared", t.Name()), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	ctx := context.Background()
	require.NoError(t, repository.NewCompanyRepository(db).Create(ctx, &domain.Company{
		ID: "c1", Name: "Acme", Sector: domain.SectorIndustry, Description: "Usinage de précision",
	}))
	companyID := "c1"
	require.NoError(t, repository.NewContactRepository(db).Create(ctx, &domain.Contact{
		ID: "p1", FirstName: "Léa", LastName: "Martin", Function: "DRH", Email: "lea@acme.fr", CompanyID: &companyID,
	}))
	require.NoError(t, repository.NewContactRepository(db).Create(ctx, &domain.Contact{
		ID: "p2", FirstName: "Paul", LastName: "Durand", CompanyID: &companyID,
	}))
	return env{db: db, metrics: metrics.New()}
}

func (e env) service(p Providers) *Service {
	return NewService(
		repository.NewContactRepository(e.db),
		repository.NewCompanyRepository(e.db),
		repository.NewOutreachRepository(e.db),
		p,
		e.metrics,
	)
}

func (e env) contact(t *testing.T, id string) *domain.Contact {
	t.Helper()
	c, err := repository.NewContactRepository(e.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

func TestGenerateMessageUsesRecentInteractions(t *testing.T) {
	e := setup(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		require.NoError(t, e.db.Create(&domain.Interaction{
			ID: fmt.Sprintf("i%d", i), ContactID: "p1", Type: domain.InteractionNote,
			Content: fmt.Sprintf("note %d", i), CreatedAt: base.AddDate(0, 0, i),
		}).Error)
	}

	gen := &fakeGenerator{text: "Bonjour Léa"}
	out, err := e.service(Providers{Generator: gen}).GenerateMessage(context.Background(), GenerateRequest{
		ContactID: "p1", MessageType: KindEmailIntro, CustomContext: "Salon RH Lyon",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bonjour Léa", out.Message)
	assert.Equal(t, MessageContact{Name: "Léa Martin", Company: "Acme", Function: "DRH"}, out.Contact)
	assert.Equal(t, KindEmailIntro, gen.kind)
	assert.Equal(t, "Salon RH Lyon", gen.got.Extra)
	require.Len(t, gen.got.Interactions, 5)
	assert.Equal(t, "note 5", gen.got.Interactions[0].Content)
	assert.Equal(t, "note 1", gen.got.Interactions[4].Content)
}

func TestGenerateMessageErrors(t *testing.T) {
	e := setup(t)

	_, err := e.service(Providers{}).GenerateMessage(context.Background(), GenerateRequest{ContactID: "p1"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = e.service(Providers{Generator: &fakeGenerator{}}).GenerateMessage(context.Background(), GenerateRequest{ContactID: "ghost"})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestSendEmailPromotesContactOnce(t *testing.T) {
	e := setup(t)
	sender := &fakeSender{}
	s := e.service(Providers{Sender: sender})
	ctx := context.Background()

	out, err := s.SendEmail(ctx, SendEmailRequest{ContactID: "p1", Subject: "Formation", Body: "Bonjour\nLéa", CampaignID: "q2"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.EmailLogID)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "lea@acme.fr", sender.sent[0].To)

	c := e.contact(t, "p1")
	assert.Equal(t, domain.ContactContacted, c.Status)
	assert.Equal(t, 10, c.EngagementScore)

	_, err = s.SendEmail(ctx, SendEmailRequest{ContactID: "p1", Subject: "Relance", Body: "..."})
	require.NoError(t, err)
	c = e.contact(t, "p1")
	assert.Equal(t, domain.ContactContacted, c.Status)
	assert.Equal(t, 10, c.EngagementScore)

	logs, err := repository.NewOutreachRepository(e.db).EmailLogs(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, domain.EmailSent, l.Status)
		assert.NotNil(t, l.SentAt)
	}
	history, err := repository.NewOutreachRepository(e.db).RecentInteractions(ctx, "p1", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	expected := `
# HELP formatech_outreach_emails_total Outreach emails by delivery status.
# TYPE formatech_outreach_emails_total counter
formatech_outreach_emails_total{status="SENT"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(e.metrics.Registry(), strings.NewReader(expected), "formatech_outreach_emails_total"))
}

func TestSendEmailFailures(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	req := SendEmailRequest{ContactID: "p1", Subject: "Formation", Body: "Bonjour"}

	_, err := e.service(Providers{}).SendEmail(ctx, req)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = e.service(Providers{Sender: &fakeSender{}}).SendEmail(ctx, SendEmailRequest{ContactID: "p2", Subject: "x", Body: "y"})
	assert.ErrorIs(t, err, ErrNoEmail)

	boom := errors.New("smtp down")
	_, err = e.service(Providers{Sender: &fakeSender{err: boom}}).SendEmail(ctx, req)
	assert.ErrorIs(t, err, ErrDelivery)
	assert.ErrorIs(t, err, boom)

	logs, err := repository.NewOutreachRepository(e.db).EmailLogs(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EmailFailed, logs[0].Status)
	assert.Equal(t, domain.ContactNew, e.contact(t, "p1").Status)
}

func TestEnrichCreatesUnknownContacts(t *testing.T) {
	e := setup(t)
	people := &fakePeople{result: SearchResult{TotalFound: 40, People: []Person{
		{FirstName: "Léa", LastName: "Martin", Email: "lea@acme.fr", Title: "DRH"},
		{FirstName: "Marc", LastName: "Petit", Email: "marc@acme.fr", Title: "Directeur Formation", Phone: "+33 1 23 45 67 89"},
		{FirstName: "Anonyme", Title: "RH"},
		{FirstName: "Inès", LastName: "Roux", LinkedinURL: "https://linkedin.com/in/ines", Title: "Chargée RH"},
	}}}

	res, err := e.service(Providers{People: people}).Enrich(context.Background(), EnrichRequest{CompanyID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, "Acme", people.query)
	assert.Equal(t, 40, res.TotalFound)
	assert.Equal(t, 2, res.ContactsCreated)
	assert.Equal(t, "2 contacts trouvés et ajoutés", res.Message)
	require.Len(t, res.Contacts, 2)
	assert.Equal(t, domain.DecisionMakerYes, res.Contacts[0].IsDecisionMaker)
	assert.Equal(t, "+33 1 23 45 67 89", res.Contacts[0].PhoneFixed)
	assert.Equal(t, domain.DecisionMakerUnconfirmed, res.Contacts[1].IsDecisionMaker)

	company, err := repository.NewCompanyRepository(e.db).GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CompanyResearching, company.Status)

	// a second run finds everyone already known
	res, err = e.service(Providers{People: people}).Enrich(context.Background(), EnrichRequest{CompanyID: "c1", CompanyName: "ACME SAS"})
	require.NoError(t, err)
	assert.Equal(t, "ACME SAS", people.query)
	assert.Zero(t, res.ContactsCreated)
	assert.Empty(t, res.Contacts)
}

func TestEnrichUnknownCompany(t *testing.T) {
	e := setup(t)
	_, err := e.service(Providers{People: &fakePeople{}}).Enrich(context.Background(), EnrichRequest{CompanyID: "ghost"})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestDecisionMaker(t *testing.T) {
	assert.Equal(t, domain.DecisionMakerYes, DecisionMaker("Responsable Formation"))
	assert.Equal(t, domain.DecisionMakerYes, DecisionMaker("CEO"))
	assert.Equal(t, domain.DecisionMakerUnconfirmed, DecisionMaker("Chargée de recrutement"))
	assert.Equal(t, domain.DecisionMakerUnconfirmed, DecisionMaker(""))
}

func TestBuildPrompt(t *testing.T) {
	cc := ContactContext{
		Contact: domain.Contact{FirstName: "Léa", LastName: "Martin"},
		Company: &domain.Company{Name: "Acme", Sector: domain.SectorIndustry},
		Interactions: []domain.Interaction{
			{Type: domain.InteractionEmail, Content: "Premier email"},
			{Type: domain.InteractionCall},
		},
	}

	p := BuildPrompt(cc, KindLinkedinConnection)
	assert.Contains(t, p, "- Poste : Non renseigné")
	assert.Contains(t, p, "- Secteur : industrie")
	assert.Contains(t, p, "- EMAIL: Premier email")
	assert.Contains(t, p, "- CALL: Pas de détail")
	assert.Contains(t, p, "max 300 caractères")
	assert.NotContains(t, p, "Contexte supplémentaire")

	p = BuildPrompt(ContactContext{Contact: cc.Contact, Extra: "Salon"}, MessageKind("sms"))
	assert.Contains(t, p, "- Entreprise : Non renseignée")
	assert.Contains(t, p, "Contexte supplémentaire : Salon")
	assert.True(t, strings.HasSuffix(p, genericInstruction))
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestHandlerRoutes(t *testing.T) {
	e := setup(t)
	router := gin.New()
	NewHandler(e.service(Providers{Sender: &fakeSender{}})).RegisterRoutes(router.Group("/api"))

	code, out := perform(t, router, http.MethodGet, "/api/settings/check-apis", nil)
	require.Equal(t, http.StatusOK, code)
	var status map[string]bool
	require.NoError(t, json.Unmarshal(out.Data, &status))
	assert.Equal(t, map[string]bool{"OPENAI_API_KEY": false, "SENDGRID_API_KEY": true, "APOLLO_API_KEY": false}, status)

	code, out = perform(t, router, http.MethodPost, "/api/outreach/generate-message", gin.H{"contact_id": "p1"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "CONFIG_ERROR", out.Error.Code)
	assert.Equal(t, "Clé API OpenAI non configurée", out.Error.Message)

	code, out = perform(t, router, http.MethodPost, "/api/outreach/send-email", gin.H{"contact_id": "p1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "required", out.Error.Details["subject"])

	code, _ = perform(t, router, http.MethodPost, "/api/outreach/send-email", gin.H{"contact_id": "p2", "subject": "x", "body": "y"})
	assert.Equal(t, http.StatusNotFound, code)

	code, out = perform(t, router, http.MethodPost, "/api/outreach/send-email", gin.H{"contact_id": "p1", "subject": "x", "body": "y"})
	require.Equal(t, http.StatusOK, code)
	var sent SentEmail
	require.NoError(t, json.Unmarshal(out.Data, &sent))
	assert.Equal(t, "Email envoyé avec succès", sent.Message)
}

func TestHandlerRateLimited(t *testing.T) {
	e := setup(t)
	router := gin.New()
	NewHandler(e.service(Providers{}), middleware.RateLimit(1)).RegisterRoutes(router.Group("/api"))

	code, _ := perform(t, router, http.MethodPost, "/api/outreach/enrich", gin.H{"company_id": "c1"})
	assert.Equal(t, http.StatusInternalServerError, code)

	code, out := perform(t, router, http.MethodPost, "/api/outreach/enrich", gin.H{"company_id": "c1"})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "RATE_LIMITED", out.Error.Code)

	// settings are outside the limited group
	code, _ = perform(t, router, http.MethodGet, "/api/settings/check-apis", nil)
	assert.Equal(t, http.StatusOK, code)
}
