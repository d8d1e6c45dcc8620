package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"formatech/internal/config"
	"formatech/internal/metrics"
	"formatech/internal/middleware"
	"formatech/internal/modules/activities"
	"formatech/internal/modules/companies"
	"formatech/internal/modules/contacts"
	"formatech/internal/modules/deals"
	"formatech/internal/modules/export"
	"formatech/internal/modules/outreach"
	"formatech/internal/modules/reminders"
	"formatech/internal/modules/staffing"
	"formatech/internal/modules/stats"
	"formatech/internal/modules/users"
	"formatech/internal/modules/whitepapers"
	"formatech/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type staffingStore interface {
	staffing.Repository
	Close() error
}

// App holds the wired services and the HTTP router.
type App struct {
	cfg      *config.Config
	db       *gorm.DB
	metrics  *metrics.Metrics
	hub      *reminders.Hub
	staffing staffingStore
	engine   *gin.Engine

	Users     *users.Service
	Companies *companies.Service
	Contacts  *contacts.Service
	Deals     *deals.Service
	Reminders *reminders.Service
	Export    *export.Service
}

func New(cfg *config.Config, db *gorm.DB) (*App, error) {
	store, err := openStaffingStore(cfg.StaffingDataDir)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg,
		db:       db,
		metrics:  metrics.New(),
		hub:      reminders.NewHub(cfg.CORSOrigins),
		staffing: store,
	}

	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	outreachRepo := repository.NewOutreachRepository(db)
	whitepaperRepo := repository.NewWhitepaperRepository(db)

	a.Users = users.NewService(userRepo)
	a.Companies = companies.NewService(companyRepo, contactRepo, dealRepo)
	a.Contacts = contacts.NewService(contactRepo, activityRepo)
	a.Deals = deals.NewService(dealRepo, activityRepo, contactRepo)
	a.Reminders = reminders.NewService(dealRepo, reminderRepo, a.hub, a.metrics, cfg.Reminders)
	a.Export = export.NewService(a.Deals, a.Contacts, a.Companies, contactRepo)
	outreachService := outreach.NewService(contactRepo, companyRepo, outreachRepo, Providers(cfg), a.metrics)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(a.metrics),
	)

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	api := r.Group("/api")
	users.NewHandler(a.Users).RegisterRoutes(api)
	companies.NewHandler(a.Companies).RegisterRoutes(api)
	contacts.NewHandler(a.Contacts).RegisterRoutes(api)
	deals.NewHandler(a.Deals).RegisterRoutes(api)
	activities.NewHandler(activities.NewService(activityRepo)).RegisterRoutes(api)
	reminders.NewHandler(a.Reminders, a.hub).RegisterRoutes(api)
	stats.NewHandler(stats.NewService(dealRepo, userRepo)).RegisterRoutes(api)
	export.NewHandler(a.Export).RegisterRoutes(api)
	outreach.NewHandler(outreachService, middleware.RateLimit(cfg.OutreachRatePerMinute)).RegisterRoutes(api)
	whitepapers.NewHandler(whitepapers.NewService(whitepaperRepo)).RegisterRoutes(api)
	staffing.NewHandler(staffing.NewService(store)).RegisterRoutes(api)

	a.engine = r
	return a, nil
}

// Providers builds the outreach clients whose keys are configured.
func Providers(cfg *config.Config) outreach.Providers {
	var p outreach.Providers
	if cfg.OpenAIAPIKey != "" {
		p.Generator = outreach.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.SendgridAPIKey != "" && cfg.SendgridFromEmail != "" {
		p.Sender = outreach.NewSendgridSender(cfg.SendgridAPIKey, cfg.SendgridFromEmail)
	}
	if cfg.ApolloAPIKey != "" {
		p.People = outreach.NewApolloClient(cfg.ApolloBaseURL, cfg.ApolloAPIKey)
	}
	return p
}

func openStaffingStore(dir string) (staffingStore, error) {
	if dir == "" {
		return repository.NewStaffingMemoryStore(), nil
	}
	s, err := repository.OpenStaffingBadgerStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open staffing store: %w", err)
	}
	return s, nil
}

func (a *App) Engine() *gin.Engine { return a.engine }

// Handler is the router behind the CORS layer.
func (a *App) Handler() http.Handler {
	return middleware.CORS(a.cfg.CORSOrigins, a.engine)
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status})
}

// Close disconnects websocket clients and releases the staffing store.
// The database is owned by the caller.
func (a *App) Close() error {
	a.hub.Close()
	return a.staffing.Close()
}
