package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"formatech/internal/config"
	"formatech/internal/domain"
	"formatech/internal/metrics"
	"formatech/internal/pkg/logger"
	"formatech/internal/repository"
)

var ErrNotFound = errors.New("reminder not found")

type DealSource interface {
	All(ctx context.Context) ([]domain.Deal, error)
}

type ReminderRepository interface {
	Sync(ctx context.Context, fired []domain.Reminder) (upserted, removed int64, err error)
	List(ctx context.Context, isRead *bool) ([]domain.Reminder, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
}

// Result summarizes one evaluation run.
type Result struct {
	Fired   int   `json:"fired"`
	Removed int64 `json:"removed"`
	Unread  int64 `json:"unread"`
}

type Service struct {
	deals     DealSource
	reminders ReminderRepository
	hub       *Hub
	metrics   *metrics.Metrics
	cfg       config.ReminderConfig
	now       func() time.Time

	// serializes evaluations inside this process
	mu sync.Mutex
}

// NewService wires the evaluator. hub and m may be nil.
func NewService(deals DealSource, reminders ReminderRepository, hub *Hub, m *metrics.Metrics, cfg config.ReminderConfig) *Service {
	return &Service{
		deals:     deals,
		reminders: reminders,
		hub:       hub,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Evaluate re-runs every rule and syncs the reminders table with what fires.
func (s *Service) Evaluate(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deals, err := s.deals.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load deals: %w", err)
	}
	fired := Evaluate(deals, s.now(), s.cfg)

	_, removed, err := s.reminders.Sync(ctx, fired)
	if err != nil {
		return Result{}, fmt.Errorf("sync reminders: %w", err)
	}
	unread, err := s.reminders.CountUnread(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count reminders: %w", err)
	}

	byType := make(map[string]int)
	for _, r := range fired {
		byType[string(r.Type)]++
	}
	s.metrics.ObserveReminders(byType, removed, unread)
	s.push(unread)

	logger.Debug(ctx, "reminders evaluated", "fired", len(fired), "removed", removed, "unread", unread)
	return Result{Fired: len(fired), Removed: removed, Unread: unread}, nil
}

func (s *Service) List(ctx context.Context, isRead *bool) ([]domain.Reminder, error) {
	if _, err := s.Evaluate(ctx); err != nil {
		return nil, err
	}
	return s.reminders.List(ctx, isRead)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	res, err := s.Evaluate(ctx)
	if err != nil {
		return 0, err
	}
	return res.Unread, nil
}

// UnreadCount reads the current count without evaluating.
func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	return s.reminders.CountUnread(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	if err := s.reminders.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.reminders.MarkAllRead(ctx)
	if err != nil {
		return 0, err
	}
	s.refresh(ctx)
	return n, nil
}

func (s *Service) refresh(ctx context.Context) {
	unread, err := s.reminders.CountUnread(ctx)
	if err != nil {
		logger.Warn(ctx, "count unread reminders", "error", err)
		return
	}
	s.push(unread)
}

func (s *Service) push(unread int64) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(Event{Type: EventUnreadCount, Count: unread})
}
