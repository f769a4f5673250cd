package services

import (
	"context"
	"fmt"
	"time"

	"carwash-backend/metrics"
	"carwash-backend/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Board is the read side of the ledger the scheduler needs.
type Board interface {
	Services() []models.ServiceRecord
}

// ReportScheduler generates the daily report on a cron schedule and sends it
// to the owner.
type ReportScheduler struct {
	board     Board
	assistant Assistant
	notifier  Notifier
	owner     string
	log       *zap.Logger
	cron      *cron.Cron
}

func NewReportScheduler(board Board, assistant Assistant, notifier Notifier, ownerPhone string, log *zap.Logger) *ReportScheduler {
	return &ReportScheduler{
		board:     board,
		assistant: assistant,
		notifier:  notifier,
		owner:     ownerPhone,
		log:       log.Named("report_scheduler"),
		cron:      cron.New(),
	}
}

func (s *ReportScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.SendDailyReport(ctx)
	}); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("daily report scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop waits for a running report to finish.
func (s *ReportScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SendDailyReport builds the report from the current board and delivers it.
// The text is returned even if delivery fails.
func (s *ReportScheduler) SendDailyReport(ctx context.Context) string {
	services := s.board.Services()
	report := s.assistant.DailyReport(ctx, metrics.Compute(services), services)

	if s.owner == "" {
		s.log.Info("no owner phone configured, daily report not sent")
		return report
	}
	if err := s.notifier.Send(ctx, s.owner, report); err != nil {
		s.log.Error("failed to deliver daily report", zap.Error(err))
	}
	return report
}
