package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/metrics"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/pkg/idx"
	"github.com/aussiebroadwan/moneymanager/pkg/mailx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
	"github.com/robfig/cron/v3"
)

const (
	DefaultReminderSpec = "0 10 * * *"
	DefaultSummarySpec  = "0 11 * * *"

	reminderSubject = "Daily reminder: Add your income and expenses"
	summarySubject  = "Your daily Expense summary"
)

// RunReport counts what one job run did. Every profile ends up in exactly one
// of Sent, Skipped or Failed.
type RunReport struct {
	Profiles int
	Sent     int
	Skipped  int
	Failed   int
}

// ReminderService mails the daily reminder and the daily expense summary to
// every profile on a cron schedule.
type ReminderService struct {
	Store       store.Store
	Expenses    *LedgerService
	Mailer      mailx.Sender
	Logger      *slog.Logger
	FrontendURL string

	// Location is the zone the schedules and "today" are evaluated in.
	Location     *time.Location
	ReminderSpec string
	SummarySpec  string

	cron *cron.Cron
}

// Start registers both jobs and starts the scheduler. It fails on an invalid
// cron spec.
func (s *ReminderService) Start() error {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	reminderSpec := cmp.Or(s.ReminderSpec, DefaultReminderSpec)
	summarySpec := cmp.Or(s.SummarySpec, DefaultSummarySpec)

	logger := cronLogger{s.Logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(reminderSpec, func() { s.runJob("daily_reminder", s.SendDailyReminders) }); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", reminderSpec, err)
	}
	if _, err := c.AddFunc(summarySpec, func() { s.runJob("expense_summary", s.SendExpenseSummaries) }); err != nil {
		return fmt.Errorf("summary schedule %q: %w", summarySpec, err)
	}

	s.cron = c
	c.Start()
	s.Logger.Info("reminder service started",
		"reminder", reminderSpec,
		"summary", summarySpec,
		"zone", loc.String(),
	)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.Logger.Info("reminder service stopped")
}

func (s *ReminderService) runJob(name string, job func(context.Context) RunReport) {
	ctx := slogx.WithContext(context.Background(), s.Logger.With("job", name))
	ctx = slogx.WithRequestID(ctx, idx.New().String())
	log := slogx.FromContext(ctx)

	log.Info("job started")
	start := time.Now()

	report := job(ctx)

	metrics.RecordJobRun(name, time.Since(start))
	log.Info("job completed",
		"profiles", report.Profiles,
		"sent", report.Sent,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
}

// SendDailyReminders mails the reminder to every profile. A failure for one
// profile is logged and counted; the others still get theirs.
func (s *ReminderService) SendDailyReminders(ctx context.Context) RunReport {
	return s.forEachProfile(ctx, "reminder", func(ctx context.Context, p domain.Profile) (*mailx.Message, error) {
		body, err := render(reminderMail, struct {
			FullName    string
			FrontendURL string
		}{p.FullName, s.FrontendURL})
		if err != nil {
			return nil, err
		}
		return &mailx.Message{To: p.Email, Subject: reminderSubject, HTMLBody: body}, nil
	})
}

// SendExpenseSummaries mails each profile a table of today's expenses.
// Profiles without expenses today are skipped.
func (s *ReminderService) SendExpenseSummaries(ctx context.Context) RunReport {
	today := s.Expenses.Today()

	return s.forEachProfile(ctx, "summary", func(ctx context.Context, p domain.Profile) (*mailx.Message, error) {
		expenses, err := s.Expenses.ListOnDate(ctx, p.ID, today)
		if err != nil {
			return nil, err
		}
		if len(expenses) == 0 {
			return nil, nil
		}

		body, err := render(summaryMail, struct {
			FullName string
			Expenses []domain.Transaction
		}{p.FullName, expenses})
		if err != nil {
			return nil, err
		}
		return &mailx.Message{To: p.Email, Subject: summarySubject, HTMLBody: body}, nil
	})
}

// forEachProfile builds and sends one message per profile. build returning a
// nil message skips the profile.
func (s *ReminderService) forEachProfile(
	ctx context.Context,
	purpose string,
	build func(context.Context, domain.Profile) (*mailx.Message, error),
) RunReport {
	log := slogx.FromContext(ctx)
	var report RunReport

	profiles, err := s.Store.Profiles().ListProfiles(ctx)
	if err != nil {
		log.Error("failed to list profiles", slog.Any("error", err))
		return report
	}
	report.Profiles = len(profiles)

	for _, p := range profiles {
		msg, err := build(ctx, p)
		if err != nil {
			report.Failed++
			log.Error("failed to prepare mail", slog.String("profile_id", p.ID), slog.Any("error", err))
			continue
		}
		if msg == nil {
			report.Skipped++
			continue
		}

		err = s.Mailer.Send(ctx, *msg)
		metrics.RecordMail(purpose, err)
		if err != nil {
			report.Failed++
			log.Error("failed to send mail", slog.String("profile_id", p.ID), slog.Any("error", err))
			continue
		}
		report.Sent++
	}

	return report
}

// cronLogger routes robfig/cron's internal logging into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
