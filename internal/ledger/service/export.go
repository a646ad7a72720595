package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/export"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/metrics"
	"github.com/aussiebroadwan/moneymanager/pkg/mailx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
)

// Report is a rendered workbook ready to download or attach.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService turns the current month of a ledger into an xlsx report.
type ExportService struct {
	Incomes  *LedgerService
	Expenses *LedgerService
	Mailer   mailx.Sender
}

func (s *ExportService) ledgerFor(kind domain.Kind) *LedgerService {
	if kind == domain.KindIncome {
		return s.Incomes
	}
	return s.Expenses
}

// Build renders the current month of the kind ledger of profileID.
func (s *ExportService) Build(ctx context.Context, profileID string, kind domain.Kind) (Report, error) {
	txs, err := s.ledgerFor(kind).ListCurrentMonth(ctx, profileID)
	if err != nil {
		return Report{}, err
	}

	data, err := export.Workbook(kind, txs)
	if err != nil {
		return Report{}, fmt.Errorf("render %s workbook: %w", kind, err)
	}

	return Report{
		Filename:    export.FileName(kind),
		ContentType: export.ContentType,
		Data:        data,
	}, nil
}

// Email mails the report for kind to the profile's own address.
func (s *ExportService) Email(ctx context.Context, profile domain.PublicProfile, kind domain.Kind) error {
	log := slogx.FromContext(ctx)

	report, err := s.Build(ctx, profile.ID, kind)
	if err != nil {
		return err
	}

	body, err := render(exportMail, struct {
		FullName string
		Kind     string
	}{profile.FullName, kind.String()})
	if err != nil {
		return err
	}

	err = s.Mailer.Send(ctx, mailx.Message{
		To:       profile.Email,
		Subject:  exportSubject(kind),
		HTMLBody: body,
		Attachments: []mailx.Attachment{{
			Filename:    report.Filename,
			ContentType: report.ContentType,
			Data:        report.Data,
		}},
	})
	metrics.RecordMail("export", err)
	if err != nil {
		log.Error("failed to mail report", slog.String("kind", kind.String()), slog.Any("error", err))
		return err
	}

	return nil
}

func exportSubject(kind domain.Kind) string {
	if kind == domain.KindIncome {
		return "Your Income Excel Report"
	}
	return "Your Expense Excel Report"
}
