package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// BookingExporter выбирает бронирования, пересекающие период отчета.
type BookingExporter interface {
	BookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

// ExportJob — заявка на выгрузку бронирований за период.
type ExportJob struct {
	ID        string    `json:"id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportWorker рендерит заявки из очереди в xlsx-файлы.
type ExportWorker struct {
	store       BookingExporter
	exportDir   string
	retryPolicy RetryPolicy
	queue       chan ExportJob
	logger      *zerolog.Logger
}

func NewExportWorker(store BookingExporter, exportDir string, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		store:       store,
		exportDir:   exportDir,
		retryPolicy: retry.withDefaults(),
		queue:       make(chan ExportJob, models.ExportQueueSize),
		logger:      logger,
	}
}

// Enqueue ставит заявку в очередь и возвращает её идентификатор.
func (w *ExportWorker) Enqueue(job ExportJob) (string, error) {
	if !job.To.After(job.From) {
		return "", errors.New("export period end must be after start")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	select {
	case w.queue <- job:
		w.logger.Info().Str("job_id", job.ID).Time("from", job.From).Time("to", job.To).Msg("export job enqueued")
		return job.ID, nil
	default:
		return "", errors.New("export queue is full")
	}
}

// Start запускает основной цикл; останавливается по ctx.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.queue:
			w.processJob(ctx, job)
		}
	}
}

func (w *ExportWorker) processJob(ctx context.Context, job ExportJob) {
	for attempt := 1; ; attempt++ {
		path, err := w.renderExport(ctx, job)
		if err == nil {
			metrics.IncExport("success")
			w.logger.Info().Str("job_id", job.ID).Str("path", path).Msg("export completed")
			return
		}

		if attempt >= w.retryPolicy.MaxRetries {
			metrics.IncExport("failure")
			w.logger.Error().Err(err).Str("job_id", job.ID).Int("attempts", attempt).Msg("export failed")
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(err).Str("job_id", job.ID).Dur("retry_in", delay).Msg("export attempt failed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (w *ExportWorker) renderExport(ctx context.Context, job ExportJob) (string, error) {
	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	bookings, err := w.store.BookingsBetween(ctx, job.From, job.To)
	if err != nil {
		return "", fmt.Errorf("failed to load bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		job.From.Format("02.01.2006"), job.To.Format("02.01.2006")))

	headers := []string{"ID", "Вещь", "Арендатор", "Начало", "Окончание", "Статус"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(sheetName, "A2", "F2", headerStyle)

	for i, booking := range bookings {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.BookerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.Status)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 18)
	_ = f.SetColWidth(sheetName, "F", "F", 12)
	_ = f.MergeCell(sheetName, "A1", "F1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s_%s.xlsx",
		job.From.Format("2006-01-02"), job.To.Format("2006-01-02"), shortID(job.ID))
	filePath := filepath.Join(w.exportDir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("failed to save export file: %w", err)
	}
	return filePath, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
