package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
)

const defaultBackupInterval = 24 * time.Hour

// BackupService периодически снимает копию sqlite-файла через VACUUM INTO.
type BackupService struct {
	dbPath string
	cfg    config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{dbPath: dbPath, cfg: cfg, logger: logger}
}

func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("backup service is disabled")
		return
	}

	interval := s.interval()
	s.logger.Info().Dur("interval", interval).Str("path", s.cfg.StoragePath).Msg("backup service started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.PerformBackup(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PerformBackup(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.CleanupOldBackups()
		}
	}
}

func (s *BackupService) interval() time.Duration {
	if s.cfg.Schedule == "" {
		return defaultBackupInterval
	}
	d, err := time.ParseDuration(s.cfg.Schedule)
	if err != nil {
		s.logger.Warn().Err(err).Str("schedule", s.cfg.Schedule).Msg("failed to parse backup schedule, using default 24h")
		return defaultBackupInterval
	}
	return d
}

func (s *BackupService) PerformBackup() error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	backupPath := filepath.Join(s.cfg.StoragePath, name)

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	// VACUUM INTO дает консистентный снимок при живых записях
	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", backupPath)); err != nil {
		s.logger.Warn().Err(err).Msg("VACUUM INTO failed, falling back to file copy")
		return s.copyBackup(backupPath)
	}

	s.logger.Info().Str("path", backupPath).Msg("backup completed")
	return nil
}

func (s *BackupService) copyBackup(backupPath string) error {
	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destination.Close()

	// Копирование файла не атомарно для sqlite: параллельные записи
	// могут испортить снимок
	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", backupPath).Msg("fallback backup completed")
	return nil
}

func (s *BackupService) CleanupOldBackups() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read backup directory for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			os.Remove(filepath.Join(s.cfg.StoragePath, file.Name()))
		}
	}
}
