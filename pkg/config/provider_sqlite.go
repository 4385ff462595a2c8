package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chrissnell/sieveanalysis/pkg/migrate"
	_ "modernc.org/sqlite"
)

const defaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens the database and brings its schema up to date
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema, err := migrate.LoadSchema(Migrations, MigrationsDir)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate.New(db, schema, "").Up(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	server, err := s.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	analysis, err := s.GetAnalysisConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis config: %w", err)
	}
	config.Analysis = *analysis

	logCfg, err := s.getLogConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}
	config.Log = *logCfg

	return finalize(config)
}

// GetServerConfig returns the stored server section. Missing rows yield zero
// values that LoadConfig later replaces with defaults.
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	query := `
		SELECT listen_addr, port, cert_file, key_file, enable_cors, max_body_bytes
		FROM server_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var server ServerData
	var listenAddr, cert, key sql.NullString
	var port, maxBody sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&listenAddr, &port, &cert, &key, &server.EnableCORS, &maxBody,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &server, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server config: %w", err)
	}

	server.ListenAddr = listenAddr.String
	server.Cert = cert.String
	server.Key = key.String
	server.Port = int(port.Int64)
	server.MaxBodyBytes = maxBody.Int64

	return &server, nil
}

// GetAnalysisConfig returns the stored analysis section
func (s *SQLiteProvider) GetAnalysisConfig() (*AnalysisData, error) {
	query := `
		SELECT null_policy, interp_kind, allow_extrapolation, curve_points, workers, max_samples
		FROM analysis_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var analysis AnalysisData
	var policy, kind sql.NullString
	var points, workers, maxSamples sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&policy, &kind, &analysis.AllowExtrapolation, &points, &workers, &maxSamples,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &analysis, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis config: %w", err)
	}

	analysis.NullPolicy = policy.String
	analysis.InterpKind = kind.String
	analysis.CurvePoints = int(points.Int64)
	analysis.Workers = int(workers.Int64)
	analysis.MaxSamples = int(maxSamples.Int64)

	return &analysis, nil
}

func (s *SQLiteProvider) getLogConfig() (*LogData, error) {
	query := `
		SELECT debug, file, max_size_mb, max_backups, max_age_days
		FROM log_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var logCfg LogData
	var file sql.NullString
	var maxSize, backups, maxAge sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&logCfg.Debug, &file, &maxSize, &backups, &maxAge,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &logCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query log config: %w", err)
	}

	logCfg.File = file.String
	logCfg.MaxSizeMB = int(maxSize.Int64)
	logCfg.MaxBackups = int(backups.Int64)
	logCfg.MaxAgeDays = int(maxAge.Int64)

	return &logCfg, nil
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to resolve config id: %w", err)
	}

	if err := s.saveServer(tx, configID, &configData.Server); err != nil {
		return fmt.Errorf("failed to save server config: %w", err)
	}
	if err := s.saveAnalysis(tx, configID, &configData.Analysis); err != nil {
		return fmt.Errorf("failed to save analysis config: %w", err)
	}
	if err := s.saveLog(tx, configID, &configData.Log); err != nil {
		return fmt.Errorf("failed to save log config: %w", err)
	}

	if _, err := tx.Exec(`UPDATE configs SET updated_at = datetime('now') WHERE id = ?`, configID); err != nil {
		return fmt.Errorf("failed to touch config: %w", err)
	}

	return tx.Commit()
}

// UpdateAnalysisConfig replaces only the analysis section
func (s *SQLiteProvider) UpdateAnalysisConfig(analysis *AnalysisData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to resolve config id: %w", err)
	}

	if err := s.saveAnalysis(tx, configID, analysis); err != nil {
		return fmt.Errorf("failed to save analysis config: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteProvider) saveServer(tx *sql.Tx, configID int64, server *ServerData) error {
	query := `
		INSERT OR REPLACE INTO server_configs
			(config_id, listen_addr, port, cert_file, key_file, enable_cors, max_body_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID,
		nullString(server.ListenAddr), server.Port, nullString(server.Cert), nullString(server.Key),
		server.EnableCORS, server.MaxBodyBytes,
	)
	return err
}

func (s *SQLiteProvider) saveAnalysis(tx *sql.Tx, configID int64, analysis *AnalysisData) error {
	query := `
		INSERT OR REPLACE INTO analysis_configs
			(config_id, null_policy, interp_kind, allow_extrapolation, curve_points, workers, max_samples)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID,
		nullString(analysis.NullPolicy), nullString(analysis.InterpKind), analysis.AllowExtrapolation,
		analysis.CurvePoints, analysis.Workers, analysis.MaxSamples,
	)
	return err
}

func (s *SQLiteProvider) saveLog(tx *sql.Tx, configID int64, logCfg *LogData) error {
	query := `
		INSERT OR REPLACE INTO log_configs
			(config_id, debug, file, max_size_mb, max_backups, max_age_days)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID,
		logCfg.Debug, nullString(logCfg.File), logCfg.MaxSizeMB, logCfg.MaxBackups, logCfg.MaxAgeDays,
	)
	return err
}

func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM configs WHERE name = ?", defaultConfigName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := tx.Exec("INSERT INTO configs (name) VALUES (?)", defaultConfigName)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
