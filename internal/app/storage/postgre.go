package storage

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/vancho-go/dmarcPTR/internal/app/models"
	"time"
)

var exportColumns = []string{
	"header_from", "source_ip", "count", "spf", "dkim", "disposition", "org_name", "effective_date",
}

type Storage struct {
	DB *sql.DB
}

func Initialize(uri string) (*Storage, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize: error opening database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("initialize: error verifing database connection: %w", err)
	}

	err = createIfNotExists(db)
	if err != nil {
		return nil, fmt.Errorf("initialize: error creating database structure: %w", err)
	}
	return &Storage{DB: db}, nil
}

func createIfNotExists(db *sql.DB) error {
	createTablesQuery := `
		CREATE TABLE IF NOT EXISTS aggregate_report_export (
			id SERIAL PRIMARY KEY,
			header_from VARCHAR(255) NOT NULL,
			source_ip INET NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			spf VARCHAR(32) NOT NULL,
			dkim VARCHAR(32) NOT NULL,
			disposition VARCHAR(32) NOT NULL,
			org_name VARCHAR(255) NOT NULL,
			effective_date DATE NOT NULL,
			UNIQUE(header_from, source_ip, spf, dkim, disposition, org_name, effective_date)
		);
		CREATE INDEX IF NOT EXISTS idx_export_domain_date ON aggregate_report_export(header_from, effective_date);`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("createIfNotExists: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(createTablesQuery)
	if err != nil {
		return fmt.Errorf("createIfNotExists: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("createIfNotExists: %w", err)
	}
	return nil
}

// UploadExport bulk loads export lines. Lines already stored are skipped.
func (s *Storage) UploadExport(ctx context.Context, export []models.ExportItem) error {

	conn, err := stdlib.AcquireConn(s.DB)
	if err != nil {
		return fmt.Errorf("uploadExport: error acquiring conn: %w", err)
	}
	defer stdlib.ReleaseConn(s.DB, conn)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("uploadExport: error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		CREATE TEMP TABLE temp_export (
			header_from text, source_ip inet, count integer, spf text, dkim text,
			disposition text, org_name text, effective_date date
		) ON COMMIT DROP`)
	if err != nil {
		return fmt.Errorf("uploadExport: error creating temp table: %w", err)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"temp_export"},
		exportColumns,
		pgx.CopyFromRows(exportToPgxRows(export)),
	)
	if err != nil {
		return fmt.Errorf("uploadExport: error during COPY to temp table: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO aggregate_report_export (header_from, source_ip, count, spf, dkim, disposition, org_name, effective_date)
		SELECT header_from, source_ip, count, spf, dkim, disposition, org_name, effective_date FROM temp_export
		ON CONFLICT (header_from, source_ip, spf, dkim, disposition, org_name, effective_date) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("uploadExport: error inserting data from temp table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("uploadExport: error committing transaction: %w", err)
	}

	return nil
}

func exportToPgxRows(export []models.ExportItem) [][]interface{} {
	rows := make([][]interface{}, 0, len(export))
	for _, item := range export {
		rows = append(rows, []interface{}{
			item.HeaderFrom,
			item.SourceIP,
			item.Count,
			item.SPF,
			item.DKIM,
			item.Disposition,
			item.OrgName,
			dateOnly(item.EffectiveDate),
		})
	}
	return rows
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetExport returns the export lines of a domain for one day.
func (s *Storage) GetExport(ctx context.Context, domain string, date time.Time) ([]models.ExportItem, error) {
	query := `
		SELECT header_from, host(source_ip), count, spf, dkim, disposition, org_name, effective_date
		FROM aggregate_report_export
		WHERE header_from = $1 AND effective_date = $2
		ORDER BY count DESC, source_ip;`

	rows, err := s.DB.QueryContext(ctx, query, domain, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("getExport: error selecting export: %w", err)
	}
	defer rows.Close()

	export := []models.ExportItem{}
	for rows.Next() {
		var item models.ExportItem
		err := rows.Scan(
			&item.HeaderFrom,
			&item.SourceIP,
			&item.Count,
			&item.SPF,
			&item.DKIM,
			&item.Disposition,
			&item.OrgName,
			&item.EffectiveDate,
		)
		if err != nil {
			return nil, fmt.Errorf("getExport: error scanning row: %w", err)
		}
		export = append(export, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("getExport: rows error: %w", err)
	}
	return export, nil
}
