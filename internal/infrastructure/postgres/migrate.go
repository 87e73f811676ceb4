package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration migración versionada del esquema (NNN_descripcion.sql).
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
}

var migrationName = regexp.MustCompile(`^(\d{3})_(.+)\.sql$`)

// LoadMigrations lee las migraciones embebidas ordenadas por versión.
func LoadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}
	var list []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationName.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		version, _ := strconv.Atoi(matches[1])
		content, err := fs.ReadFile(migrationsFS, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("leer migración %s: %w", entry.Name(), err)
		}
		up, down := parseMigration(string(content))
		list = append(list, Migration{
			Version:     version,
			Description: strings.ReplaceAll(matches[2], "_", " "),
			UpSQL:       up,
			DownSQL:     down,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

// parseMigration separa las secciones "-- +migrate Up" y "-- +migrate Down".
// Sin marcadores, todo el contenido es Up.
func parseMigration(content string) (up, down string) {
	const upMarker, downMarker = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, upMarker)
	downIdx := strings.Index(content, downMarker)
	switch {
	case upIdx == -1:
		return strings.TrimSpace(content), ""
	case downIdx == -1:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), ""
	case upIdx < downIdx:
		return strings.TrimSpace(content[upIdx+len(upMarker) : downIdx]), strings.TrimSpace(content[downIdx+len(downMarker):])
	default:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), strings.TrimSpace(content[downIdx+len(downMarker) : upIdx])
	}
}

// Migrator aplica las migraciones embebidas sobre PostgreSQL.
type Migrator struct {
	pool       *pgxpool.Pool
	log        *logger.Logger
	migrations []Migration
}

// NewMigrator carga las migraciones y asegura la tabla schema_migrations.
func NewMigrator(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) (*Migrator, error) {
	list, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}
	return &Migrator{pool: pool, log: log, migrations: list}, nil
}

// Version versión actual del esquema (0 si no hay migraciones aplicadas).
func (m *Migrator) Version(ctx context.Context) (int, error) {
	var v int
	if err := m.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("consultar versión: %w", err)
	}
	return v, nil
}

// Up aplica las migraciones pendientes, cada una en su propia transacción.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	current, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		m.log.Info().Int("version", mig.Version).Str("description", mig.Description).Msg("aplicando migración")
		err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`, mig.Version, mig.Description)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("migración %d: %w", mig.Version, err)
		}
		applied++
	}
	return applied, nil
}

// Down revierte la última migración aplicada.
func (m *Migrator) Down(ctx context.Context) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		return fmt.Errorf("no hay migraciones para revertir")
	}
	for _, mig := range m.migrations {
		if mig.Version != current {
			continue
		}
		if mig.DownSQL == "" {
			return fmt.Errorf("migración %d sin sección Down", current)
		}
		m.log.Info().Int("version", mig.Version).Msg("revirtiendo migración")
		return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.DownSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version)
			return err
		})
	}
	return fmt.Errorf("migración %d no encontrada", current)
}
