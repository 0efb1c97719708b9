package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration archivo SQL versionado.
type Migration struct {
	Version  string
	Filename string
	SQL      string
}

// Migrate aplica las migraciones pendientes del dialecto y devuelve las versiones aplicadas.
// Cada migración corre en su propia transacción junto con su registro en schema_migrations.
func Migrate(ctx context.Context, db *DB) ([]string, error) {
	if _, err := db.sql.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	migrations, err := loadMigrations(db.dialect)
	if err != nil {
		return nil, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := runMigration(ctx, db, m); err != nil {
			return done, fmt.Errorf("migration %s: %w", m.Filename, err)
		}
		done = append(done, m.Version)
	}
	return done, nil
}

func loadMigrations(dialect Dialect) ([]Migration, error) {
	dir := path.Join("migrations", string(dialect))
	files, err := fs.Glob(migrationsFS, path.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no hay migraciones en %s", dir)
	}
	sort.Strings(files)

	migrations := make([]Migration, 0, len(files))
	for _, f := range files {
		content, err := migrationsFS.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("leer migración %s: %w", f, err)
		}
		name := path.Base(f)
		migrations = append(migrations, Migration{
			Version:  strings.TrimSuffix(name, ".sql"),
			Filename: name,
			SQL:      string(content),
		})
	}
	return migrations, nil
}

func appliedVersions(ctx context.Context, db *DB) (map[string]bool, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// runMigration ejecuta sentencia por sentencia (el driver MySQL no acepta multi-statements por defecto).
// MySQL hace commit implícito en DDL; el registro queda al final para reintentar si algo falla.
func runMigration(ctx context.Context, db *DB, m Migration) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitStatements(m.SQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}

func splitStatements(script string) []string {
	var out []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
