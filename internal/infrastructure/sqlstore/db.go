// Package sqlstore implementa los repositorios sobre database/sql para MySQL y SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // driver "mysql"
	_ "github.com/mattn/go-sqlite3"    // driver "sqlite3"
)

// Dialect dialecto SQL soportado por el paquete.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite3"
)

// forUpdate cláusula de bloqueo de fila. SQLite bloquea la base completa al iniciar
// la tx (BEGIN IMMEDIATE vía _txlock=immediate), así que no la necesita.
func (d Dialect) forUpdate() string {
	if d == MySQL {
		return " FOR UPDATE"
	}
	return ""
}

// txOptions READ COMMITTED en MySQL; SQLite usa su modo por defecto (serializable).
func (d Dialect) txOptions() *sql.TxOptions {
	if d == MySQL {
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return nil
}

// Querier abstrae *sql.DB y *sql.Tx para que los repos funcionen con pool o dentro de una tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB conexión compartida más su dialecto.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

// Open abre el pool para el driver indicado ("mysql" o "sqlite3") y verifica la conexión.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	dialect := Dialect(driver)
	if dialect != MySQL && dialect != SQLite {
		return nil, fmt.Errorf("sqlstore: driver no soportado: %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", driver, err)
	}

	switch dialect {
	case MySQL:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	case SQLite:
		// Un solo escritor: las tx se serializan en el pool en vez de pelear por el lock del archivo
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &DB{sql: db, dialect: dialect}, nil
}

// New envuelve un *sql.DB ya abierto.
func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{sql: db, dialect: dialect}
}

// SQL devuelve el pool subyacente.
func (d *DB) SQL() *sql.DB { return d.sql }

// Dialect devuelve el dialecto del pool.
func (d *DB) Dialect() Dialect { return d.dialect }

// Ping verifica la conexión (usado por /health).
func (d *DB) Ping(ctx context.Context) error { return d.sql.PingContext(ctx) }

// Close cierra el pool.
func (d *DB) Close() error { return d.sql.Close() }
