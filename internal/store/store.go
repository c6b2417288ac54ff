package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"strings"

	"hourkeep/internal/db"

	sq "github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// queries carries what every repository needs to build and run SQL for
// the connected dialect.
type queries struct {
	db      *sql.DB
	dialect db.Dialect
}

func newQueries(database *db.Database) queries {
	return queries{db: database.DB, dialect: database.Dialect}
}

func (q queries) psql() sq.StatementBuilderType {
	if q.dialect == db.Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (q queries) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Migrate creates any missing tables for the connected dialect.
func Migrate(ctx context.Context, database *db.Database) error {
	file := "schema/sqlite.sql"
	if database.Dialect == db.Postgres {
		file = "schema/postgres.sql"
	}

	schema, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	for _, statement := range strings.Split(string(schema), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := database.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", firstLine(statement), err)
		}
	}

	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// jsonColumn stores a value as a JSON text column.
type jsonColumn[T any] struct {
	V T
}

func (c jsonColumn[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(c.V)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c *jsonColumn[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		var zero T
		c.V = zero
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into a json column", src)
	}
	return json.Unmarshal(data, &c.V)
}

// AssessmentStore bundles the repositories the assessment flow writes to.
type AssessmentStore struct {
	*ProgressRepository
	*ResultRepository
}

func NewAssessmentStore(database *db.Database) *AssessmentStore {
	return &AssessmentStore{
		ProgressRepository: NewProgressRepository(database),
		ResultRepository:   NewResultRepository(database),
	}
}
