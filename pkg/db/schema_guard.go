package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch is returned when a table does not have the expected shape
var ErrSchemaMismatch = errors.New("schema mismatch")

// Column is an expected column. DataType matches as a prefix, so "varchar"
// accepts varchar(191); an empty DataType accepts any type.
type Column struct {
	Name     string
	DataType string
	Nullable bool
}

// Table is the expected structure of one table
type Table struct {
	Name    string
	Columns []Column
}

// SchemaGuard checks at startup that the tables the repositories rely on exist
type SchemaGuard struct {
	db *sql.DB
}

func NewSchemaGuard(db *sql.DB) *SchemaGuard {
	return &SchemaGuard{db: db}
}

// Check validates one table against INFORMATION_SCHEMA of the current database
func (g *SchemaGuard) Check(ctx context.Context, table Table) error {
	query := `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	rows, err := g.db.QueryContext(ctx, query, table.Name)
	if err != nil {
		return fmt.Errorf("failed to read schema of %s: %w", table.Name, err)
	}
	defer rows.Close()

	actual := make(map[string]Column)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("failed to scan column of %s: %w", table.Name, err)
		}
		actual[name] = Column{Name: name, DataType: strings.ToLower(dataType), Nullable: nullable == "YES"}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read schema of %s: %w", table.Name, err)
	}

	if len(actual) == 0 {
		return fmt.Errorf("%w: table %s does not exist", ErrSchemaMismatch, table.Name)
	}

	for _, want := range table.Columns {
		got, ok := actual[want.Name]
		if !ok {
			return fmt.Errorf("%w: %s.%s is missing", ErrSchemaMismatch, table.Name, want.Name)
		}
		if !strings.HasPrefix(got.DataType, strings.ToLower(want.DataType)) {
			return fmt.Errorf("%w: %s.%s is %s, expected %s", ErrSchemaMismatch, table.Name, want.Name, got.DataType, want.DataType)
		}
		if want.Nullable && !got.Nullable {
			return fmt.Errorf("%w: %s.%s must be nullable", ErrSchemaMismatch, table.Name, want.Name)
		}
	}

	return nil
}

// CheckAll stops at the first table that does not match
func (g *SchemaGuard) CheckAll(ctx context.Context, tables []Table) error {
	for _, t := range tables {
		if err := g.Check(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
