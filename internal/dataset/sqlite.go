package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// readSQLite reads the cluster column of table from a SQLite database opened read-only.
func readSQLite(ctx context.Context, path, table, columnName string) (*column, error) {
	if table == "" {
		return nil, fmt.Errorf("no table configured for SQLite dataset")
	}
	if !identifier.MatchString(table) || !identifier.MatchString(columnName) {
		return nil, fmt.Errorf("table %q and column %q must be plain identifiers", table, columnName)
	}
	// mode=ro does not create missing files, but its error is less helpful than stat's.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	found, err := hasColumn(ctx, db, table, columnName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q in table %q", ErrMissingColumn, columnName, table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT "%s" FROM "%s" ORDER BY rowid`, columnName, table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	col := &column{}
	line := 0
	for rows.Next() {
		line++
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", line, err)
		}
		if !v.Valid {
			return nil, fmt.Errorf("%w: row %d: NULL cluster", ErrInvalidCluster, line)
		}
		col.add(v.String, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return col, nil
}

// hasColumn reports whether table has the named column. A missing table is an error.
func hasColumn(ctx context.Context, db *sql.DB, table, columnName string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info("%s")`, table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	seen := false
	for rows.Next() {
		seen = true
		var (
			cid       int
			name      string
			typ       string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("table info %s: %w", table, err)
		}
		if name == columnName {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	if !seen {
		return false, fmt.Errorf("table %q not found", table)
	}
	return false, nil
}
