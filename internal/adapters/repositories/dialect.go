package repositories

import (
	"fmt"
	"strings"
)

// SQL dialect of the reference database. Queries are shared; only
// bind parameters differ between SQLite ("?") and Postgres ("$1").
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "pgx"
)

// Return the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return SQLite, nil
	case "pgx", "postgres":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Return the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Return a comma separated list of count placeholders starting at from.
func (d Dialect) Placeholders(from, count int) string {
	ph := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ph = append(ph, d.Placeholder(from+i))
	}
	return strings.Join(ph, ",")
}
