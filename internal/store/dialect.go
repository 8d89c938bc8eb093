package store

import "fmt"

// Dialect captures the SQL capabilities that differ between supported
// database engines, so call sites never branch on the driver name.
type Dialect struct {
	// AutoIncrementClause completes "id INTEGER PRIMARY KEY <clause>".
	AutoIncrementClause string

	// DateExpr is the SQL expression rendering the timestamp column as a
	// YYYY-MM-DD date string.
	DateExpr string
}

var dialects = map[string]Dialect{
	"sqlite3": {
		AutoIncrementClause: "AUTOINCREMENT",
		DateExpr:            "strftime('%Y-%m-%d', timestamp)",
	},
	"postgres": {
		AutoIncrementClause: "GENERATED BY DEFAULT AS IDENTITY",
		DateExpr:            "to_char(timestamp, 'YYYY-MM-DD')",
	},
}

func dialectFor(driver string) (Dialect, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver: %q", driver)
	}
	return dialect, nil
}
