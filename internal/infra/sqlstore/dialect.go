package sqlstore

import (
	"strconv"
	"strings"

	"github.com/runoshun/weekplan/internal/domain"
)

// dialect captures the differences between the supported SQL backends.
type dialect struct {
	driverName  string // database/sql driver name
	numbered    bool   // Placeholders are $1, $2, ... instead of ?
	singleConn  bool   // Restrict the pool to one connection
	pragmaSetup bool   // Apply sqlite pragmas after opening
}

var dialects = map[string]dialect{
	domain.DriverSQLite:   {driverName: "sqlite", singleConn: true, pragmaSetup: true},
	domain.DriverPostgres: {driverName: "postgres", numbered: true},
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
