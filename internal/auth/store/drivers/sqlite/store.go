package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/nusalapor/backend/internal/auth/store/drivers/sqlcommon"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is the SQLite driver. Everything but migrations lives in sqlcommon.
type Store struct {
	*sqlcommon.Store
}

// NewStore opens dsn (a file path or file: URI). Foreign keys and a busy
// timeout are enabled on every pooled connection.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}

	return &Store{Store: sqlcommon.NewStore(db, dialect{})}, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

type dialect struct {
	sqlcommon.QuestionMark
}

// ConflictField parses "UNIQUE constraint failed: principals.email" style
// messages.
func (dialect) ConflictField(err error) (string, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return "", false
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code() != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return "", false
	}

	msg := se.Error()
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return "", true
	}
	col := msg[i+len(marker):]
	if j := strings.IndexAny(col, " ,("); j >= 0 {
		col = col[:j]
	}
	if j := strings.LastIndexByte(col, '.'); j >= 0 {
		col = col[j+1:]
	}
	return col, true
}
