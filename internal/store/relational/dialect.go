package relational

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/roach88/tracklist/internal/profile"
)

// ErrUnsupportedDialect is returned for relational profiles with no bundled
// driver.
var ErrUnsupportedDialect = errors.New("unsupported relational dialect")

// Dialector returns the gorm dialector for a relational profile and the
// connection URI taken from its binding. A leading "jdbc:" is accepted and
// dropped.
func Dialector(p profile.Profile, uri string) (gorm.Dialector, error) {
	uri = strings.TrimPrefix(strings.TrimSpace(uri), "jdbc:")
	if uri == "" {
		return nil, fmt.Errorf("%s: empty connection uri", p)
	}

	switch p {
	case profile.Postgres:
		return postgres.Open(uri), nil
	case profile.MySQL:
		dsn, err := mysqlDSN(uri)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case profile.SQLServer:
		return sqlserver.Open(uri), nil
	case profile.Oracle:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, p)
	default:
		return nil, fmt.Errorf("%w: %s is not a relational profile", ErrUnsupportedDialect, p)
	}
}

// mysqlDSN converts a mysql:// URL into the driver's DSN form. Anything that
// is not a URL is assumed to be a DSN already.
func mysqlDSN(uri string) (string, error) {
	if !strings.HasPrefix(uri, "mysql://") {
		return uri, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	for key, values := range u.Query() {
		if len(values) > 0 {
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}
