package migrate

import (
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/internal/config"
	"github.com/golang-migrate/migrate/v4"
)

const (
	mintMigrationSource = "modules/mint/database/postgresql/migrations"
	mintMigrationTable  = "mint_schema_migrations"
)

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

// resolveDatabaseURL returns databaseURL, or the mint ledger's configured Postgres URL when it is
// empty.
func resolveDatabaseURL(databaseURL string) (*url.URL, error) {
	if databaseURL == "" {
		databaseURL = config.Load().Mint.Postgres.URL
	}
	if databaseURL == "" {
		return nil, errors.New("--database is required when mint.postgres.url is not configured")
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[u.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", u.Scheme)
	}
	return u, nil
}

func newMigrate(databaseURL *url.URL, sourcePath string) (*migrate.Migrate, error) {
	newDatabaseURL := cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {mintMigrationTable}})
	m, err := migrate.New("file://"+sourcePath, newDatabaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = &consoleLogger{
		prefix: fmt.Sprintf("[%s] ", "Mint"),
	}
	return m, nil
}
