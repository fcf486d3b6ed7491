package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/nmoretto/resumen/integrations/jsonstore"
	"github.com/nmoretto/resumen/integrations/postgres"
	"github.com/nmoretto/resumen/ledger"
)

var dbURL string

// openStore picks the backing store: PostgreSQL when --db-url (or
// DATABASE_URL) is set, otherwise JSON files under storage.data_dir.
// The returned cleanup closes whatever was opened.
func openStore(ctx context.Context) (ledger.Store, func(), error) {
	url := dbURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}

	if url != "" {
		db, err := postgres.Connect(ctx, url)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("schema creation failed: %w", err)
		}
		return postgres.NewStore(ctx, db), db.Close, nil
	}

	dataDir := viper.GetString("storage.data_dir")
	if dataDir == "" {
		dataDir = "./data"
	}
	store, err := jsonstore.New(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
