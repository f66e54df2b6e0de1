package main

import (
	"go-weather/pkg/resource"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the cache schema migrations of the configured backend",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		store, err := openCacheStore(resource.GetString("app.cache.backend"))
		if err != nil {
			return err
		}
		defer func() { _ = store.close() }()

		return store.migrate()
	},
}
