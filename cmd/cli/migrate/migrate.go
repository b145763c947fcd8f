package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/todoapp/cmd/cli/root"
	"github.com/crucial707/todoapp/internal/config"
	"github.com/crucial707/todoapp/internal/db"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}
	root.GetRoot().AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	database, err := db.Connect(
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass,
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns,
	)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}

	fmt.Println("Migrations applied")
	return nil
}
