package main

import (
	"fmt"

	"meal-tracker/database"
	"meal-tracker/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envService := utils.EnvService{ConfigFile: configFile}
		envService.InitEnv()

		db, err := database.InitDatabasePool(*utils.EnvConfig)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Println("migrate done")
		return nil
	},
}
