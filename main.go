package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "mealtracker",
	Short: "Daily meal tracker service",
	Long: `mealtracker records breakfast, lunch and dinner per user and day,
serves the calendar and history views and the calorie calculator over HTTP,
and optionally records change events from RabbitMQ into the activity log.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yml)")
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd)
}
