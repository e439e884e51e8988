package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"meal-tracker/database"
	"meal-tracker/enums"
	"meal-tracker/services/activity"
	logLib "meal-tracker/services/log"
	"meal-tracker/services/rabbitmq"
	"meal-tracker/services/trackLog"
	"meal-tracker/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume the daily-meals queue into the activity log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return work()
	},
}

func work() error {
	envService := utils.EnvService{ConfigFile: configFile}
	envService.InitEnv()
	config := *utils.EnvConfig
	fmt.Println("config loaded...")

	var logService logLib.LogService
	logwr := logService.LoggerInit("worker")
	trackLog.LogTrackInit()

	db, err := database.InitDatabasePool(config)
	if err != nil {
		return err
	}
	defer db.Close()

	recorder := activity.NewRecorder(db, config.RabbitMQ.Queue, logwr)
	recorder.CallbackURL = config.Server.AppAPI
	if err := recorder.Log(enums.WorkerInitLogName, config.App.Name+" worker init"); err != nil {
		trackLog.Error(err.Error(), true)
	}
	defer func() {
		if err := recorder.Log(enums.WorkerStopLogName, config.App.Name+" worker shutdown"); err != nil {
			trackLog.Error(err.Error(), true)
		}
		logwr.WithFields(logrus.Fields{"task": "main", "name": config.App.Name}).Error("worker shutdown")
	}()

	queue := config.RabbitMQ.Queue
	conn := rabbitmq.NewConnection("meal-tracker-worker", config.RabbitMQ.Domain, []string{queue})
	if err := conn.Connect(); err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.BindQueue(); err != nil {
		return err
	}
	deliveries, err := conn.Consume()
	if err != nil {
		return err
	}
	for q, d := range deliveries {
		go conn.HandleConsumedDeliveries(q, d, recorder.Handle)
	}
	trackLog.Info(fmt.Sprintf(" [ %s ] [ %s ] Waiting for messages. To exit press CTRL+C", config.App.Name, queue), true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
