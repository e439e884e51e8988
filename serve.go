package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-tracker/controllers/account"
	"meal-tracker/controllers/calories"
	"meal-tracker/controllers/check"
	"meal-tracker/controllers/meals"
	"meal-tracker/database"
	"meal-tracker/router"
	"meal-tracker/services/auth"
	"meal-tracker/services/calorie"
	"meal-tracker/services/history"
	logLib "meal-tracker/services/log"
	"meal-tracker/services/meal"
	"meal-tracker/services/rabbitmq"
	"meal-tracker/services/reconcile"
	"meal-tracker/services/storage"
	"meal-tracker/services/trackLog"
	"meal-tracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const publisherConnName = "meal-tracker"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	envService := utils.EnvService{ConfigFile: configFile}
	envService.InitEnv()
	config := *utils.EnvConfig
	fmt.Println("config loaded...")

	var logService logLib.LogService
	logwr := logService.LoggerInit("api")
	trackLog.LogTrackInit()
	defer logwr.WithFields(logrus.Fields{"task": "main", "name": config.App.Name}).Warn("api shutdown")

	db, err := database.InitDatabasePool(config)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	provider, err := auth.NewService(db, config.Auth.JwtSecret, config.Auth.TokenTTL, logwr)
	if err != nil {
		return err
	}
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go provider.RunSweeper(sweepCtx, time.Minute)

	local := storage.NewLocalTier(config.Storage.LocalPath)
	remote := storage.NewRemoteTier(db, logwr)

	deps := meal.Deps{Local: local, Remote: remote, Queue: config.RabbitMQ.Queue, Logger: logwr}
	connName := ""
	if config.RabbitMQ.Enable == 1 {
		conn := rabbitmq.NewConnection(publisherConnName, config.RabbitMQ.Domain, []string{config.RabbitMQ.Queue})
		if err := conn.Reconnect(); err != nil {
			// the store works without change events
			logwr.WithFields(logrus.Fields{"task": "rabbitmq"}).Error(err.Error())
		} else {
			defer conn.Close()
		}
		deps.Publisher = conn
		connName = publisherConnName
	}

	registry := meal.NewRegistry(deps)
	reconciler := reconcile.NewReconciler(db, local, remote, logwr)

	storeEvents, stopStores := provider.Subscribe()
	go registry.Watch(storeEvents)
	syncEvents, stopSync := provider.Subscribe()
	go reconciler.Watch(syncEvents)
	defer func() {
		stopSync()
		stopStores()
		registry.Wait()
	}()

	gin.SetMode(config.Router.Mode)
	engine := router.Router(router.Controllers{
		Resolver: provider,
		Account:  account.NewController(provider),
		Meals:    meals.NewController(registry, history.NewReader(remote), reconciler),
		Calories: calories.NewController(calorie.NewProfileService(db, logwr)),
		Check:    check.NewController(connName, provider.Sessions, registry),
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Router.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logwr.WithFields(logrus.Fields{"task": "main", "addr": srv.Addr}).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
