package utils

import (
	"fmt"
	"strings"
	"time"

	"meal-tracker/structs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var EnvConfig *structs.EnviromentModel

type EnvService struct {
	// ConfigFile overrides the config.yml lookup in the working directory.
	ConfigFile string
}

func (e *EnvService) InitEnv() {
	e.loadConfig()
	e.configToModel()
}

func (e *EnvService) loadConfig() {
	// .env is optional, it only seeds the process environment
	_ = godotenv.Load()

	e.setDefaults()
	if e.ConfigFile != "" {
		viper.SetConfigFile(e.ConfigFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// config.yml exists but could not be parsed
			panic(fmt.Errorf("Fatal error config file: %s \n", err))
		}
	}
}

func (e *EnvService) setDefaults() {
	viper.SetDefault("app.name", "meal-tracker")
	viper.SetDefault("app.timezone", "Europe/Istanbul")
	viper.SetDefault("database.client", "sqlite3")
	viper.SetDefault("database.name", "meal-tracker.db")
	viper.SetDefault("database.max_idle", 5)
	viper.SetDefault("database.max_open_conn", 20)
	viper.SetDefault("database.max_life_time", "1h")
	viper.SetDefault("rabbitmq.enable", 0)
	viper.SetDefault("rabbitmq.queue", "daily-meals")
	viper.SetDefault("log.dir", "logs")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.stdout", 1)
	viper.SetDefault("router.port", 8080)
	viper.SetDefault("router.mode", "release")
	viper.SetDefault("auth.token_ttl", "72h")
	viper.SetDefault("storage.local_path", "data/local")
}

func (e *EnvService) configToModel() {
	var config structs.EnviromentModel
	config.App.Name = viper.GetString("app.name")
	config.App.Timezone = viper.GetString("app.timezone")
	config.Server.AppAPI = viper.GetString("server.app_api")
	config.Database.Client = viper.GetString("database.client")
	config.Database.Host = viper.GetString("database.host")
	config.Database.User = viper.GetString("database.user")
	config.Database.Password = viper.GetString("database.password")
	config.Database.Db = viper.GetString("database.name")
	config.Database.MaxIdle = uint(viper.GetInt("database.max_idle"))
	config.Database.MaxOpenConn = uint(viper.GetInt("database.max_open_conn"))
	config.Database.MaxLifeTime = viper.GetString("database.max_life_time")
	config.Database.Params = viper.GetString("database.params")
	config.Database.Port = viper.GetString("database.port")
	config.Database.LogEnable = viper.GetInt("database.log_enable")
	config.RabbitMQ.Enable = viper.GetInt("rabbitmq.enable")
	config.RabbitMQ.Domain = viper.GetString("rabbitmq.domain")
	config.RabbitMQ.Queue = viper.GetString("rabbitmq.queue")
	config.Log.Dir = viper.GetString("log.dir")
	config.Log.Level = viper.GetString("log.level")
	config.Log.Stdout = viper.GetInt("log.stdout")
	config.Log.ElkEnable = viper.GetInt("log.elk.enable")
	config.Log.ElkIndex = viper.GetString("log.elk.index")
	config.Log.ElkURL = viper.GetString("log.elk.url")
	config.Log.LogstashEnable = viper.GetInt("log.logstash.enable")
	config.Log.LogstashURL = viper.GetString("log.logstash.url")
	config.Log.LogstashIndex = viper.GetString("log.logstash.index")
	config.Router.Port = viper.GetInt("router.port")
	config.Router.Mode = viper.GetString("router.mode")
	config.Auth.JwtSecret = viper.GetString("auth.jwt_secret")
	config.Auth.TokenTTL = viper.GetDuration("auth.token_ttl")
	config.Storage.LocalPath = viper.GetString("storage.local_path")
	EnvConfig = &config
}

// Location returns the configured time zone, UTC when it cannot be loaded.
func Location() *time.Location {
	if EnvConfig == nil || EnvConfig.App.Timezone == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(EnvConfig.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
