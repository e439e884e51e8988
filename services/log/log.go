package log

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"time"

	"meal-tracker/utils"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

type LogService struct{}

// LoggerInit builds the logger of one component. Lines go to
// <log.dir>/<date>/<name>.log, plus stdout and the ELK hooks when enabled.
func (l *LogService) LoggerInit(name string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	config := utils.EnvConfig
	if config == nil {
		logger.Out = os.Stdout
		return logger
	}

	if level, err := logrus.ParseLevel(config.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	var writers []io.Writer
	if src, err := openLogFile(config.Log.Dir, name); err != nil {
		fmt.Println(err.Error())
	} else {
		writers = append(writers, src)
	}
	if config.Log.Stdout == 1 || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	logger.Out = io.MultiWriter(writers...)

	if config.Log.ElkEnable == 1 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{config.Log.ElkURL},
		})
		if err != nil {
			logger.Debug(err.Error())
		} else if hook, err := elogrus.NewAsyncElasticHook(client, config.App.Name, logger.Level, config.Log.ElkIndex); err != nil {
			logger.Debug(err.Error())
		} else {
			logger.Hooks.Add(hook)
		}
	}

	if config.Log.LogstashEnable == 1 {
		conn, err := net.Dial("udp", config.Log.LogstashURL)
		if err != nil {
			logger.Debug(err)
		} else {
			hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": config.App.Name, "index": config.Log.LogstashIndex}))
			logger.Hooks.Add(hook)
		}
	}

	return logger
}

func openLogFile(dir, name string) (*os.File, error) {
	if dir == "" {
		dir = "logs"
	}
	logFilePath := path.Join(dir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(logFilePath, 0755); err != nil {
		return nil, err
	}
	fileName := path.Join(logFilePath, name+".log")
	return os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
