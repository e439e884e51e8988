package log

import (
	"os"
	"path"
	"testing"
	"time"

	"meal-tracker/structs"
	"meal-tracker/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInitWritesComponentFile(t *testing.T) {
	dir := t.TempDir()
	previous := utils.EnvConfig
	defer func() { utils.EnvConfig = previous }()

	var config structs.EnviromentModel
	config.App.Name = "meal-tracker"
	config.Log.Dir = dir
	config.Log.Level = "debug"
	utils.EnvConfig = &config

	var logService LogService
	logger := logService.LoggerInit("meal")
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	logger.WithFields(logrus.Fields{"task": "meal"}).Info("persist done")

	content, err := os.ReadFile(path.Join(dir, time.Now().Format("2006-01-02"), "meal.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "persist done")
	assert.Contains(t, string(content), "task=meal")
}

func TestLoggerInitWithoutConfig(t *testing.T) {
	previous := utils.EnvConfig
	defer func() { utils.EnvConfig = previous }()
	utils.EnvConfig = nil

	var logService LogService
	logger := logService.LoggerInit("anything")
	assert.Equal(t, os.Stdout, logger.Out)
}
