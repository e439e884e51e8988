package trackLog

import (
	"fmt"
	"sync"

	"meal-tracker/services/log"

	"github.com/sirupsen/logrus"
)

var (
	logTracker *logrus.Entry
	once       sync.Once
)

func LogTrackInit() {
	once.Do(func() {
		var trackerService log.LogService
		temp := trackerService.LoggerInit("tracker")
		logTracker = temp.WithFields(logrus.Fields{"task": "track"})
	})
}

// Entry returns the tracker entry, initializing it on first use.
func Entry() *logrus.Entry {
	LogTrackInit()
	return logTracker
}

func Info(message string, needWriteLog bool) {
	if needWriteLog {
		Entry().Info(message)
	}
	fmt.Println(message)
}

func Error(message string, needWriteLog bool) {
	if needWriteLog {
		Entry().Error(message)
	}
	fmt.Println(message)
}
