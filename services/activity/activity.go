package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"meal-tracker/enums"
	"meal-tracker/models"
	"meal-tracker/services"
	"meal-tracker/services/rabbitmq"
	"meal-tracker/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var ErrQueueMismatch = errors.New("message sent to the wrong queue")

const mismatchPath = "/api/v1/workerCallback/mismatchQueue"

// Recorder turns day-updated queue messages into activity_log rows.
type Recorder struct {
	// CallbackURL is the base URL told about messages sent to the wrong queue.
	CallbackURL string

	db     *gorm.DB
	queue  string
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewRecorder returns a recorder for messages published to queue, the
// daily-meals queue when empty.
func NewRecorder(db *gorm.DB, queue string, logger logrus.FieldLogger) *Recorder {
	if queue == "" {
		queue = enums.DailyMealsQueue
	}
	return &Recorder{db: db, queue: queue, logger: logger, now: time.Now}
}

// Record stores one activity row for a DayUpdatedMessage body.
func (r *Recorder) Record(body []byte) error {
	var message structs.DayUpdatedMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if message.QueueType != "" && message.QueueType != r.queue {
		return fmt.Errorf("%w: %q", ErrQueueMismatch, message.QueueType)
	}

	properties, _ := json.Marshal(structs.ActivityLogJsonModel{
		Type:    r.queue,
		UserID:  message.UserID,
		Date:    message.Date,
		Eaten:   message.Eaten,
		Result:  true,
		Message: "day updated at " + message.UpdatedAt,
	})
	now := r.now()
	entity := models.ActivityLog{
		CauserID:    message.UserID,
		CauserType:  "user",
		SubjectID:   message.Date,
		SubjectType: "meals",
		LogName:     enums.DayUpdatedLogName,
		Description: "meal-tracker worker log",
		Properties:  string(properties),
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	if err := r.db.Create(&entity).Error; err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// Handle consumes deliveries until the channel closes.
func (r *Recorder) Handle(c *rabbitmq.Connection, q string, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		if err := r.Record(d.Body); err != nil {
			r.logger.WithFields(logrus.Fields{"task": "activity", "queue": q}).Error(err.Error())
			if errors.Is(err, ErrQueueMismatch) {
				r.notifyMismatch(q, d.Body)
			}
			continue
		}
		r.logger.WithFields(logrus.Fields{"task": "activity", "queue": q}).Debug("activity recorded")
	}
}

// Log stores a free-form activity row, such as worker start and stop.
func (r *Recorder) Log(logName string, data interface{}) error {
	properties, err := json.Marshal(data)
	if err != nil {
		return err
	}
	now := r.now()
	entity := models.ActivityLog{
		LogName:     logName,
		Description: "meal-tracker worker log",
		Properties:  string(properties),
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	return r.db.Create(&entity).Error
}

// notifyMismatch posts the misrouted message to the callback API, if one is configured.
func (r *Recorder) notifyMismatch(queue string, body []byte) {
	if r.CallbackURL == "" {
		return
	}
	var message structs.DayUpdatedMessage
	_ = json.Unmarshal(body, &message)
	endpoint := r.CallbackURL + mismatchPath
	payload := structs.MismatchQueueResponse{
		UserID:    message.UserID,
		Date:      message.Date,
		Queue:     queue,
		QueueType: message.QueueType,
	}
	if _, err := services.HttpRequest(http.MethodPost, endpoint, nil, payload); err != nil {
		r.logger.WithFields(logrus.Fields{"task": "activity", "queue": queue, "callback": endpoint}).Error(err.Error())
	}
}
