package meals

import (
	"context"
	"errors"
	"net/http"
	"time"

	"meal-tracker/enums"
	"meal-tracker/middlewares"
	"meal-tracker/services/history"
	"meal-tracker/services/meal"
	"meal-tracker/structs"
	"meal-tracker/utils"

	"github.com/gin-gonic/gin"
)

// Pusher copies locally cached days of a user to the remote tier.
type Pusher interface {
	Push(ctx context.Context, userID string) (structs.ReconcileResult, error)
}

type Controller struct {
	registry *meal.Registry
	reader   *history.Reader
	pusher   Pusher
	now      func() time.Time
}

func NewController(registry *meal.Registry, reader *history.Reader, pusher Pusher) *Controller {
	return &Controller{registry: registry, reader: reader, pusher: pusher, now: time.Now}
}

func (m *Controller) today() string {
	return m.now().In(utils.Location()).Format(enums.DateLayout)
}

// DeviceHeader lets an anonymous client keep its day apart from other anonymous clients.
const DeviceHeader = "X-Device-ID"

// store returns the store of the request, loading today when needed. Signed-in
// requests use their session store, anonymous ones the store of their
// X-Device-ID, and anonymous requests without that header one shared store.
func (m *Controller) store(c *gin.Context) (*meal.Store, bool) {
	session, signedIn := middlewares.CurrentSession(c)
	var store *meal.Store
	if deviceID := c.GetHeader(DeviceHeader); !signedIn && deviceID != "" {
		var err error
		if store, err = m.registry.Device(deviceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
	} else {
		store = m.registry.Store(session)
	}
	if _, err := store.Ensure(c.Request.Context(), m.today()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return store, true
}

func (m *Controller) Today(c *gin.Context) {
	store, ok := m.store(c)
	if !ok {
		return
	}
	day, _ := store.Current()
	c.JSON(http.StatusOK, day)
}

func (m *Controller) Toggle(c *gin.Context) {
	store, ok := m.store(c)
	if !ok {
		return
	}
	day, err := store.Toggle(c.Param("meal"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (m *Controller) Note(c *gin.Context) {
	var param structs.NoteParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store, ok := m.store(c)
	if !ok {
		return
	}
	day, err := store.SetNote(c.Param("meal"), param.Note)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, meal.ErrUnknownMeal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// The handlers below must run behind AuthMiddleware.

func (m *Controller) Day(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	detail, err := m.reader.Day(c.Request.Context(), session.UserID, c.Param("date"))
	if errors.Is(err, history.ErrNoRecord) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (m *Controller) History(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	days, err := m.reader.History(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if days == nil {
		days = []structs.DailyMeals{}
	}
	c.JSON(http.StatusOK, days)
}

// Calendar defaults to the current month when year or month is missing.
func (m *Controller) Calendar(c *gin.Context) {
	var param structs.CalendarParam
	if err := c.ShouldBindQuery(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	now := m.now().In(utils.Location())
	if param.Year == 0 {
		param.Year = now.Year()
	}
	if param.Month == 0 {
		param.Month = int(now.Month())
	}

	session, _ := middlewares.CurrentSession(c)
	month, err := m.reader.Month(c.Request.Context(), session.UserID, param.Year, param.Month)
	if errors.Is(err, history.ErrInvalidMonth) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, month)
}

func (m *Controller) Sync(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	result, err := m.pusher.Push(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
