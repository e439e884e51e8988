package check

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"meal-tracker/services/rabbitmq"
	"meal-tracker/services/trackLog"

	"github.com/gin-gonic/gin"
)

type AliveResponse struct {
	Success  bool      `json:"success"`
	Messsage string    `json:"message"`
	Info     CheckInfo `json:"info"`
}

type CheckInfo struct {
	Queues     []string `json:"queue,omitempty"`
	RoutineNum int      `json:"routine_num"`
	Sessions   int      `json:"sessions"`
	Stores     int      `json:"stores"`
}

// Counter reports a number of live objects, such as sessions or stores.
type Counter interface {
	Len() int
}

type Controller struct {
	// connection name in the rabbitmq pool, empty when change events are disabled
	connName string
	sessions func() int
	stores   Counter
}

func NewController(connName string, sessions func() int, stores Counter) *Controller {
	return &Controller{connName: connName, sessions: sessions, stores: stores}
}

func (h *Controller) CheckAlive(c *gin.Context) {
	resMsg := "main thread alive"
	checkInfo := CheckInfo{}
	if h.connName != "" {
		if msg := inspectRabbit(h.connName, &checkInfo); msg != "" {
			resMsg = msg
		}
	}

	if h.sessions != nil {
		checkInfo.Sessions = h.sessions()
	}
	if h.stores != nil {
		checkInfo.Stores = h.stores.Len()
	}
	// goroutine count
	checkInfo.RoutineNum = runtime.NumGoroutine()
	trackLog.Info(fmt.Sprintf("goroutine number: %d\n", checkInfo.RoutineNum), false)

	c.JSON(http.StatusOK, AliveResponse{true, resMsg, checkInfo})
}

// inspectRabbit checks the pooled connection and reconnects it when lost.
func inspectRabbit(name string, checkInfo *CheckInfo) string {
	rabbitConn := rabbitmq.GetConnection(name)
	if rabbitConn == nil {
		resMsg := "Get connection pool fail"
		trackLog.Error(resMsg, false)
		return resMsg
	}

	resMsg := ""
	if rabbitConn.Conn == nil {
		resMsg = "Api detect Connection lost, Reconnecting.."
		trackLog.Error(resMsg, false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
			return resMsg
		}
	}
	if rabbitConn.Channel != nil {
		for _, q := range rabbitConn.Queues {
			queue, queueErr := rabbitConn.Channel.QueueInspect(q)
			if queueErr != nil {
				resMsg = fmt.Sprintf("Queue[%s] error: %s\n", q, queueErr.Error())
				trackLog.Error(resMsg, false)
				continue
			}
			queueJson, _ := json.Marshal(queue)
			checkInfo.Queues = append(checkInfo.Queues, string(queueJson))
			trackLog.Info(fmt.Sprintf("Queue[%s]: %s\n", q, queueJson), false)
		}
	} else {
		resMsg = "Channel get fail"
		trackLog.Error(resMsg, false)
	}

	// give the close notifier a second to report a lost connection
	select {
	case err := <-rabbitConn.ApiErr:
		trackLog.Error(fmt.Sprintf("api error: %s\n", err.Error()), false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s\n", err.Error())
			trackLog.Error(resMsg, false)
		}
	case <-time.After(time.Second * 1):
	}
	return resMsg
}
