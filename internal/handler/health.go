package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports dependency connectivity plus the state of the event
// pipeline: which sink is configured and how many events are parked in the
// dead letter queue awaiting replay. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, eventSink string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbOK := true
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbOK = false
		}
		redisOK := rdb.Ping(ctx).Err() == nil

		var parked int64
		if redisOK {
			// best-effort — a failed read just omits the count
			parked, _ = events.DeadLetterLength(ctx, rdb)
		}

		status, body := healthResponse(dbOK, redisOK, eventSink, parked)
		c.JSON(status, body)
	}
}

// healthResponse maps dependency state onto the response, degraded (503) when
// either store is unreachable. The parked-event count only appears when there
// is something to look at.
func healthResponse(dbOK, redisOK bool, eventSink string, parked int64) (int, gin.H) {
	status := http.StatusOK
	if !dbOK || !redisOK {
		status = http.StatusServiceUnavailable
	}
	body := gin.H{
		"ok":         status == http.StatusOK,
		"db":         statusWord(dbOK),
		"redis":      statusWord(redisOK),
		"event_sink": eventSink,
	}
	if parked > 0 {
		body["events_parked"] = parked
	}
	return status, body
}

func statusWord(ok bool) string {
	if ok {
		return "connected"
	}
	return "error"
}
