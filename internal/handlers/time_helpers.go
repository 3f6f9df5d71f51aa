package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/middleware"
	"github.com/salonsuite/salon-scheduler/internal/timezone"
)

// All request dates/times are interpreted in the salon's configured
// timezone; appointments are stored as absolute instants.

func parseDateIn(tz string, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(tz),
	)
}

func parseDateTimeIn(tz string, dateStr string, timeStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		timezone.Location(tz),
	)
}

func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.MustGet(middleware.ContextUserID).(uint),
		Role: c.MustGet(middleware.ContextUserRole).(string),
	}
}
