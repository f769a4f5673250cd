package metrics

import (
	"fmt"

	"carwash-backend/models"

	"go.uber.org/zap"
)

const (
	FirstHour = 8
	LastHour  = 20
)

type HourBucket struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Cars  int    `json:"cars"`
}

// Traffic counts intakes per opening hour. Entries outside opening hours are
// dropped; entries whose time cannot be read are logged and skipped.
func Traffic(services []models.ServiceRecord, log *zap.Logger) []HourBucket {
	if log == nil {
		log = zap.NewNop()
	}

	buckets := make([]HourBucket, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		buckets = append(buckets, HourBucket{Hour: h, Label: HourLabel(h)})
	}

	for _, s := range services {
		hour, err := ParseHour(s.EntryTime)
		if err != nil {
			log.Warn("skipping ticket with unreadable entry time",
				zap.String("ticket", s.ID),
				zap.String("entry_time", s.EntryTime))
			continue
		}
		if hour < FirstHour || hour > LastHour {
			continue
		}
		buckets[hour-FirstHour].Cars++
	}
	return buckets
}

// HourLabel renders an hour of the day as "8AM", "12PM", "3PM".
func HourLabel(hour int) string {
	switch {
	case hour > 12:
		return fmt.Sprintf("%dPM", hour-12)
	case hour == 12:
		return "12PM"
	default:
		return fmt.Sprintf("%dAM", hour)
	}
}
