package units

import (
	"context"

	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
)

// logQueueStats reports the job counts of a started queue.
func logQueueStats(ctx context.Context, q amboy.Queue, lvl level.Priority, msg string) {
	if q == nil || !q.Info().Started {
		return
	}

	stats := q.Stats(ctx)
	grip.Log(lvl, message.Fields{
		"message": msg,
		"jobs":    stats.Total,
		"stats":   stats,
	})
}
