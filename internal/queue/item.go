package queue

import "time"

// Item is one unit of work placed on the queue. ItemID labels the unit for
// logs and metrics; Run does the work and must deliver its own outcome to
// whoever scheduled it.
type Item struct {
	ItemID int64
	Run    func()

	// Enqueued is stamped by TaskQueue.Enqueue.
	Enqueued time.Time
}
