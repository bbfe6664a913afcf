// Package processor implements the bulk "process every item" operation.
//
// ProcessAll takes a snapshot of all item ids, schedules one unit of work per
// id on the shared worker pool and waits for every unit to report back before
// it aggregates anything:
//
//	Scheduled -> Running -> Completed(item) | Absent | Failed(err)
//
// Each unit owns exactly one item and sends exactly one outcome on a channel
// private to its call, sized to the number of scheduled units so no unit ever
// blocks on delivery. The caller is the only reader, which makes the channel
// the single synchronisation point: no shared slices, counters or locks.
//
// The result is all-or-nothing. Items that vanished from the store are left
// out silently; any failed unit fails the whole call with one combined error.
package processor
