package model

// LibraryEventsTopic is a pubsub topic with host library notifications
const LibraryEventsTopic = "rms-virtual-library.library-events"

// RefreshTopic is a pubsub topic for requesting metadata refresh of an item
const RefreshTopic = "rms-virtual-library.refresh"

type EventKind int

const (
	// EventRefreshCompleted means a remote metadata refresh has finished for an item
	EventRefreshCompleted EventKind = iota

	// EventItemUpdated means a real media file appeared or changed for an item
	EventItemUpdated

	// EventItemRemoved means an item has been removed from the library
	EventItemRemoved
)

// LibraryEvent is a host library notification
type LibraryEvent struct {
	Kind EventKind

	// ItemID refers the subject item; for removals the item is already gone
	// from the tree, so the event carries its last known state instead
	ItemID ID
	Item   *Item

	// AverageRuntime is an average episode duration in minutes which the
	// host learned during a series refresh, 0 if unknown
	AverageRuntime int
}

// RefreshRequest asks the host metadata pipeline to refresh an item
type RefreshRequest struct {
	ItemID   ID
	Priority bool
}
