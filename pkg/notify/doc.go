// Package notify keeps the single transient notification shown to the user.
//
// A notification is cleared automatically after a delay or when dismissed.
// Showing a new one replaces the current notification and restarts the
// timer; callbacks from replaced timers never clear a newer notification.
package notify
