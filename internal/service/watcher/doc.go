// Package watcher implements the watch action: a filesystem-notification
// loop that rebuilds the project whenever sources or headers change.
package watcher
