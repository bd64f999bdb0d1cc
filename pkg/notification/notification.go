// Package notification pushes chart alerts to external channels.
package notification

// Notifier delivers out-of-band alerts about chart failures and
// exports. A nil Notifier on the chart disables alerting.
type Notifier interface {
	Notify(message string)
	NotifyError(err error)
}
