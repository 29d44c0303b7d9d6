// Package notify defines the short messages the client shows after an
// action: a search result count, a warning about filters, an export error.
package notify

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one transient message.
type Notification struct {
	Level   Level
	Message string
}

// IsZero reports whether n carries no message.
func (n Notification) IsZero() bool {
	return n.Message == ""
}

// Info returns an informational notification.
func Info(message string) Notification { return Notification{LevelInfo, message} }

// Success returns a notification for a completed action.
func Success(message string) Notification { return Notification{LevelSuccess, message} }

// Warn returns a warning, such as a search submitted without filters.
func Warn(message string) Notification { return Notification{LevelWarning, message} }

// Error returns a notification for a failed action.
func Error(message string) Notification { return Notification{LevelError, message} }
