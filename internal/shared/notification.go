package shared

// NotificationKind classifies user feedback.
type NotificationKind string

const (
	// NotifySuccess marks a completed user action.
	NotifySuccess NotificationKind = "success"
	// NotifyError marks a failed user action.
	NotifyError NotificationKind = "error"
)

// Notification is a one-shot, fire-and-forget message for the operator.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Success builds a success notification.
func Success(message string) Notification {
	return Notification{Kind: NotifySuccess, Message: message}
}

// Failure builds an error notification.
func Failure(message string) Notification {
	return Notification{Kind: NotifyError, Message: message}
}
