package menu

// NotificationType is the severity of a notification.
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationWarning
	NotificationError
)

func (t NotificationType) String() string {
	switch t {
	case NotificationWarning:
		return "warning"
	case NotificationError:
		return "error"
	}
	return "info"
}

// Notification is a toast shown to the user.
type Notification struct {
	Type          NotificationType
	Title         string
	Content       string
	MinimizedText string
}

// Notifier shows notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
