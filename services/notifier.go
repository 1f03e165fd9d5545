package services

// Notifier receives human-readable order events. Delivery is
// fire-and-forget: a failing or missing sink never fails the order
// operation that produced the event.
type Notifier interface {
	Notify(message string)
}

// notify is the nil-safe helper every service uses.
func notify(n Notifier, message string) {
	if n != nil {
		n.Notify(message)
	}
}
