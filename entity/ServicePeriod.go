package entity

// ServicePeriod is the declared meal service slot on an order.
// Stored as a fixed string enum, never free text from clients.
type ServicePeriod string

const (
	PeriodDay   ServicePeriod = "DAY"
	PeriodNight ServicePeriod = "NIGHT"
)

func (p ServicePeriod) Valid() bool {
	return p == PeriodDay || p == PeriodNight
}
