package wconsole

import "time"

// Event types published on the bus given to WithEventBus.
const (
	EventDeliverySent    = "delivery.sent"
	EventDeliveryFailed  = "delivery.failed"
	EventDeliveryDropped = "delivery.dropped"
)

// Delivery is the Data of every delivery event.
type Delivery struct {
	Level    string        `json:"level"`
	Err      string        `json:"err,omitempty"`
	Duration time.Duration `json:"duration"`
}
