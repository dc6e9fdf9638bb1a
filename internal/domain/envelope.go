package domain

// Envelope is the OMP 0.1 exchange message.
type Envelope struct {
	ID           string         `json:"id"`
	Performative string         `json:"performative"`
	Capability   string         `json:"capability"`
	Payload      map[string]any `json:"payload"`
}

// Lifespan labels for legacy key-value records. The labels are advisory;
// nothing expires records yet.
const (
	LifespanShort = "short"
	LifespanLong  = "long"
)

// DataItem is one legacy key-value record. Value is arbitrary JSON; the
// legacy write route restricts it to an object, exchange does not.
type DataItem struct {
	Value    any    `json:"value"`
	Lifespan string `json:"lifespan"`
}
