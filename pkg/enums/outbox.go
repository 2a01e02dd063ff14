package enums

// OutboxEventType identifies the domain event stored in outbox_events.
type OutboxEventType string

const (
	EventTransactionRecorded OutboxEventType = "transaction.recorded"
	EventDeviceRetired       OutboxEventType = "device.retired"
)

// OutboxAggregateType identifies which aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateTransaction OutboxAggregateType = "transaction"
	AggregateDevice      OutboxAggregateType = "device"
)
