package enums

// DeviceLifecycle is the derived ownership state of a device. It is never
// stored: it is recomputed from the last entry of the device's sale event log.
type DeviceLifecycle string

const (
	DeviceLifecycleNew      DeviceLifecycle = "new"
	DeviceLifecycleSold     DeviceLifecycle = "sold"
	DeviceLifecycleReturned DeviceLifecycle = "returned"
)
