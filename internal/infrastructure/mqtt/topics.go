package mqtt

import "fmt"

// Topic prefixes for the metrics service.
//
// All topics live under a single root: energymetrics/{category}/...
const (
	// TopicPrefix is the root for all metrics service topics.
	TopicPrefix = "energymetrics"

	// TopicPrefixState is the base for derived sensor state topics.
	TopicPrefixState = "energymetrics/state"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "energymetrics/system"
)

// Topics provides builders for metrics service MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.SensorState("energy_meter")
//	// Returns: "energymetrics/state/energy_meter"
type Topics struct{}

// SensorState returns the topic for one derived sensor's state.
//
// Example: energymetrics/state/energy_meter
func (Topics) SensorState(sensor string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixState, sensor)
}

// SystemStatus returns the service availability topic. Carries the online
// and offline payloads plus the Last Will message.
//
// Example: energymetrics/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
