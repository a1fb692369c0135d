package mqtt

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
	"github.com/nerrad567/energy-metrics-core/internal/metric"
)

// Sensor names mirrored to state topics. Each maps to one data field of the
// latest record.
const (
	SensorEnergyMeter   = "energy_meter"
	SensorEnergyAverage = "energy_average"
	SensorTemperature   = "temperature"
)

// sensorState is the payload published to each sensor state topic.
type sensorState struct {
	Value         *float64  `json:"value"`
	Status        string    `json:"status"`
	LastUpdated   time.Time `json:"last_updated"`
	TotalReadings int       `json:"total_readings"`
}

// StatePublisher mirrors derived views to retained MQTT state topics.
// Implements metric.ViewPublisher.
type StatePublisher struct {
	client *Client
	logger *logging.Logger
}

// NewStatePublisher wraps an MQTT client as a view publisher.
func NewStatePublisher(client *Client, logger *logging.Logger) *StatePublisher {
	return &StatePublisher{client: client, logger: logger}
}

// PublishView publishes one retained message per sensor topic. A sensor
// whose field is absent from the latest record still gets a message with a
// null value, so subscribers can distinguish "no reading" from "no update".
// Publish failures are logged, never propagated; the mirror is best effort.
func (p *StatePublisher) PublishView(view metric.View) {
	states := map[string]sensorState{
		SensorEnergyMeter:   {Status: string(view.Status), LastUpdated: view.UpdatedAt, TotalReadings: view.Total},
		SensorEnergyAverage: {Status: string(view.Status), LastUpdated: view.UpdatedAt, TotalReadings: view.Total},
		SensorTemperature:   {Status: string(view.Status), LastUpdated: view.UpdatedAt, TotalReadings: view.Total},
	}
	if view.Latest != nil {
		setValue := func(sensor string, v *float64) {
			state := states[sensor]
			state.Value = v
			states[sensor] = state
		}
		setValue(SensorEnergyMeter, view.Latest.MeterValue)
		setValue(SensorEnergyAverage, view.Latest.AverageValue)
		setValue(SensorTemperature, view.Latest.Temperature)
	}

	topics := Topics{}
	for sensor, state := range states {
		payload, err := json.Marshal(state)
		if err != nil {
			p.logger.Error("marshalling sensor state", "sensor", sensor, "error", err)
			continue
		}
		if err := p.client.PublishRetained(topics.SensorState(sensor), payload); err != nil {
			p.logger.Warn("publishing sensor state", "sensor", sensor, "error", err)
		}
	}
}
