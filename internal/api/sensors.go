package api

import (
	"net/http"

	"github.com/nerrad567/energy-metrics-core/internal/metric"
)

// Sensor is one derived sensor exposed to dashboards and automations.
type Sensor struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Value       *float64         `json:"value"`
	Unit        string           `json:"unit"`
	DeviceClass string           `json:"device_class"`
	StateClass  string           `json:"state_class"`
	Status      metric.Status    `json:"status"`
	Attributes  SensorAttributes `json:"attributes"`
}

// SensorAttributes carries shared metadata for every sensor.
type SensorAttributes struct {
	LastUpdated   string `json:"last_updated,omitempty"`
	TotalReadings int    `json:"total_readings"`
}

// handleSensors returns the three derived sensors built from the latest
// record: cumulative meter, average consumption, and temperature. Sensors
// whose field is absent from the latest record report a null value.
func (s *Server) handleSensors(w http.ResponseWriter, _ *http.Request) {
	view := s.projector.View()

	attrs := SensorAttributes{TotalReadings: view.Total}
	var meter, average, temperature *float64
	if view.Latest != nil {
		attrs.LastUpdated = view.Latest.Key()
		meter = view.Latest.MeterValue
		average = view.Latest.AverageValue
		temperature = view.Latest.Temperature
	}

	sensors := []Sensor{
		{
			ID:          "energy_meter",
			Name:        "Energy Meter",
			Value:       meter,
			Unit:        "kWh",
			DeviceClass: "energy",
			StateClass:  "total_increasing",
			Status:      view.Status,
			Attributes:  attrs,
		},
		{
			ID:          "energy_average",
			Name:        "Energy Average",
			Value:       average,
			Unit:        "kWh",
			DeviceClass: "energy",
			StateClass:  "measurement",
			Status:      view.Status,
			Attributes:  attrs,
		},
		{
			ID:          "temperature",
			Name:        "Temperature",
			Value:       temperature,
			Unit:        "°F",
			DeviceClass: "temperature",
			StateClass:  "measurement",
			Status:      view.Status,
			Attributes:  attrs,
		},
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sensors": sensors,
	})
}

// handleState returns the raw derived view, the same payload pushed to
// WebSocket subscribers on every ingestion.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.projector.View())
}
