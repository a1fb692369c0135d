// Package mqtt mirrors derived sensor state to an MQTT broker.
//
// It wraps paho.mqtt.golang as a publish-only client: the metrics service
// never subscribes. After every successful ingestion the StatePublisher
// writes one retained message per sensor topic under energymetrics/state/,
// and the client maintains an availability message on
// energymetrics/system/status backed by a Last Will for crash detection.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    // Mirror is optional; log and continue without it.
//	}
//	defer client.Close()
//
//	publisher := mqtt.NewStatePublisher(client, logger)
//	// Register publisher with the projector.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Reconnection is automatic with
// exponential backoff; retained state topics make the mirror self-healing
// after an outage.
package mqtt
