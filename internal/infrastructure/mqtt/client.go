package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang as a publish-only state mirror.
//
// The metrics service never consumes MQTT traffic; it publishes derived
// sensor state and its own availability. Connection management handles
// automatic reconnection with exponential backoff, and the broker announces
// an unexpected disconnect via the Last Will message.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     config.MQTTConfig

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex

	// Callbacks for connection events (optional, set via SetOnConnect/SetOnDisconnect).
	onConnect    func()
	onDisconnect func(err error)
	callbackMu   sync.RWMutex
}

// Connect establishes a connection to the MQTT broker.
//
// It performs the following setup:
//  1. Builds connection options from config (broker URL, auth, TLS)
//  2. Configures Last Will and Testament (LWT) for offline detection
//  3. Sets up auto-reconnect with exponential backoff
//  4. Attempts initial connection with timeout
//  5. Publishes online status to energymetrics/system/status
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: If initial connection fails within timeout
func Connect(cfg config.MQTTConfig) (*Client, error) {
	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)

	c := &Client{
		cfg:     cfg,
		options: opts,
	}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnectHandler callback runs asynchronously and may not have
	// executed yet, so set connected here to ensure IsConnected() returns
	// true immediately after Connect().
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return c, nil
}

// handleConnect is called when the connection is established.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.publishOnlineStatus()

	c.callbackMu.RLock()
	callback := c.onConnect
	c.callbackMu.RUnlock()
	if callback != nil {
		callback()
	}
}

// handleDisconnect is called when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.callbackMu.RLock()
	callback := c.onDisconnect
	c.callbackMu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// publishOnlineStatus publishes the service's online status, retained so
// new subscribers see the current availability.
func (c *Client) publishOnlineStatus() {
	topic := Topics{}.SystemStatus()
	payload := buildOnlinePayload(c.cfg.Broker.ClientID)
	c.client.Publish(topic, byte(c.cfg.QoS), true, payload)
}

// Close gracefully disconnects from the MQTT broker.
//
// A graceful offline status is published first so subscribers can tell a
// clean shutdown from the crash message the LWT would deliver.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		topic := Topics{}.SystemStatus()
		payload := buildOfflinePayload(c.cfg.Broker.ClientID)
		token := c.client.Publish(topic, byte(c.cfg.QoS), true, payload)
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// HealthCheck verifies the MQTT connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// SetOnConnect sets a callback to be invoked when connection is established.
// This is called on initial connect and on every reconnect.
func (c *Client) SetOnConnect(callback func()) {
	c.callbackMu.Lock()
	c.onConnect = callback
	c.callbackMu.Unlock()
}

// SetOnDisconnect sets a callback to be invoked when connection is lost.
// The error parameter describes why the connection was lost.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.callbackMu.Lock()
	c.onDisconnect = callback
	c.callbackMu.Unlock()
}
