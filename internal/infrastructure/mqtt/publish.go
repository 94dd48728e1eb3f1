package mqtt

import (
	"encoding/json"
	"fmt"
)

// maxPayloadSize caps MQTT payloads at 256KB. Event payloads are tiny;
// this guards against a runaway custom-frame blob ending up on the bus.
const maxPayloadSize = 256 << 10

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "totem/event/touch/touched")
//   - payload: The message payload (JSON)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should keep the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishEvent marshals a hardware event and publishes it to the
// per-module event topic at the configured QoS. Events are not
// retained, only live subscribers see them.
//
// Example topic: totem/event/face/expression_changed
func (c *Client) PublishEvent(module, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshalling event: %w", ErrPublishFailed, err)
	}
	return c.Publish(Topics{}.Event(module, eventType), data, byte(c.cfg.QoS), false)
}

// PublishModuleState publishes a retained module state snapshot so new
// subscribers immediately see the current hardware state.
func (c *Client) PublishModuleState(module string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: marshalling state: %w", ErrPublishFailed, err)
	}
	return c.Publish(Topics{}.ModuleState(module), data, byte(c.cfg.QoS), true)
}
