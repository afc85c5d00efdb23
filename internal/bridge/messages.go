package bridge

import "time"

// Cloud timestamp layouts, tried in order. The API is not consistent
// about the format across endpoints.
var cloudTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02 15:04:05",
}

// StateMessage is the retained payload for section and gate state topics.
type StateMessage struct {
	ComponentID string `json:"component-id"`
	Name        string `json:"name,omitempty"`
	State       string `json:"state"`
	CanControl  bool   `json:"can-control"`
	Timestamp   string `json:"timestamp"`
}

// TemperatureMessage is the retained payload for thermometer topics.
type TemperatureMessage struct {
	DeviceID  string  `json:"device-id"`
	Celsius   float64 `json:"celsius"`
	At        string  `json:"at,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// CommandMessage is the payload expected on command topics.
//
// Section commands accept state ARM, PARTIAL_ARM, or DISARM.
// Gate commands accept state ON or OFF. State matching is
// case-insensitive; the value is upper-cased before the cloud call.
type CommandMessage struct {
	// State is the requested component state.
	State string `json:"state"`

	// PinCode optionally overrides the bridge's configured PIN.
	PinCode string `json:"pin-code,omitempty"`

	// Force bypasses open-zone warnings when arming.
	Force bool `json:"force,omitempty"`
}

// AckMessage is the payload published on ack topics after a command.
type AckMessage struct {
	ComponentID string `json:"component-id"`
	State       string `json:"state"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// newAck builds a successful acknowledgement.
func newAck(componentID, state string) AckMessage {
	return AckMessage{
		ComponentID: componentID,
		State:       state,
		Success:     true,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// newAckError builds a failed acknowledgement.
func newAckError(componentID, state, message string) AckMessage {
	return AckMessage{
		ComponentID: componentID,
		State:       state,
		Success:     false,
		Error:       message,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// parseCloudTime parses a cloud-reported timestamp.
// Returns the zero time when the value is empty or unparseable;
// callers substitute their own clock in that case.
func parseCloudTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range cloudTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
