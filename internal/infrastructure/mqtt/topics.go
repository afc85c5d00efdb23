package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the Jablotron bridge.
//
// All topics use the flat scheme: jablotron/{category}/{kind}/{service}/{component}
const (
	// TopicPrefix is the base for all bridge topics.
	TopicPrefix = "jablotron"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "jablotron/system"
)

// Component kinds appearing in state/command/ack topics.
const (
	KindSection = "section"
	KindGate    = "gate"
)

// Topics provides builders for Jablotron bridge MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.State(mqtt.KindSection, 1234567, "SEC-123456789")
//	// Returns: "jablotron/state/section/1234567/SEC-123456789"
type Topics struct{}

// State returns the retained state topic for a section or gate.
//
// Example: jablotron/state/section/1234567/SEC-123456789
func (Topics) State(kind string, serviceID int, componentID string) string {
	return fmt.Sprintf("%s/state/%s/%d/%s", TopicPrefix, kind, serviceID, componentID)
}

// Command returns the command topic for a section or gate.
//
// Example: jablotron/command/gate/1234567/PG-123456789
func (Topics) Command(kind string, serviceID int, componentID string) string {
	return fmt.Sprintf("%s/command/%s/%d/%s", TopicPrefix, kind, serviceID, componentID)
}

// Ack returns the command acknowledgement topic for a section or gate.
//
// Example: jablotron/ack/gate/1234567/PG-123456789
func (Topics) Ack(kind string, serviceID int, componentID string) string {
	return fmt.Sprintf("%s/ack/%s/%d/%s", TopicPrefix, kind, serviceID, componentID)
}

// Temperature returns the state topic for a thermometer reading.
//
// Example: jablotron/state/thermo/1234567/THM-123456789
func (Topics) Temperature(serviceID int, deviceID string) string {
	return fmt.Sprintf("%s/state/thermo/%d/%s", TopicPrefix, serviceID, deviceID)
}

// SystemStatus returns the bridge status topic (online/offline, LWT).
//
// Example: jablotron/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllCommands returns a pattern matching every command topic.
//
// Pattern: jablotron/command/+/+/+
func (Topics) AllCommands() string {
	return fmt.Sprintf("%s/command/+/+/+", TopicPrefix)
}

// ParseCommand splits a command topic into kind, service id, and
// component id. Returns false when the topic is not a command topic.
func (Topics) ParseCommand(topic string) (kind string, serviceID string, componentID string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 5 || parts[0] != TopicPrefix || parts[1] != "command" {
		return "", "", "", false
	}
	return parts[2], parts[3], parts[4], true
}
