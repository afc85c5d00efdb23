// Package bridge mirrors Jablotron Cloud alarm state over MQTT.
//
// The bridge polls the cloud on a fixed interval and publishes retained
// state for every alarm section, programmable gate, and thermometer it
// finds across the account's services. Commands flow the other way:
// messages on command topics become cloud control calls, with the result
// published as an ack.
//
// # Poll Cycle
//
// Each cycle lists services, then per visible service fetches sections,
// gates, and (when enabled) thermometer readings. State is published
// retained and only on change, so a stable installation generates no
// broker traffic between events. Per-service failures are logged and
// skipped; the cycle continues with the remaining services.
//
// # Commands
//
// The bridge subscribes to jablotron/command/+/+/+. A command payload
// names the requested state (ARM, PARTIAL_ARM, DISARM for sections;
// ON, OFF for gates) and may carry a PIN override. Confirmed commands
// update the retained state topic immediately rather than waiting for
// the next poll.
//
// # Dependencies
//
// Cloud, MQTT, and telemetry are consumed through small interfaces
// (CloudClient, MQTTClient, TemperatureWriter) so tests can run against
// mocks. Production wiring lives in cmd/jablotron-bridge.
package bridge
