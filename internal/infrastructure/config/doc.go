// Package config provides configuration loading for the Jablotron bridge.
//
// Configuration is read from a single YAML file, merged over hardcoded
// defaults, and finally overridden by environment variables. The loaded
// configuration is validated before use.
//
// # Sections
//
//   - cloud: Jablotron Cloud credentials and request timeout
//   - mqtt: broker connection, auth, QoS, reconnect behaviour
//   - influxdb: thermometer telemetry sink (optional)
//   - bridge: poll interval and feature toggles
//   - logging: level, format, output
//
// # Environment Overrides
//
// Environment variables follow the pattern JABLOTRON_SECTION_KEY and
// take precedence over file values:
//
//	JABLOTRON_CLOUD_USERNAME
//	JABLOTRON_CLOUD_PASSWORD
//	JABLOTRON_CLOUD_PIN_CODE
//	JABLOTRON_MQTT_HOST
//	JABLOTRON_MQTT_USERNAME
//	JABLOTRON_MQTT_PASSWORD
//	JABLOTRON_INFLUXDB_TOKEN
//
// Keep credentials out of the config file on shared machines; the
// environment overrides exist so secrets can be injected at runtime.
package config
