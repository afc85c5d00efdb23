// Package mqtt provides MQTT client connectivity for the Jablotron bridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The bridge republishes Jablotron Cloud alarm state over MQTT so local
// automation (dashboards, rule engines) can consume it without touching
// the vendor API, and accepts arm/disarm and gate commands the same way:
//
//	Jablotron Cloud ↔ bridge ↔ MQTT Broker ↔ local automation
//
// # Topic Scheme
//
//	jablotron/state/section/{service-id}/{component-id}   retained section state
//	jablotron/state/gate/{service-id}/{component-id}      retained gate state
//	jablotron/state/thermo/{service-id}/{device-id}       retained temperature
//	jablotron/command/section/{service-id}/{component-id} arm/disarm commands
//	jablotron/command/gate/{service-id}/{component-id}    gate commands
//	jablotron/ack/...                                     command results
//	jablotron/system/status                               bridge online/offline
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Anonymous access is only for local development
//   - Command topics accept PIN codes in payloads; restrict them with
//     broker ACLs
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.State(mqtt.KindSection, 1234567, "SEC-1")
//	client.PublishRetained(topic, []byte(`{"state":"ARM"}`))
package mqtt
