package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/jablotron-bridge/jablotron"
)

// pollLoop runs the periodic cloud poll until Stop is called.
// The first poll runs immediately so retained topics are populated
// without waiting a full interval.
func (b *Bridge) pollLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	b.pollOnce()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.pollOnce()
		}
	}
}

// pollOnce performs one full poll cycle: list services, then fetch and
// publish state for each. Per-service failures are logged and skipped so
// one offline installation doesn't starve the others.
func (b *Bridge) pollOnce() {
	ctx, cancel := context.WithTimeout(b.ctx, pollTimeout)
	defer cancel()

	services, err := b.cloud.GetServices(ctx)
	if err != nil {
		b.logError("poll: failed to list services", err)
		return
	}

	for _, svc := range services {
		if !svc.Visible {
			continue
		}
		b.pollService(ctx, svc)
	}
}

// pollService fetches and publishes sections, gates, and (optionally)
// thermometer readings for one service.
func (b *Bridge) pollService(ctx context.Context, svc jablotron.Service) {
	q := jablotron.ServiceQuery{
		ServiceID:   svc.ServiceID,
		ServiceType: b.serviceType,
	}

	b.pollSections(ctx, svc.ServiceID, q)
	b.pollGates(ctx, svc.ServiceID, q)

	if b.thermometers {
		b.pollThermometers(ctx, svc.ServiceID, q)
	}
}

// pollSections publishes retained state for each alarm section.
func (b *Bridge) pollSections(ctx context.Context, serviceID int, q jablotron.ServiceQuery) {
	sections, err := b.cloud.GetSections(ctx, q)
	if err != nil {
		b.logError("poll: failed to get sections", err, "service_id", serviceID)
		return
	}

	// Section definitions and states arrive as parallel lists keyed by
	// cloud component id.
	byID := make(map[string]jablotron.Section, len(sections.Sections))
	for _, s := range sections.Sections {
		byID[s.CloudComponentID] = s
	}

	for _, st := range sections.States {
		def := byID[st.CloudComponentID]
		b.publishComponentState(mqtt.KindSection, serviceID, StateMessage{
			ComponentID: st.CloudComponentID,
			Name:        def.Name,
			State:       st.State,
			CanControl:  def.CanControl,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// pollGates publishes retained state for each programmable gate.
func (b *Bridge) pollGates(ctx context.Context, serviceID int, q jablotron.ServiceQuery) {
	gates, err := b.cloud.GetProgrammableGates(ctx, q)
	if err != nil {
		b.logError("poll: failed to get programmable gates", err, "service_id", serviceID)
		return
	}

	byID := make(map[string]jablotron.Gate, len(gates.Gates))
	for _, g := range gates.Gates {
		byID[g.CloudComponentID] = g
	}

	for _, st := range gates.States {
		def := byID[st.CloudComponentID]
		b.publishComponentState(mqtt.KindGate, serviceID, StateMessage{
			ComponentID: st.CloudComponentID,
			Name:        def.Name,
			State:       st.State,
			CanControl:  def.CanControl,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// pollThermometers publishes thermometer readings and records them to
// time-series storage when configured.
func (b *Bridge) pollThermometers(ctx context.Context, serviceID int, q jablotron.ServiceQuery) {
	devices, err := b.cloud.GetThermoDevices(ctx, q)
	if err != nil {
		b.logError("poll: failed to get thermometers", err, "service_id", serviceID)
		return
	}

	for _, dev := range devices {
		at := parseCloudTime(dev.LastTemperatureTime)

		msg := TemperatureMessage{
			DeviceID:  dev.ObjectDeviceID,
			Celsius:   dev.Temperature,
			At:        dev.LastTemperatureTime,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		probe := msg
		probe.Timestamp = ""
		cacheKey, err := json.Marshal(probe)
		if err != nil {
			b.logError("poll: failed to marshal temperature", err, "device_id", dev.ObjectDeviceID)
			continue
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			b.logError("poll: failed to marshal temperature", err, "device_id", dev.ObjectDeviceID)
			continue
		}

		topic := mqtt.Topics{}.Temperature(serviceID, dev.ObjectDeviceID)
		b.publishIfChanged(topic, string(cacheKey), payload)

		if b.thermo != nil {
			b.thermo.WriteTemperature(serviceID, dev.ObjectDeviceID, dev.Temperature, at)
		}
	}
}

// publishComponentState marshals and publishes one section or gate state.
// The Timestamp field is excluded from change detection by keying the
// cache on the payload with it zeroed; otherwise every poll would look
// like a change.
func (b *Bridge) publishComponentState(kind string, serviceID int, msg StateMessage) {
	topic := mqtt.Topics{}.State(kind, serviceID, msg.ComponentID)

	probe := msg
	probe.Timestamp = ""
	cacheKey, err := json.Marshal(probe)
	if err != nil {
		b.logError("poll: failed to marshal state", err, "component_id", msg.ComponentID)
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logError("poll: failed to marshal state", err, "component_id", msg.ComponentID)
		return
	}

	b.publishIfChanged(topic, string(cacheKey), payload)
}
