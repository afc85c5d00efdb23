package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/jablotron-bridge/jablotron"
)

// handleCommand processes an incoming command message.
//
// The topic carries the target (kind, service, component) and the payload
// carries the requested state. Results are published to the matching ack
// topic; a confirmed command also updates the retained state topic so
// subscribers see the new state without waiting for the next poll.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	kind, serviceIDStr, componentID, ok := mqtt.Topics{}.ParseCommand(topic)
	if !ok {
		return fmt.Errorf("not a command topic: %s", topic)
	}

	serviceID, err := strconv.Atoi(serviceIDStr)
	if err != nil {
		b.publishAck(kind, 0, newAckError(componentID, "", fmt.Sprintf("invalid service id %q", serviceIDStr)))
		return fmt.Errorf("invalid service id %q: %w", serviceIDStr, err)
	}

	var cmd CommandMessage
	if err := json.Unmarshal(payload, &cmd); err != nil {
		b.publishAck(kind, serviceID, newAckError(componentID, "", "invalid command payload"))
		return fmt.Errorf("parse command payload: %w", err)
	}

	state := strings.ToUpper(strings.TrimSpace(cmd.State))
	b.logInfo("received command",
		"kind", kind,
		"service_id", serviceID,
		"component_id", componentID,
		"state", state)

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	var confirmed bool
	switch kind {
	case mqtt.KindSection:
		confirmed, err = b.commandSection(ctx, serviceID, componentID, state, cmd)
	case mqtt.KindGate:
		confirmed, err = b.commandGate(ctx, serviceID, componentID, state, cmd)
	default:
		err = fmt.Errorf("unknown component kind %q", kind)
	}

	if err != nil {
		b.publishAck(kind, serviceID, newAckError(componentID, state, commandErrorMessage(err)))
		return err
	}
	if !confirmed {
		b.publishAck(kind, serviceID, newAckError(componentID, state, "state not reached"))
		return fmt.Errorf("command not confirmed: %s/%s", kind, componentID)
	}

	b.publishAck(kind, serviceID, newAck(componentID, state))

	// Reflect the confirmed state on the retained topic immediately.
	b.publishComponentState(kind, serviceID, StateMessage{
		ComponentID: componentID,
		State:       state,
		CanControl:  true,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	return nil
}

// commandSection validates and forwards a section arm command.
func (b *Bridge) commandSection(ctx context.Context, serviceID int, componentID, state string, cmd CommandMessage) (bool, error) {
	switch state {
	case jablotron.SectionStateArm, jablotron.SectionStatePartialArm, jablotron.SectionStateDisarm:
	default:
		return false, fmt.Errorf("invalid section state %q", state)
	}

	return b.cloud.ControlSection(ctx, jablotron.SectionControl{
		ServiceID:   serviceID,
		ComponentID: componentID,
		State:       state,
		PinCode:     cmd.PinCode,
		ServiceType: b.serviceType,
		Force:       cmd.Force,
	})
}

// commandGate validates and forwards a gate switch command.
func (b *Bridge) commandGate(ctx context.Context, serviceID int, componentID, state string, cmd CommandMessage) (bool, error) {
	switch state {
	case jablotron.GateStateOn, jablotron.GateStateOff:
	default:
		return false, fmt.Errorf("invalid gate state %q", state)
	}

	return b.cloud.ControlProgrammableGate(ctx, jablotron.GateControl{
		ServiceID:   serviceID,
		ComponentID: componentID,
		State:       state,
		PinCode:     cmd.PinCode,
		ServiceType: b.serviceType,
		Force:       cmd.Force,
	})
}

// publishAck publishes a command acknowledgement. Acks are transient
// results, not state, so they are never retained.
func (b *Bridge) publishAck(kind string, serviceID int, ack AckMessage) {
	payload, err := json.Marshal(ack)
	if err != nil {
		b.logError("failed to marshal ack", err)
		return
	}

	topic := mqtt.Topics{}.Ack(kind, serviceID, ack.ComponentID)
	if err := b.mqtt.Publish(topic, payload, commandQoS, false); err != nil {
		b.logError("failed to publish ack", err, "topic", topic)
	}

	if !ack.Success {
		b.logWarn("command failed",
			"component_id", ack.ComponentID,
			"state", ack.State,
			"reason", ack.Error)
	}
}

// commandErrorMessage maps cloud errors to stable, PIN-safe ack messages.
// The raw error may embed request detail; the ack payload is visible to
// every broker subscriber, so only coarse categories go out.
func commandErrorMessage(err error) string {
	switch {
	case errors.Is(err, jablotron.ErrIncorrectPinCode):
		return "incorrect pin code"
	case errors.Is(err, jablotron.ErrNotAuthenticated):
		return "not authenticated"
	case errors.Is(err, jablotron.ErrSessionExpired):
		return "session expired"
	case errors.Is(err, jablotron.ErrControlFailed):
		return "rejected by cloud"
	case errors.Is(err, jablotron.ErrTransport):
		return "cloud unreachable"
	default:
		return err.Error()
	}
}
