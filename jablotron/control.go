package jablotron

import (
	"context"
	"fmt"
	"strings"
)

// Control actions understood by the panel.
const (
	// ActionControlSection arms, partially arms, or disarms a section.
	ActionControlSection = "CONTROL-SECTION"

	// ActionControlGate switches a programmable gate on or off.
	ActionControlGate = "CONTROL-PG"
)

// Section states accepted by ControlSection.
const (
	SectionStateArm        = "ARM"
	SectionStatePartialArm = "PARTIAL_ARM"
	SectionStateDisarm     = "DISARM"
)

// Gate states accepted by ControlProgrammableGate.
const (
	GateStateOn  = "ON"
	GateStateOff = "OFF"
)

// wrongCodeError is the control-error value the cloud returns when the
// authorisation PIN is rejected.
const wrongCodeError = "WRONG-CODE"

// ComponentControl describes one control action against a component.
type ComponentControl struct {
	// ServiceID identifies the service the component belongs to.
	ServiceID int

	// ComponentID is the cloud component id of the section or gate.
	ComponentID string

	// Action is the control action, e.g. ActionControlSection.
	Action string

	// Value is the desired state, e.g. SectionStateArm or GateStateOn.
	// Sent upper-cased.
	Value string

	// PinCode overrides the client's configured PIN for this call.
	PinCode string

	// ServiceType is the service family. Defaults to DefaultServiceType.
	ServiceType string

	// Force overrides a blocked component (open zone, tamper).
	Force bool
}

// SectionControl describes an arm/disarm action against a section.
type SectionControl struct {
	ServiceID   int
	ComponentID string

	// State is SectionStateArm, SectionStatePartialArm, or SectionStateDisarm.
	State string

	PinCode     string
	ServiceType string
	Force       bool
}

// GateControl describes a switch action against a programmable gate.
type GateControl struct {
	ServiceID   int
	ComponentID string

	// State is GateStateOn or GateStateOff.
	State string

	PinCode     string
	ServiceType string
	Force       bool
}

// ControlSection sets a section to the desired arm state.
//
// Returns:
//   - bool: true when the cloud confirms the section reached the state
//   - error: ErrIncorrectPinCode if the PIN was rejected, ErrControlFailed
//     on any other control error, or a transport/session error
func (c *Client) ControlSection(ctx context.Context, ctrl SectionControl) (bool, error) {
	return c.ControlComponent(ctx, ComponentControl{
		ServiceID:   ctrl.ServiceID,
		ComponentID: ctrl.ComponentID,
		Action:      ActionControlSection,
		Value:       ctrl.State,
		PinCode:     ctrl.PinCode,
		ServiceType: ctrl.ServiceType,
		Force:       ctrl.Force,
	})
}

// ControlProgrammableGate sets a programmable gate to the desired state.
//
// Returns:
//   - bool: true when the cloud confirms the gate reached the state
//   - error: ErrIncorrectPinCode if the PIN was rejected, ErrControlFailed
//     on any other control error, or a transport/session error
func (c *Client) ControlProgrammableGate(ctx context.Context, ctrl GateControl) (bool, error) {
	return c.ControlComponent(ctx, ComponentControl{
		ServiceID:   ctrl.ServiceID,
		ComponentID: ctrl.ComponentID,
		Action:      ActionControlGate,
		Value:       ctrl.State,
		PinCode:     ctrl.PinCode,
		ServiceType: ctrl.ServiceType,
		Force:       ctrl.Force,
	})
}

// ControlComponent issues an arbitrary control action against a component.
// ControlSection and ControlProgrammableGate are thin specialisations of
// this call.
//
// The cloud echoes the resulting component states; success means the
// targeted component reports the requested value. The echoed value is
// compared verbatim apart from upper-casing, which the panel applies.
func (c *Client) ControlComponent(ctx context.Context, ctrl ComponentControl) (bool, error) {
	pinCode := ctrl.PinCode
	if pinCode == "" {
		pinCode = c.cfg.PinCode
	}

	serviceType := ctrl.ServiceType
	if serviceType == "" {
		serviceType = DefaultServiceType
	}

	value := strings.ToUpper(ctrl.Value)

	payload := map[string]any{
		"service-id": ctrl.ServiceID,
		"authorization": map[string]string{
			"authorization-code": pinCode,
		},
		"control-components": []map[string]any{
			{
				"actions": map[string]string{
					"action": ctrl.Action,
					"value":  value,
				},
				"component-id": ctrl.ComponentID,
				"force":        ctrl.Force,
			},
		},
	}

	var data ControlResponse
	if err := c.send(ctx, fmt.Sprintf("%s/controlComponent.json", serviceType), payload, &data); err != nil {
		return false, err
	}

	return confirmControl(data, ctrl.ComponentID, value)
}

// confirmControl validates the cloud's control response. A WRONG-CODE
// control error means the PIN was rejected; any other control error fails
// the action. Otherwise the action succeeded iff the targeted component
// echoes the requested state.
func confirmControl(resp ControlResponse, componentID, value string) (bool, error) {
	for _, ctrlErr := range resp.ControlErrors {
		if ctrlErr.ControlError == wrongCodeError {
			return false, ErrIncorrectPinCode
		}
		return false, fmt.Errorf("%w: component %s: %s", ErrControlFailed, ctrlErr.ComponentID, ctrlErr.ControlError)
	}

	for _, state := range resp.States {
		if state.ComponentID == componentID && state.State == value {
			return true, nil
		}
	}
	return false, nil
}
