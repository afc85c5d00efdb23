package jablotron

// Wire types for the Jablotron Cloud API. JSON tags match the vendor's
// dash-separated keys exactly; values are passed through undecorated.

// Service is one monitored installation under a Jablotron Cloud account.
type Service struct {
	ServiceID      int                    `json:"service-id"`
	CloudEntityID  string                 `json:"cloud-entity-id"`
	Name           string                 `json:"name"`
	ServiceType    string                 `json:"service-type"`
	Icon           string                 `json:"icon"`
	Index          int                    `json:"index"`
	Level          string                 `json:"level"`
	Status         string                 `json:"status"`
	Visible        bool                   `json:"visible"`
	Message        string                 `json:"message"`
	EventLastTime  string                 `json:"event-last-time"`
	ShareStatus    string                 `json:"share-status"`
	ExtendedStates []ServiceExtendedState `json:"extended-states"`
}

// ServiceExtendedState is one typed state value attached to a service.
type ServiceExtendedState struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ServiceInformation describes a single service installation.
type ServiceInformation struct {
	Device              InformationDevice   `json:"device"`
	InstallationCompany *InformationCompany `json:"installation-company"`
	Support             InformationSupport  `json:"support"`
}

// InformationDevice describes the control panel hardware of a service.
type InformationDevice struct {
	Family           string `json:"family"`
	ModelName        string `json:"model-name"`
	ServiceName      string `json:"service-name"`
	RegistrationKey  string `json:"registration-key"`
	RegistrationDate string `json:"registration-date"`
	PhoneNumber      string `json:"phone-number"`
	Firmware         string `json:"firmware"`
}

// InformationCompany describes the installing company of a service.
type InformationCompany struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone-number"`
	Email       string `json:"email"`
}

// InformationSupport describes the support contact of a service.
type InformationSupport struct {
	Distributor string `json:"distributor"`
	PhoneNumber string `json:"phone-number"`
	Email       string `json:"email"`
}

// Sections is the full section listing for a service: the section
// definitions plus their current states.
type Sections struct {
	ServiceStates ServiceStates    `json:"service-states"`
	States        []ComponentState `json:"states"`
	Sections      []Section        `json:"sections"`
}

// ServiceStates carries service-level state attached to a listing.
type ServiceStates struct {
	ServiceName string `json:"service-name"`
}

// Section is one alarm zone within a service.
type Section struct {
	CloudComponentID  string `json:"cloud-component-id"`
	Name              string `json:"name"`
	CanControl        bool   `json:"can-control"`
	NeedAuthorization bool   `json:"need-authorization"`
	PartialArmEnabled bool   `json:"partial-arm-enabled"`
}

// ComponentState is the current state of one section or gate.
type ComponentState struct {
	CloudComponentID string `json:"cloud-component-id"`
	State            string `json:"state"`
}

// ThermoDevice is one thermometer reading within a service.
type ThermoDevice struct {
	ObjectDeviceID      string  `json:"object-device-id"`
	Temperature         float64 `json:"temperature"`
	LastTemperatureTime string  `json:"last-temperature-time"`
}

// Keyboard is one keypad within a service, with its segments.
type Keyboard struct {
	ObjectDeviceID string            `json:"object-device-id"`
	Name           string            `json:"name"`
	Segments       []KeyboardSegment `json:"segments"`
}

// KeyboardSegment is one button segment on a keypad.
type KeyboardSegment struct {
	SegmentID          string `json:"segment-id"`
	Name               string `json:"name"`
	CanControl         bool   `json:"can-control"`
	NeedAuthorization  bool   `json:"need-authorization"`
	DisplayComponentID string `json:"display-component-id"`
	ControlComponentID string `json:"control-component-id"`
	SegmentFunction    string `json:"segment-function"`
}

// ProgrammableGates is the gate listing for a service: definitions plus
// current states.
type ProgrammableGates struct {
	ServiceStates ServiceStates    `json:"service-states"`
	Gates         []Gate           `json:"programmableGates"`
	States        []ComponentState `json:"states"`
}

// Gate is one remotely controllable output within a service.
type Gate struct {
	CloudComponentID string `json:"cloud-component-id"`
	Name             string `json:"name"`
	CanControl       bool   `json:"can-control"`
}

// HistoryEvent is one entry in a service's event history.
type HistoryEvent struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	IconType    string `json:"icon-type"`
	EventText   string `json:"event-text"`
	SectionName string `json:"section-name"`
	InvokerName string `json:"invoker-name"`
	InvokerType string `json:"invoker-type"`
}

// ControlResponse is the cloud's confirmation of a control action.
type ControlResponse struct {
	ControlErrors []ControlError `json:"control-errors"`
	States        []ControlState `json:"states"`
}

// ControlState is one echoed component state in a control response.
type ControlState struct {
	ComponentID string `json:"component-id"`
	State       string `json:"state"`
}

// ControlError is one per-component failure in a control response.
type ControlError struct {
	ComponentID  string `json:"component-id"`
	ControlError string `json:"control-error"`
}
