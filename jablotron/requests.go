package jablotron

import (
	"context"
	"fmt"
)

// defaultHistoryLimit is the number of events returned by GetServiceHistory
// when the query does not set a limit.
const defaultHistoryLimit = 20

// ServiceQuery addresses one service for the per-service getters.
type ServiceQuery struct {
	// ServiceID identifies the service, as returned by GetServices.
	ServiceID int

	// ServiceType is the service family. Defaults to DefaultServiceType.
	ServiceType string
}

func (q ServiceQuery) serviceType() string {
	if q.ServiceType == "" {
		return DefaultServiceType
	}
	return q.ServiceType
}

// HistoryQuery bounds a GetServiceHistory call. Zero-valued fields are
// omitted from the request and the cloud applies its own defaults.
type HistoryQuery struct {
	ServiceID   int
	ServiceType string

	// DateFrom/DateTo bound events by timestamp (cloud date format).
	DateFrom string
	DateTo   string

	// EventIDFrom/EventIDTo bound events by event id.
	EventIDFrom string
	EventIDTo   string

	// Limit caps the number of returned events. Defaults to 20.
	Limit int
}

func (q HistoryQuery) serviceType() string {
	if q.ServiceType == "" {
		return DefaultServiceType
	}
	return q.ServiceType
}

// GetServices returns the services associated with the account.
//
// The listing is requested in EXTENDED form with default visibility,
// matching what the mobile application shows.
func (c *Client) GetServices(ctx context.Context) ([]Service, error) {
	payload := map[string]any{
		"list-type":  "EXTENDED",
		"visibility": "DEFAULT",
	}

	var data struct {
		Services []Service `json:"services"`
	}
	if err := c.send(ctx, "serviceListGet.json", payload, &data); err != nil {
		return nil, err
	}
	return data.Services, nil
}

// GetServiceInformation returns installation details for one service:
// panel hardware, installing company, and support contact.
func (c *Client) GetServiceInformation(ctx context.Context, serviceID int) (*ServiceInformation, error) {
	payload := map[string]any{
		"service-id": serviceID,
	}

	var data ServiceInformation
	if err := c.send(ctx, "serviceInformationGet.json", payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSections returns the alarm sections of a service together with
// their current states. The call connects to the panel so states are
// live rather than last-reported.
func (c *Client) GetSections(ctx context.Context, q ServiceQuery) (*Sections, error) {
	payload := map[string]any{
		"connect-device": true,
		"list-type":      "FULL",
		"service-id":     q.ServiceID,
		"service-states": true,
	}

	var data Sections
	if err := c.send(ctx, fmt.Sprintf("%s/sectionsGet.json", q.serviceType()), payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetThermoDevices returns the thermometer readings of a service.
// The call connects to the panel to fetch actual values.
func (c *Client) GetThermoDevices(ctx context.Context, q ServiceQuery) ([]ThermoDevice, error) {
	payload := map[string]any{
		"connect-device": true,
		"list-type":      "FULL",
		"service-id":     q.ServiceID,
		"service-states": false,
	}

	var data struct {
		States []ThermoDevice `json:"states"`
	}
	if err := c.send(ctx, fmt.Sprintf("%s/thermoDevicesGet.json", q.serviceType()), payload, &data); err != nil {
		return nil, err
	}
	return data.States, nil
}

// GetKeyboardSegments returns the keypads of a service and their
// segments. Keypads change rarely, so the panel is not contacted.
func (c *Client) GetKeyboardSegments(ctx context.Context, q ServiceQuery) ([]Keyboard, error) {
	payload := map[string]any{
		"connect-device": false,
		"list-type":      "FULL",
		"service-id":     q.ServiceID,
		"service-states": false,
	}

	var data struct {
		Keyboards []Keyboard `json:"keyboards"`
	}
	if err := c.send(ctx, fmt.Sprintf("%s/keyboardSegmentsGet.json", q.serviceType()), payload, &data); err != nil {
		return nil, err
	}
	return data.Keyboards, nil
}

// GetProgrammableGates returns the programmable gates of a service
// together with their current states.
func (c *Client) GetProgrammableGates(ctx context.Context, q ServiceQuery) (*ProgrammableGates, error) {
	payload := map[string]any{
		"connect-device": true,
		"list-type":      "FULL",
		"service-id":     q.ServiceID,
		"service-states": true,
	}

	var data ProgrammableGates
	if err := c.send(ctx, fmt.Sprintf("%s/programmableGatesGet.json", q.serviceType()), payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetServiceHistory returns event history for a service, newest first.
// Unset query bounds are omitted from the request.
func (c *Client) GetServiceHistory(ctx context.Context, q HistoryQuery) ([]HistoryEvent, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	payload := map[string]any{
		"limit":      limit,
		"service-id": q.ServiceID,
	}
	if q.DateFrom != "" {
		payload["date-from"] = q.DateFrom
	}
	if q.DateTo != "" {
		payload["date-to"] = q.DateTo
	}
	if q.EventIDFrom != "" {
		payload["event-id-from"] = q.EventIDFrom
	}
	if q.EventIDTo != "" {
		payload["event-id-to"] = q.EventIDTo
	}

	var data struct {
		Events []HistoryEvent `json:"events"`
	}
	if err := c.send(ctx, fmt.Sprintf("%s/eventHistoryGet.json", q.serviceType()), payload, &data); err != nil {
		return nil, err
	}
	return data.Events, nil
}
