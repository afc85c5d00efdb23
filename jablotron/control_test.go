package jablotron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// controlRequest mirrors the controlComponent.json payload for assertions.
type controlRequest struct {
	ServiceID     int `json:"service-id"`
	Authorization struct {
		Code string `json:"authorization-code"`
	} `json:"authorization"`
	Components []struct {
		Actions struct {
			Action string `json:"action"`
			Value  string `json:"value"`
		} `json:"actions"`
		ComponentID string `json:"component-id"`
		Force       bool   `json:"force"`
	} `json:"control-components"`
}

// echoControlServer confirms every control action by echoing the
// requested component state back, and records the decoded request.
func echoControlServer(t *testing.T, got *controlRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(loginAnd(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/JA100/controlComponent.json" {
			t.Errorf("path = %q, want /JA100/controlComponent.json", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Fatalf("decoding control payload: %v", err)
		}

		comp := got.Components[0]
		fmt.Fprintf(w, `{"data":{"states":[{"component-id":%q,"state":%q}]}}`,
			comp.ComponentID, comp.Actions.Value)
	}))
}

func TestControlSection_Confirmed(t *testing.T) {
	var got controlRequest
	server := echoControlServer(t, &got)
	defer server.Close()

	client := loggedInClient(t, server.URL)
	ok, err := client.ControlSection(context.Background(), SectionControl{
		ServiceID:   7,
		ComponentID: "SEC-1",
		State:       SectionStateArm,
	})
	if err != nil {
		t.Fatalf("ControlSection() error = %v", err)
	}
	if !ok {
		t.Error("ControlSection() = false, want true for echoed state")
	}

	if got.ServiceID != 7 {
		t.Errorf("service-id = %d, want 7", got.ServiceID)
	}
	if got.Authorization.Code != "1234" {
		t.Errorf("authorization-code = %q, want configured pin 1234", got.Authorization.Code)
	}
	if len(got.Components) != 1 {
		t.Fatalf("control-components count = %d, want 1", len(got.Components))
	}
	comp := got.Components[0]
	if comp.Actions.Action != ActionControlSection || comp.Actions.Value != "ARM" {
		t.Errorf("actions = %+v, want CONTROL-SECTION/ARM", comp.Actions)
	}
	if comp.ComponentID != "SEC-1" || comp.Force {
		t.Errorf("component = %+v, want SEC-1 without force", comp)
	}
}

func TestControlProgrammableGate_UppercasesValue(t *testing.T) {
	var got controlRequest
	server := echoControlServer(t, &got)
	defer server.Close()

	client := loggedInClient(t, server.URL)
	ok, err := client.ControlProgrammableGate(context.Background(), GateControl{
		ServiceID:   7,
		ComponentID: "PG-1",
		State:       "on", // accepted lower case, sent upper
	})
	if err != nil {
		t.Fatalf("ControlProgrammableGate() error = %v", err)
	}
	if !ok {
		t.Error("ControlProgrammableGate() = false, want true")
	}

	comp := got.Components[0]
	if comp.Actions.Action != ActionControlGate || comp.Actions.Value != GateStateOn {
		t.Errorf("actions = %+v, want CONTROL-PG/ON", comp.Actions)
	}
}

func TestControlComponent_PinOverrideAndForce(t *testing.T) {
	var got controlRequest
	server := echoControlServer(t, &got)
	defer server.Close()

	client := loggedInClient(t, server.URL)
	ok, err := client.ControlComponent(context.Background(), ComponentControl{
		ServiceID:   7,
		ComponentID: "SEC-2",
		Action:      ActionControlSection,
		Value:       SectionStateDisarm,
		PinCode:     "9876",
		Force:       true,
	})
	if err != nil {
		t.Fatalf("ControlComponent() error = %v", err)
	}
	if !ok {
		t.Error("ControlComponent() = false, want true")
	}

	if got.Authorization.Code != "9876" {
		t.Errorf("authorization-code = %q, want per-call override 9876", got.Authorization.Code)
	}
	if !got.Components[0].Force {
		t.Error("force = false, want true")
	}
}

func TestControl_WrongPinCode(t *testing.T) {
	server := httptest.NewServer(loginAnd(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"control-errors":[{"component-id":"SEC-1","control-error":"WRONG-CODE"}],"states":[]}}`))
	}))
	defer server.Close()

	client := loggedInClient(t, server.URL)
	_, err := client.ControlSection(context.Background(), SectionControl{
		ServiceID:   7,
		ComponentID: "SEC-1",
		State:       SectionStateArm,
	})
	if !errors.Is(err, ErrIncorrectPinCode) {
		t.Errorf("ControlSection() error = %v, want ErrIncorrectPinCode", err)
	}
}

func TestControl_UnexpectedError(t *testing.T) {
	server := httptest.NewServer(loginAnd(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"control-errors":[{"component-id":"SEC-1","control-error":"COMPONENT-BLOCKED"}],"states":[]}}`))
	}))
	defer server.Close()

	client := loggedInClient(t, server.URL)
	_, err := client.ControlSection(context.Background(), SectionControl{
		ServiceID:   7,
		ComponentID: "SEC-1",
		State:       SectionStateArm,
	})
	if !errors.Is(err, ErrControlFailed) {
		t.Errorf("ControlSection() error = %v, want ErrControlFailed", err)
	}
}

func TestControl_StateNotReached(t *testing.T) {
	server := httptest.NewServer(loginAnd(func(w http.ResponseWriter, r *http.Request) {
		// Panel left the section disarmed despite the ARM request.
		w.Write([]byte(`{"data":{"states":[{"component-id":"SEC-1","state":"DISARM"}]}}`))
	}))
	defer server.Close()

	client := loggedInClient(t, server.URL)
	ok, err := client.ControlSection(context.Background(), SectionControl{
		ServiceID:   7,
		ComponentID: "SEC-1",
		State:       SectionStateArm,
	})
	if err != nil {
		t.Fatalf("ControlSection() error = %v", err)
	}
	if ok {
		t.Error("ControlSection() = true, want false when state not reached")
	}
}
