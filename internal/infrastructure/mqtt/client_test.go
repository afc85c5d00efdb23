package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// newDisconnectedClient returns a client that has never connected.
// Validation paths must reject operations before touching the network.
func newDisconnectedClient() *Client {
	return &Client{
		subscriptions: make(map[string]subscription),
	}
}

func TestPublish_Validation(t *testing.T) {
	c := newDisconnectedClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			payload: []byte("{}"),
			qos:     0,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "jablotron/state/section/1/SEC-1",
			payload: []byte("{}"),
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   "jablotron/state/section/1/SEC-1",
			payload: make([]byte, maxPayloadSize+1),
			qos:     0,
			wantErr: ErrPublishFailed,
		},
		{
			name:    "not connected",
			topic:   "jablotron/state/section/1/SEC-1",
			payload: []byte("{}"),
			qos:     0,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	handler := func(topic string, payload []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			qos:     0,
			handler: handler,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "jablotron/command/+/+/+",
			qos:     5,
			handler: handler,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "nil handler",
			topic:   "jablotron/command/+/+/+",
			qos:     1,
			handler: nil,
			wantErr: ErrSubscribeFailed,
		},
		{
			name:    "not connected",
			topic:   "jablotron/command/+/+/+",
			qos:     1,
			handler: handler,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newDisconnectedClient()
			err := c.Subscribe(tt.topic, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
			if len(c.subscriptions) != 0 {
				t.Errorf("failed subscribe left %d tracked subscriptions, want 0", len(c.subscriptions))
			}
		})
	}
}

func TestUnsubscribe_Validation(t *testing.T) {
	c := newDisconnectedClient()

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want %v", err, ErrInvalidTopic)
	}
	if err := c.Unsubscribe("jablotron/command/+/+/+"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestClose_NeverConnected(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on never-connected client = %v, want nil", err)
	}
}

func TestHealthCheck(t *testing.T) {
	c := newDisconnectedClient()

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrNotConnected)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() with cancelled context = %v, want %v", err, context.Canceled)
	}
}

func TestOnlinePayloads(t *testing.T) {
	online := buildOnlinePayload("bridge-test")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload %q missing online status", online)
	}
	if !strings.Contains(online, `"client_id":"bridge-test"`) {
		t.Errorf("online payload %q missing client id", online)
	}

	offline := buildOfflinePayload("bridge-test")
	if !strings.Contains(offline, `"status":"offline"`) {
		t.Errorf("offline payload %q missing offline status", offline)
	}
}

func TestCallbackRegistration(t *testing.T) {
	c := newDisconnectedClient()

	connectCalled := false
	c.SetOnConnect(func() { connectCalled = true })

	var disconnectErr error
	c.SetOnDisconnect(func(err error) { disconnectErr = err })

	c.handleConnect()
	if !connectCalled {
		t.Error("OnConnect callback not invoked by handleConnect")
	}
	if !c.connected {
		t.Error("handleConnect did not mark client connected")
	}

	wantErr := errors.New("broker gone")
	c.handleDisconnect(wantErr)
	if !errors.Is(disconnectErr, wantErr) {
		t.Errorf("OnDisconnect received %v, want %v", disconnectErr, wantErr)
	}
	if c.connected {
		t.Error("handleDisconnect did not mark client disconnected")
	}
}
