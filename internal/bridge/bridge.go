package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/jablotron-bridge/jablotron"
)

// Bridge operation constants.
const (
	// defaultPollInterval is used when no interval is configured.
	defaultPollInterval = 60 * time.Second

	// pollTimeout bounds a single poll cycle across all services.
	pollTimeout = 45 * time.Second

	// commandTimeout bounds a single control call to the cloud.
	commandTimeout = 15 * time.Second

	// commandQoS is the QoS for command subscriptions and acks.
	commandQoS = 1
)

// Bridge polls the Jablotron Cloud and mirrors alarm state over MQTT.
// It handles:
//   - Periodic polling of sections, gates, and thermometers per service
//   - Publishing retained state on change
//   - Receiving arm/disarm and gate commands via MQTT and forwarding
//     them to the cloud, with acks for the result
//   - Optional thermometer telemetry to InfluxDB
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	cloud  CloudClient
	mqtt   MQTTClient
	thermo TemperatureWriter // Optional, may be nil

	pollInterval time.Duration
	serviceType  string
	thermometers bool

	// State cache for change detection, keyed by MQTT topic.
	stateCache   map[string]string
	stateCacheMu sync.Mutex

	// Shutdown coordination
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	ctx       context.Context    // Bridge-level context, cancelled on Stop()
	ctxCancel context.CancelFunc // Cancel function for ctx

	// Logger
	logger   Logger
	loggerMu sync.RWMutex
}

// CloudClient is the interface for Jablotron Cloud operations.
// This allows mocking in tests and flexibility in implementation.
// It is satisfied by *jablotron.Client.
type CloudClient interface {
	// GetServices lists the services on the account.
	GetServices(ctx context.Context) ([]jablotron.Service, error)

	// GetSections lists alarm sections and their states for a service.
	GetSections(ctx context.Context, q jablotron.ServiceQuery) (*jablotron.Sections, error)

	// GetProgrammableGates lists controllable outputs and their states.
	GetProgrammableGates(ctx context.Context, q jablotron.ServiceQuery) (*jablotron.ProgrammableGates, error)

	// GetThermoDevices lists thermometer readings for a service.
	GetThermoDevices(ctx context.Context, q jablotron.ServiceQuery) ([]jablotron.ThermoDevice, error)

	// ControlSection sets a section's arm state.
	ControlSection(ctx context.Context, ctrl jablotron.SectionControl) (bool, error)

	// ControlProgrammableGate switches a gate on or off.
	ControlProgrammableGate(ctx context.Context, ctrl jablotron.GateControl) (bool, error)
}

// MQTTClient is the interface for MQTT operations.
// It is satisfied by *mqtt.Client.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// TemperatureWriter records thermometer readings to time-series storage.
// This is optional - if nil, the bridge operates without telemetry.
// It is satisfied by *tsdb.Client.
type TemperatureWriter interface {
	// WriteTemperature records one reading. Non-blocking.
	WriteTemperature(serviceID int, deviceID string, celsius float64, at time.Time)
}

// Logger is the interface for optional structured logging.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Options holds configuration for creating a bridge.
type Options struct {
	// Cloud is the Jablotron Cloud client. Required.
	Cloud CloudClient

	// MQTT is the MQTT client implementation. Required.
	MQTT MQTTClient

	// Thermo is optional time-series storage for thermometer readings.
	// If nil, the bridge operates without telemetry.
	Thermo TemperatureWriter

	// Logger is optional structured logger.
	Logger Logger

	// PollInterval is the time between cloud polls. Defaults to 60s.
	PollInterval time.Duration

	// ServiceType is the service family for per-service calls.
	// Empty means the library default.
	ServiceType string

	// Thermometers enables polling and publishing thermometer readings.
	Thermometers bool
}

// New creates a new bridge instance.
// Call Start() to begin operation.
func New(opts Options) (*Bridge, error) {
	if opts.Cloud == nil {
		return nil, fmt.Errorf("cloud client is required")
	}
	if opts.MQTT == nil {
		return nil, fmt.Errorf("MQTT client is required")
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	// Create bridge-level context for command cancellation on shutdown
	ctx, ctxCancel := context.WithCancel(context.Background())

	return &Bridge{
		cloud:        opts.Cloud,
		mqtt:         opts.MQTT,
		thermo:       opts.Thermo, // May be nil (optional)
		pollInterval: pollInterval,
		serviceType:  opts.ServiceType,
		thermometers: opts.Thermometers,
		stateCache:   make(map[string]string),
		done:         make(chan struct{}),
		ctx:          ctx,
		ctxCancel:    ctxCancel,
		logger:       opts.Logger,
	}, nil
}

// Start begins bridge operation.
// This subscribes to command topics and starts the poll loop.
// The first poll runs immediately so retained state is populated on boot.
func (b *Bridge) Start(ctx context.Context) error {
	commandTopic := mqtt.Topics{}.AllCommands()
	if err := b.mqtt.Subscribe(commandTopic, commandQoS, b.handleCommand); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	b.logInfo("subscribed to commands", "topic", commandTopic)

	b.wg.Add(1)
	go b.pollLoop()

	b.logInfo("bridge started", "poll_interval", b.pollInterval.String())
	return nil
}

// Stop gracefully shuts down the bridge.
// In-flight cloud calls are cancelled and the poll loop drains.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.ctxCancel()
		b.wg.Wait()
		b.logInfo("bridge stopped")
	})
}

// publishIfChanged publishes a retained message only when cacheKey
// differs from the last one seen for the topic. The cache key is the
// payload with volatile fields (publish timestamp) zeroed, so a stable
// installation generates no broker traffic between events.
func (b *Bridge) publishIfChanged(topic, cacheKey string, payload []byte) {
	b.stateCacheMu.Lock()
	unchanged := b.stateCache[topic] == cacheKey
	if !unchanged {
		b.stateCache[topic] = cacheKey
	}
	b.stateCacheMu.Unlock()

	if unchanged {
		return
	}

	if err := b.mqtt.Publish(topic, payload, commandQoS, true); err != nil {
		b.logError("failed to publish state", err, "topic", topic)
		// Drop from cache so the next poll retries the publish.
		b.stateCacheMu.Lock()
		delete(b.stateCache, topic)
		b.stateCacheMu.Unlock()
	}
}

// ClearStateCache removes all entries from the state cache, forcing the
// next poll to republish every topic. Call after a broker reconnect when
// retained messages may have been lost.
func (b *Bridge) ClearStateCache() {
	b.stateCacheMu.Lock()
	defer b.stateCacheMu.Unlock()
	b.stateCache = make(map[string]string)
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	b.loggerMu.Lock()
	b.logger = logger
	b.loggerMu.Unlock()
}

// logInfo logs an info message if logger is set.
func (b *Bridge) logInfo(msg string, keysAndValues ...any) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()

	if logger != nil {
		logger.Info(msg, keysAndValues...)
	}
}

// logWarn logs a warning message if logger is set.
func (b *Bridge) logWarn(msg string, keysAndValues ...any) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()

	if logger != nil {
		logger.Warn(msg, keysAndValues...)
	}
}

// logError logs an error message if logger is set.
func (b *Bridge) logError(msg string, err error, keysAndValues ...any) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()

	if logger != nil {
		args := append([]any{"error", err}, keysAndValues...)
		logger.Error(msg, args...)
	}
}
