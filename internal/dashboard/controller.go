package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/nerrad567/flotilla/internal/fleet"
	"github.com/nerrad567/flotilla/internal/history"
	"github.com/nerrad567/flotilla/internal/infrastructure/logging"
)

// Subscription is a live feed registration the controller can refresh
// and release.
type Subscription interface {
	Refresh(ctx context.Context) error
	Unsubscribe() error
}

// DeviceSource registers a handler for device snapshot emissions.
type DeviceSource interface {
	Subscribe(handler func(fleet.Snapshot)) (Subscription, error)
}

// OnlineSource registers a handler for online map emissions.
type OnlineSource interface {
	Subscribe(handler func(fleet.OnlineMap)) (Subscription, error)
}

// DeviceSourceFunc adapts a subscribe function to DeviceSource.
type DeviceSourceFunc func(handler func(fleet.Snapshot)) (Subscription, error)

func (f DeviceSourceFunc) Subscribe(handler func(fleet.Snapshot)) (Subscription, error) {
	return f(handler)
}

// OnlineSourceFunc adapts a subscribe function to OnlineSource.
type OnlineSourceFunc func(handler func(fleet.OnlineMap)) (Subscription, error)

func (f OnlineSourceFunc) Subscribe(handler func(fleet.OnlineMap)) (Subscription, error) {
	return f(handler)
}

// MetadataQueue receives configurations needing metadata regeneration.
type MetadataQueue interface {
	Enqueue(configuration string)
}

// Broadcaster pushes an event to all subscribed WebSocket clients.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Options wires the controller's collaborators. Recorder may be nil
// when history is disabled; the other fields are required.
type Options struct {
	Devices     DeviceSource
	Online      OnlineSource
	Metadata    MetadataQueue
	Broadcaster Broadcaster
	Recorder    *history.Recorder
	Logger      *logging.Logger
}

// Controller runs the reconciliation event loop.
type Controller struct {
	devices     DeviceSource
	online      OnlineSource
	metadata    MetadataQueue
	broadcaster Broadcaster
	recorder    *history.Recorder
	logger      *logging.Logger

	events chan event
	quit   chan struct{}
	donech chan struct{}
	stop   sync.Once

	devSub    Subscription
	onlineSub Subscription

	// Published state, replaced by the loop and read by REST handlers.
	mu           sync.RWMutex
	list         fleet.ViewList
	added        map[string]struct{}
	scrollTarget string
	onlineMap    fleet.OnlineMap
}

// event carries one feed delivery into the loop. Exactly one field is set.
type event struct {
	snapshot *fleet.Snapshot
	online   fleet.OnlineMap
}

// New creates a controller. Call Start to subscribe and begin processing.
func New(opts Options) *Controller {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = history.NewRecorder(nil)
	}

	return &Controller{
		devices:     opts.Devices,
		online:      opts.Online,
		metadata:    opts.Metadata,
		broadcaster: opts.Broadcaster,
		recorder:    recorder,
		logger:      opts.Logger,
		events:      make(chan event, 16),
		quit:        make(chan struct{}),
		donech:      make(chan struct{}),
		added:       make(map[string]struct{}),
	}
}

// Start subscribes to both feeds and launches the event loop. Each feed
// is subscribed exactly once for the controller's lifetime.
func (c *Controller) Start() error {
	devSub, err := c.devices.Subscribe(func(snap fleet.Snapshot) {
		c.submit(event{snapshot: &snap})
	})
	if err != nil {
		return fmt.Errorf("dashboard: subscribe devices: %w", err)
	}
	c.devSub = devSub

	onlineSub, err := c.online.Subscribe(func(online fleet.OnlineMap) {
		c.submit(event{online: online})
	})
	if err != nil {
		_ = devSub.Unsubscribe()
		return fmt.Errorf("dashboard: subscribe online map: %w", err)
	}
	c.onlineSub = onlineSub

	go c.loop()
	return nil
}

// Stop releases both subscriptions and waits for the loop to drain.
// Safe to call more than once.
func (c *Controller) Stop() {
	c.stop.Do(func() {
		if c.devSub != nil {
			if err := c.devSub.Unsubscribe(); err != nil {
				c.logger.Warn("failed to unsubscribe device feed", "error", err)
			}
		}
		if c.onlineSub != nil {
			if err := c.onlineSub.Unsubscribe(); err != nil {
				c.logger.Warn("failed to unsubscribe online feed", "error", err)
			}
		}
		close(c.quit)
		<-c.donech
	})
}

// Refresh asks the device feed publisher to re-emit the current
// snapshot. The result arrives through the normal event loop.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.devSub == nil {
		return fmt.Errorf("dashboard: not started")
	}
	return c.devSub.Refresh(ctx)
}

// submit hands a feed delivery to the loop, dropping it on shutdown.
func (c *Controller) submit(ev event) {
	select {
	case c.events <- ev:
	case <-c.quit:
	}
}

func (c *Controller) loop() {
	defer close(c.donech)

	for {
		select {
		case <-c.quit:
			return
		case ev := <-c.events:
			if ev.snapshot != nil {
				c.handleSnapshot(*ev.snapshot)
			} else {
				c.handleOnline(ev.online)
			}
		}
	}
}

func (c *Controller) handleSnapshot(snap fleet.Snapshot) {
	result := fleet.Reconcile(c.ViewList(), snap)
	if !result.Changed {
		return
	}

	for _, configuration := range result.NeedsMetadata {
		c.metadata.Enqueue(configuration)
	}

	added := make(map[string]struct{}, len(result.Added))
	for _, name := range result.Added {
		added[name] = struct{}{}
	}

	c.mu.Lock()
	c.list = result.List
	c.added = added
	c.scrollTarget = result.ScrollTarget
	online := c.onlineMap
	c.mu.Unlock()

	c.recorder.RecordCycle(result.List, online)

	c.broadcaster.Broadcast("devices", BuildDevicesEvent(result.List, result.Added, result.ScrollTarget, online))

	if len(result.Added) > 0 {
		c.logger.Info("devices added", "names", result.Added)
	}
}

func (c *Controller) handleOnline(online fleet.OnlineMap) {
	c.mu.Lock()
	c.onlineMap = online
	list := c.list
	c.mu.Unlock()

	c.recorder.RecordCycle(list, online)

	c.broadcaster.Broadcast("status", online)
}

// ViewList returns the current merged device list.
func (c *Controller) ViewList() fleet.ViewList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list
}

// Online returns the current online map.
func (c *Controller) Online() fleet.OnlineMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onlineMap
}

// Device looks up an entry by name in the current view list.
func (c *Controller) Device(name string) (fleet.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.list {
		if e.Name() == name {
			return e, true
		}
	}
	return fleet.Entry{}, false
}

// IsNew reports whether the device appeared in the latest cycle.
func (c *Controller) IsNew(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.added[name]
	return ok
}
