// Package metadata forwards metadata regeneration requests to the
// fleet supervisor.
//
// A configured device with no loaded integrations usually means a
// definition file was just dropped in and has not been analysed yet.
// The dashboard reports such devices here; the refresher batches the
// requests through a bounded queue and publishes them to the metadata
// request topic. Submissions are fire and forget: a full queue drops
// the request with a warning instead of blocking the reconciliation
// loop, and the next snapshot will resubmit anything still missing.
package metadata

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nerrad567/flotilla/internal/infrastructure/logging"
	"github.com/nerrad567/flotilla/internal/infrastructure/mqtt"
)

// Publisher is the broker operation the refresher depends on.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Refresher queues and publishes metadata regeneration requests.
type Refresher struct {
	publisher Publisher
	qos       byte
	logger    *logging.Logger
	topics    mqtt.Topics

	mu      sync.Mutex
	pending map[string]struct{}

	queue  chan string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// request is the wire form of one regeneration request.
type request struct {
	Configuration string `json:"configuration"`
}

// New creates a refresher with the given queue capacity.
func New(publisher Publisher, qos byte, queueSize int, logger *logging.Logger) *Refresher {
	return &Refresher{
		publisher: publisher,
		qos:       qos,
		logger:    logger,
		pending:   make(map[string]struct{}),
		queue:     make(chan string, queueSize),
	}
}

// Start launches the publishing loop. The loop exits when ctx is
// cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop terminates the publishing loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Enqueue submits a configuration for metadata regeneration.
//
// Never blocks. A configuration already waiting in the queue is
// dropped silently; a full queue drops the submission with a warning.
func (r *Refresher) Enqueue(configuration string) {
	if configuration == "" {
		return
	}

	r.mu.Lock()
	if _, ok := r.pending[configuration]; ok {
		r.mu.Unlock()
		return
	}
	r.pending[configuration] = struct{}{}
	r.mu.Unlock()

	select {
	case r.queue <- configuration:
	default:
		r.clearPending(configuration)
		r.logger.Warn("metadata request queue full, dropping request",
			"configuration", configuration)
	}
}

// PendingCount reports how many configurations are waiting.
func (r *Refresher) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case configuration := <-r.queue:
			r.publish(configuration)
		}
	}
}

func (r *Refresher) publish(configuration string) {
	defer r.clearPending(configuration)

	payload, err := json.Marshal(request{Configuration: configuration})
	if err != nil {
		r.logger.Error("failed to encode metadata request",
			"configuration", configuration, "error", err)
		return
	}

	if err := r.publisher.Publish(r.topics.MetadataRequest(), payload, r.qos, false); err != nil {
		r.logger.Warn("failed to publish metadata request",
			"configuration", configuration, "error", err)
	}
}

func (r *Refresher) clearPending(configuration string) {
	r.mu.Lock()
	delete(r.pending, configuration)
	r.mu.Unlock()
}
