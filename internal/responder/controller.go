// Package responder owns the live application state: the settings snapshot,
// aggregate stats and the bounded history. Every mutation flows through a
// single consumer loop so completions arriving in any order fold exactly once.
package responder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edgard/autoreply/internal/mail"
)

// ErrStopped is returned for submissions made after the consumer loop stopped.
var ErrStopped = errors.New("responder stopped")

// DefaultTimeout bounds a single classification when no timeout is configured.
const DefaultTimeout = time.Minute

// eventBuffer sizes the event queue so short bursts never block producers.
const eventBuffer = 64

// Classifier turns a pending message into a terminal one.
type Classifier interface {
	Classify(ctx context.Context, m mail.Message, s mail.Settings) mail.Message
}

// Recorder receives every terminal message after it has been folded.
type Recorder interface {
	Record(ctx context.Context, m mail.Message) error
}

// Snapshot is a read-only copy of the controller state for display layers.
type Snapshot struct {
	Stats     mail.Stats
	History   mail.History
	Settings  mail.Settings
	Running   bool
	Connected bool
}

type eventKind int

const (
	eventPending eventKind = iota
	eventComplete
	eventTerminal
)

type event struct {
	kind eventKind
	msg  mail.Message
	done chan struct{}
}

// Controller serialises state changes produced by concurrent classifications.
type Controller struct {
	classifier Classifier
	recorder   Recorder
	logger     *slog.Logger
	timeout    time.Duration
	now        func() time.Time

	settings  atomic.Pointer[mail.Settings]
	running   atomic.Bool
	connected atomic.Bool

	events  chan event
	changed chan struct{}

	lifecycle sync.Mutex
	stopped   bool
	inflight  sync.WaitGroup

	mu      sync.RWMutex
	stats   mail.Stats
	history mail.History
}

// Option customises a Controller.
type Option func(*Controller)

// WithRecorder attaches a decision journal.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTimeout bounds each classification.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController validates the initial settings and returns an idle controller.
// Run must be started before submissions are applied.
func NewController(classifier Classifier, settings mail.Settings, opts ...Option) (*Controller, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}

	c := &Controller{
		classifier: classifier,
		logger:     slog.Default(),
		timeout:    DefaultTimeout,
		now:        time.Now,
		events:     make(chan event, eventBuffer),
		changed:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "responder")

	if err := c.UpdateSettings(settings); err != nil {
		return nil, err
	}
	return c, nil
}

// Settings returns a copy of the current settings.
func (c *Controller) Settings() mail.Settings {
	return c.settings.Load().Clone()
}

// UpdateSettings normalises, validates and atomically swaps the settings.
// Classifications already in flight keep the snapshot they started with.
func (c *Controller) UpdateSettings(s mail.Settings) error {
	s = s.Clone().Normalized()
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings.Store(&s)
	c.notify()
	return nil
}

// SetRunning toggles the run/pause state consulted by the synthetic source.
func (c *Controller) SetRunning(running bool) {
	c.running.Store(running)
	c.notify()
	c.logger.Info("Run state changed", "running", running)
}

// Running reports whether the synthetic source should produce messages.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// SetConnected records the account connection state for display.
func (c *Controller) SetConnected(connected bool) {
	c.connected.Store(connected)
	c.notify()
}

// Snapshot returns a consistent copy of the state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Stats:     c.stats,
		History:   c.history,
		Settings:  c.Settings(),
		Running:   c.running.Load(),
		Connected: c.connected.Load(),
	}
}

// Changed signals after state changes. Bursts coalesce into one signal, so a
// single consumer should re-read Snapshot on every receive.
func (c *Controller) Changed() <-chan struct{} {
	return c.changed
}

func (c *Controller) notify() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Submit records msg as pending and classifies it in the background. The
// classification does not inherit ctx cancellation; it is bounded only by
// the controller timeout.
func (c *Controller) Submit(ctx context.Context, msg mail.Message) error {
	if err := c.acquire(); err != nil {
		return err
	}

	c.events <- event{kind: eventPending, msg: msg}

	settings := c.Settings()
	go func() {
		defer c.inflight.Done()

		result := c.classify(ctx, msg, settings)
		c.events <- event{kind: eventComplete, msg: result}
	}()
	return nil
}

// Test classifies msg synchronously and returns once the result has been
// folded into the stats and history.
func (c *Controller) Test(ctx context.Context, msg mail.Message) (mail.Message, error) {
	if err := c.acquire(); err != nil {
		return msg, err
	}

	result := c.classify(ctx, msg, c.Settings())
	done := make(chan struct{})
	c.events <- event{kind: eventTerminal, msg: result, done: done}
	c.inflight.Done()

	select {
	case <-done:
		return result, nil
	case <-ctx.Done():
		return result, fmt.Errorf("waiting for result to be recorded: %w", ctx.Err())
	}
}

// Seed records already terminal messages, oldest first, without classifying them.
func (c *Controller) Seed(msgs ...mail.Message) error {
	for _, m := range msgs {
		if !m.Status.IsTerminal() {
			return fmt.Errorf("seed message %s is %s: %w", m.ID, m.Status, mail.ErrNotTerminal)
		}
	}
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.inflight.Done()

	for _, m := range msgs {
		c.events <- event{kind: eventTerminal, msg: m}
	}
	return nil
}

// Run applies events until ctx is cancelled. It then refuses new submissions,
// waits for every in-flight classification and applies its result before
// returning.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("Responder started")

	for {
		select {
		case ev := <-c.events:
			c.apply(ctx, ev)
			continue
		case <-ctx.Done():
		}
		break
	}

	c.lifecycle.Lock()
	c.stopped = true
	c.lifecycle.Unlock()

	c.logger.Info("Responder stopping, waiting for in-flight classifications")

	drained := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(drained)
	}()

	flushCtx := context.WithoutCancel(ctx)
	for {
		select {
		case ev := <-c.events:
			c.apply(flushCtx, ev)
		case <-drained:
			for {
				select {
				case ev := <-c.events:
					c.apply(flushCtx, ev)
				default:
					c.logger.Info("Responder stopped")
					return nil
				}
			}
		}
	}
}

func (c *Controller) acquire() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.stopped {
		return ErrStopped
	}
	c.inflight.Add(1)
	return nil
}

func (c *Controller) classify(ctx context.Context, msg mail.Message, s mail.Settings) mail.Message {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	return c.classifier.Classify(cctx, msg, s)
}

func (c *Controller) apply(ctx context.Context, ev event) {
	if ev.done != nil {
		defer close(ev.done)
	}

	defer c.notify()

	c.mu.Lock()
	switch ev.kind {
	case eventPending:
		c.history = c.history.Push(ev.msg)
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "Message queued", "message_id", ev.msg.ID, "sender", ev.msg.Sender)
		return

	case eventComplete:
		var replaced bool
		c.history, replaced = c.history.Replace(ev.msg)
		if !replaced {
			c.logger.DebugContext(ctx, "Placeholder already evicted", "message_id", ev.msg.ID)
		}

	case eventTerminal:
		c.history = c.history.Push(ev.msg)
	}
	c.stats = mail.Fold(c.stats, ev.msg, c.now())
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Message processed",
		"message_id", ev.msg.ID,
		"sender", ev.msg.Sender,
		"status", ev.msg.Status,
		"reason", ev.msg.Reason)

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, ev.msg); err != nil {
			c.logger.WarnContext(ctx, "Failed to record decision", "message_id", ev.msg.ID, "error", err)
		}
	}
}
