package reqcurry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type (
	// Subscription delivers payloads from a Poller. Its channel closes
	// when the poller stops or the subscription is removed.
	Subscription[T any] struct {
		id string
		ch chan T
	}

	// Poller re-invokes an endpoint on a fixed period and broadcasts
	// every decoded payload to its subscribers. Failures go to the
	// endpoint's failure handler and do not stop the loop; each tick
	// is one independent request.
	Poller[T any] struct {
		endpoint Endpoint[T]
		period   time.Duration
		subs     map[string]Subscription[T]
		last     T
		hasData  bool

		stop    chan bool
		stopped bool
		ticker  *time.Ticker

		lock sync.RWMutex
	}
)

// ErrStopped is returned by Start on a poller that has already been
// stopped.
var ErrStopped = errors.New("stopped poller")

func (s Subscription[T]) Updates() <-chan T {
	return s.ch
}

func NewPoller[T any](endpoint Endpoint[T], period time.Duration) *Poller[T] {
	return &Poller[T]{
		endpoint: endpoint,
		period:   period,
		subs:     make(map[string]Subscription[T]),
		stop:     make(chan bool),
	}
}

func (p *Poller[T]) Start() error {
	log.WithField("period", p.period.String()).
		WithField("url", p.endpoint.Locator()).
		Info("starting poller")
	if p.stopped {
		return ErrStopped
	}
	go p.loop()
	return nil
}

func (p *Poller[T]) Stop() {
	if p.stopped {
		return
	}
	p.stop <- true
}

func (p *Poller[T]) loop() {
	// initial request before the first tick
	p.refresh()
	p.ticker = time.NewTicker(p.period)
	defer p.ticker.Stop()
loop:
	for {
		select {
		case <-p.ticker.C:
			log.Debug("poll tick, running request")
			p.refresh()
		case <-p.stop:
			log.Info("got stop signal, quitting")
			break loop
		}
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	p.stopped = true

	log.Debug("closing subscription channels")
	for _, sub := range p.subs {
		close(sub.ch)
	}
	close(p.stop)
}

// refresh runs one request synchronously so ticks never overlap.
func (p *Poller[T]) refresh() {
	p.endpoint.run(p.publish)
}

func (p *Poller[T]) publish(data T) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.last = data
	p.hasData = true

	log.Debug("notifying subscribers")
	for _, sub := range p.subs {
		sub.ch <- p.last
	}
}

func (p *Poller[T]) Subscribe(chSize int) Subscription[T] {
	sub := Subscription[T]{
		id: uuid.New().String(),
		ch: make(chan T, chSize),
	}

	slog := log.WithField("sub_id", sub.id)

	if p.stopped {
		slog.Debug("poller is stopped, closing subscription straight away")
		close(sub.ch)
		return sub
	}

	p.lock.Lock()
	p.subs[sub.id] = sub
	p.lock.Unlock()

	if p.hasData {
		slog.Debug("sending last payload to new subscriber")
		sub.ch <- p.last
	}

	return sub
}

func (p *Poller[T]) Unsubscribe(sub Subscription[T]) {
	slog := log.WithField("sub_id", sub.id)
	p.lock.Lock()
	defer p.lock.Unlock()
	slog.Info("removing subscription")
	delete(p.subs, sub.id)
	slog.Info("closing subscription channel")
	close(sub.ch)
}
