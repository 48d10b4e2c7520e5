// Package realtime delivers database change notifications to in-process
// subscribers. It rides Postgres LISTEN/NOTIFY: triggers publish one JSON
// payload per row mutation on a single channel, and the listener fans the
// events out by table.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
)

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = 30 * time.Second
)

// Listener implements domain.Realtime on top of a pq.Listener.
type Listener struct {
	pl  *pq.Listener
	log logger.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(domain.ChangeEvent)
	closed bool

	done chan struct{}
}

var _ domain.Realtime = (*Listener)(nil)

// New connects to the database and starts listening on the given channel.
// Events received before the first Subscribe call are discarded.
func New(databaseURL, channel string, log logger.Logger) (*Listener, error) {
	l := &Listener{
		log:  log,
		subs: make(map[string]map[int]func(domain.ChangeEvent)),
		done: make(chan struct{}),
	}
	l.pl = pq.NewListener(databaseURL, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Warn("realtime listener event", "event", int(ev), "error", err)
			}
		})
	if err := l.pl.Listen(channel); err != nil {
		l.pl.Close()
		return nil, err
	}
	go l.run()
	return l, nil
}

// Subscribe registers fn for change events on the given table. The returned
// subscription is released with Unsubscribe; releasing twice is harmless.
func (l *Listener) Subscribe(_ context.Context, table string, fn func(domain.ChangeEvent)) (domain.Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, domain.NewTransientError(errors.New("realtime listener is closed"))
	}
	l.nextID++
	id := l.nextID
	if l.subs[table] == nil {
		l.subs[table] = make(map[int]func(domain.ChangeEvent))
	}
	l.subs[table][id] = fn
	return &subscription{listener: l, table: table, id: id}, nil
}

// Close stops dispatching and tears down the database connection.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	close(l.done)
	return l.pl.Close()
}

func (l *Listener) run() {
	for {
		select {
		case <-l.done:
			return
		case n, ok := <-l.pl.Notify:
			if !ok {
				return
			}
			if n == nil {
				// nil marks a reconnect; notifications may have been lost.
				l.log.Warn("realtime connection re-established, events may have been missed")
				continue
			}
			l.dispatch([]byte(n.Extra))
		case <-time.After(90 * time.Second):
			go l.pl.Ping()
		}
	}
}

func (l *Listener) dispatch(payload []byte) {
	var ev domain.ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		l.log.Error("dropping malformed change event", "error", err)
		return
	}

	l.mu.RLock()
	fns := make([]func(domain.ChangeEvent), 0, len(l.subs[ev.Table]))
	for _, fn := range l.subs[ev.Table] {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (l *Listener) unsubscribe(table string, id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs[table], id)
	if len(l.subs[table]) == 0 {
		delete(l.subs, table)
	}
}

type subscription struct {
	listener *Listener
	table    string
	id       int
	once     sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.listener.unsubscribe(s.table, s.id) })
}
