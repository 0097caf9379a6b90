// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams engine events to websocket clients.
package subscriptions

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/api/restutil"
	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	eventQueueLen = 64
	pingPeriod    = 10 * time.Second
	writeTimeout  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// EventMessage is the wire form of one streamed event.
type EventMessage struct {
	Time        uint64             `json:"time"`
	Name        string             `json:"name"`
	Topic       stakehive.Bytes32  `json:"topic"`
	Participant *stakehive.Address `json:"participant,omitempty"`
	Amount      *big.Int           `json:"amount,omitempty"`
	Aux         *big.Int           `json:"aux,omitempty"`
}

func convertEvent(ev staking.Event) *EventMessage {
	msg := &EventMessage{
		Time:  ev.Time(),
		Name:  ev.Name(),
		Topic: stakehive.Blake2b([]byte(ev.Name())),
	}
	switch ev := ev.(type) {
	case *staking.Deposited:
		p := ev.Participant
		msg.Participant = &p
		msg.Amount = ev.Amount
	case *staking.Withdrawn:
		p := ev.Participant
		msg.Participant = &p
		msg.Amount = ev.Principal
		msg.Aux = ev.Reward
	case *staking.RewardsDistributed:
		msg.Amount = ev.Total
		msg.Aux = new(big.Int).SetUint64(uint64(ev.Settled))
	case *staking.RateUpdated:
		msg.Amount = ev.NewRate
		msg.Aux = ev.OldRate
	}
	return msg
}

// Subscriptions is a fan-out hub for engine events. It implements
// staking.EventSink, so it can be wired straight into the engine's sink
// chain; Publish never blocks the engine.
type Subscriptions struct {
	mu        sync.RWMutex
	listeners map[chan *EventMessage]struct{}
	done      chan struct{}
	wg        sync.WaitGroup
}

func New() *Subscriptions {
	return &Subscriptions{
		listeners: make(map[chan *EventMessage]struct{}),
		done:      make(chan struct{}),
	}
}

// Publish fans the event out to every subscriber. Slow subscribers are
// skipped rather than blocking the engine.
func (s *Subscriptions) Publish(ev staking.Event) {
	msg := convertEvent(ev)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for lsn := range s.listeners {
		select {
		case lsn <- msg:
		default:
		}
	}
}

func (s *Subscriptions) subscribe() chan *EventMessage {
	ch := make(chan *EventMessage, eventQueueLen)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[ch] = struct{}{}
	return ch
}

func (s *Subscriptions) unsubscribe(ch chan *EventMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, ch)
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	name := req.URL.Query().Get("name")
	switch name {
	case "", staking.EventNameDeposited, staking.EventNameWithdrawn,
		staking.EventNameRewardsDistributed, staking.EventNameRateUpdated:
	default:
		return restutil.BadRequest(errors.Errorf("name: unknown event %q", name))
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("failed to upgrade subscription", "err", err)
		return nil
	}
	defer conn.Close()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	s.wg.Add(1)
	defer s.wg.Done()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		// drain control frames and detect peer close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case msg := <-ch:
			if name != "" && msg.Name != name {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return nil
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return nil
		}
	}
}

// Close tells connected clients to go away and waits for their handlers
// to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
