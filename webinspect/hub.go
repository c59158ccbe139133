// This file is part of Gopher500.
//
// Gopher500 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher500 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher500.  If not, see <https://www.gnu.org/licenses/>.

// Package webinspect serves the inspection snapshot of a running emulation
// to websocket clients. Every client receives the snapshot as a JSON
// encoded inspect.Report once on connection and then at a regular interval.
package webinspect

import (
	"net/http"
	"time"

	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/inspect"
	"github.com/gopher500/gopher500/logger"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Source returns the inspection snapshot to publish. It will be called from
// the hub goroutine so it must be safe to call concurrently with the
// emulation. hardware.Amiga.Info() is suitable.
type Source func() hardware.Info

// Hub implements the http.Handler interface. Connections are upgraded to
// websockets and added to the list of clients.
type Hub struct {
	source   Source
	interval time.Duration

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	quit       chan struct{}
	done       chan struct{}
}

// NewHub is the preferred method of initialisation for the Hub type. The
// Run() function must be called for the hub to do anything.
func NewHub(source Source, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = time.Second
	}
	return &Hub{
		source:     source,
		interval:   interval,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied to the request
		logger.Log(logger.Allow, "webinspect", err)
		return
	}

	c := newClient(h, conn)

	select {
	case h.register <- c:
	case <-h.quit:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Run the hub until Stop() is called. Should be run in its own goroutine.
func (h *Hub) Run() {
	defer close(h.done)

	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-h.quit:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			c.send <- inspect.NewReport(h.source())
			logger.Logf(logger.Allow, "webinspect", "client connected: %s", c.conn.RemoteAddr())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logger.Logf(logger.Allow, "webinspect", "client disconnected: %s", c.conn.RemoteAddr())
			}

		case <-t.C:
			if len(h.clients) == 0 {
				continue
			}
			rep := inspect.NewReport(h.source())
			for c := range h.clients {
				select {
				case c.send <- rep:
				default:
					// client is not keeping up
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Stop the hub and disconnect all clients. Returns once Run() has finished.
func (h *Hub) Stop() {
	close(h.quit)
	<-h.done
}
