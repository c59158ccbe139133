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

package webinspect

import (
	"errors"
	"net/http"
	"time"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/logger"
)

// Sentinal errors.
const (
	ServeError = "webinspect: %v"
)

// Server is a hub listening on a network address. The websocket is served at
// the /inspect path.
type Server struct {
	Hub  *Hub
	http *http.Server
}

// NewServer is the preferred method of initialisation for the Server type.
func NewServer(addr string, source Source, interval time.Duration) *Server {
	srv := &Server{
		Hub: NewHub(source, interval),
	}

	mux := http.NewServeMux()
	mux.Handle("/inspect", srv.Hub)

	srv.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv
}

// ListenAndServe starts the hub and blocks until Shutdown() is called or the
// server fails.
func (srv *Server) ListenAndServe() error {
	go srv.Hub.Run()

	logger.Logf(logger.Allow, "webinspect", "listening on %s", srv.http.Addr)

	err := srv.http.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		srv.Hub.Stop()
		return curated.Errorf(ServeError, err)
	}
	return nil
}

// Shutdown stops the server and the hub.
func (srv *Server) Shutdown() error {
	err := srv.http.Close()
	srv.Hub.Stop()
	if err != nil {
		return curated.Errorf(ServeError, err)
	}
	return nil
}
