package server

import (
	"net"
	"net/http"
	"sync"
)

// socketRegistry tracks live client connections, keyed by remote address, so
// they can be destroyed when the listener shuts down.
type socketRegistry struct {
	mu    sync.Mutex
	conns map[string]net.Conn
}

func newSocketRegistry() *socketRegistry {
	return &socketRegistry{conns: make(map[string]net.Conn)}
}

// trackState is installed as http.Server.ConnState.
func (r *socketRegistry) trackState(c net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		r.add(c)
	case http.StateClosed, http.StateHijacked:
		r.remove(c)
	}
}

func (r *socketRegistry) add(c net.Conn) {
	r.mu.Lock()
	r.conns[c.RemoteAddr().String()] = c
	r.mu.Unlock()
}

func (r *socketRegistry) remove(c net.Conn) {
	key := c.RemoteAddr().String()
	r.mu.Lock()
	if r.conns[key] == c {
		delete(r.conns, key)
	}
	r.mu.Unlock()
}

// destroyAll abortively closes every tracked connection and returns how many there were.
// TCP connections are reset instead of drained so a client holding the socket open
// cannot block shutdown.
func (r *socketRegistry) destroyAll() int {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]net.Conn)
	r.mu.Unlock()

	for _, c := range conns {
		if tcp, ok := c.(*net.TCPConn); ok {
			_ = tcp.SetLinger(0)
		}
		_ = c.Close()
	}
	return len(conns)
}

func (r *socketRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
