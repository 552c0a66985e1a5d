// Package server implements the keynode TCP server: it owns the listener
// and the key directory, and hands each accepted connection to its own
// session goroutine.
//
// Architecture:
//   - TCP server with concurrent connection handling
//   - Line-oriented protocol, one session goroutine per connection
//   - A single sharded key directory shared by every session
//   - Graceful shutdown support
//
// Example usage:
//
//	srv := server.New(cfg)
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/keynode/keynode/internal/session"
	"github.com/keynode/keynode/pkg/config"
	"github.com/keynode/keynode/pkg/directory"
)

// Server represents a keynode server instance. It manages TCP connections
// and owns the key directory shared by every connection's session.
type Server struct {
	cfg      *config.ServerConfig
	dir      *directory.Directory
	listener net.Listener
}

// New creates a new Server instance that will listen per cfg. The server
// is not started until Start() is called.
func New(cfg *config.ServerConfig) *Server {
	return &Server{
		cfg: cfg,
		dir: directory.New(cfg.DirectoryShards, cfg.VirtualNodes),
	}
}

// Start begins listening for TCP connections and spawning sessions. This
// method blocks until the server is stopped or encounters an error.
func (s *Server) Start() error {
	addr := s.cfg.Address()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	log.Printf("keynode server listening on %s (%d directory shards)", addr, s.cfg.DirectoryShards)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("failed to accept connection: %v", err)
			continue
		}

		go session.New(conn, s.dir).Serve()
	}
}

// Stop gracefully shuts down the server: it closes the listener (causing
// Start to return) and stops every live actor in the directory. In-flight
// sessions finish their current command but any further dispatch against a
// stopped actor will fail.
func (s *Server) Stop() error {
	s.dir.Stop()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
