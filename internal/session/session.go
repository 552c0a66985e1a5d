// Package session implements the per-connection command loop: read a line,
// classify it, enforce the preconditions the actors themselves can't see
// (must-exist, cannot-exist), dispatch to the key directory, write one
// reply line back. This mirrors the teacher's
// internal/server.handleConnection loop shape — read with a deadline,
// execute, write with a deadline — generalized from a single binary
// command/response pair to the line protocol and from a single shared
// cache to the sharded actor directory.
package session

import (
	"bufio"
	"context"
	"log"
	"net"
	"strings"
	"time"

	"github.com/keynode/keynode/pkg/directory"
	"github.com/keynode/keynode/pkg/protocol"
	"github.com/keynode/keynode/pkg/registry"
)

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 10 * time.Second
	askTimeout   = 10 * time.Second
)

// Session drives one client connection against a shared Directory.
type Session struct {
	conn net.Conn
	dir  *directory.Directory
}

// New wraps conn and dir into a Session ready for Serve.
func New(conn net.Conn, dir *directory.Directory) *Session {
	return &Session{conn: conn, dir: dir}
}

// Serve reads newline-terminated commands until the connection closes or a
// read/write deadline is exceeded, replying to each with exactly one line.
func (s *Session) Serve() {
	defer func() {
		if err := s.conn.Close(); err != nil {
			log.Printf("session: error closing connection: %v", err)
		}
	}()

	reader := bufio.NewReader(s.conn)
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			log.Printf("session: error setting read deadline: %v", err)
			return
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if line == "" {
				return
			}
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		resp := s.process(line)

		if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			log.Printf("session: error setting write deadline: %v", err)
			return
		}
		if _, err := s.conn.Write([]byte(resp.Encode() + "\n")); err != nil {
			log.Printf("session: failed to write response: %v", err)
			return
		}
	}
}

func (s *Session) process(line string) *protocol.Response {
	p := protocol.ParsePayload(line)
	if p.Command == "" {
		return protocol.Error("empty command")
	}
	if p.Command == "ping" {
		return protocol.Str("PONG")
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if p.IsClientCommand {
		return s.handleClient(ctx, p)
	}

	if p.NodeType == "" && !p.IsKeyCommand {
		return protocol.Errorf("unknown command: %s", p.Command)
	}

	if !p.IsKeyCommand {
		if p.Key == "" {
			return protocol.Error("Too few parameters")
		}
		if registry.MustExist(p.Command) && !s.dir.Exists(ctx, p.Key) {
			return protocol.Int(0)
		}
		if registry.CantExist(p.Command) && s.dir.Exists(ctx, p.Key) {
			return protocol.Int(0)
		}
	}

	return s.dir.Dispatch(ctx, p)
}
