// Package client provides a high-level client SDK for connecting to a
// keynode server.
//
// There is no cluster to route across here — one process owns the whole
// key directory — so the client is a single persistent connection plus a
// small retry loop, speaking the line protocol directly. It keeps the
// teacher's per-command method shape (Get, Set, HGet, ...) and its
// retry-then-reconnect behavior, dropping only the multi-node connection
// pool and consistent-hash node selection that a single-process server
// has no use for.
//
// Basic Usage:
//
//	c, err := client.New("localhost:8080")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	err = c.Set("user:123", "john_doe")
//	value, err := c.Get("user:123")
//
//	c.HSet("user:123:profile", "name", "John Doe")
//	profile, err := c.HGetAll("user:123:profile")
//
//	length, err := c.LPush("tasks", "task1", "task2")
//	task, err := c.LPop("tasks")
//
//	added, err := c.SAdd("tags", "golang", "cache")
//	members, err := c.SMembers("tags")
package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Default retry and timeout behavior.
const (
	DefaultRetryAttempts = 3
	DefaultConnTimeout   = 5 * time.Second
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 10 * time.Second
)

// Client is a single-connection SDK for a keynode server. It is
// thread-safe: a mutex serializes command/response pairs over the one
// underlying connection, matching the protocol's one-line-request,
// one-line-response contract.
type Client struct {
	address       string
	retryAttempts int
	connTimeout   time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// New creates a Client connected to address ("host:port") with default
// timeouts and retry behavior.
func New(address string) (*Client, error) {
	c := &Client{
		address:       address,
		retryAttempts: DefaultRetryAttempts,
		connTimeout:   DefaultConnTimeout,
		readTimeout:   DefaultReadTimeout,
		writeTimeout:  DefaultWriteTimeout,
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	conn, err := net.DialTimeout("tcp", c.address, c.connTimeout)
	if err != nil {
		return fmt.Errorf("client: failed to connect to %s: %w", c.address, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Do sends a raw command line (command plus arguments, each taken
// verbatim — no quoting is available in the wire protocol) and returns the
// server's single-line reply, retrying on connection failure up to
// retryAttempts times.
func (c *Client) Do(command string, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := command
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if c.conn == nil {
			if err := c.connect(); err != nil {
				lastErr = err
				continue
			}
		}

		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			lastErr = err
			c.closeBroken()
			continue
		}
		if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
			lastErr = err
			c.closeBroken()
			continue
		}

		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			lastErr = err
			c.closeBroken()
			continue
		}
		reply, err := c.reader.ReadString('\n')
		if err != nil {
			lastErr = err
			c.closeBroken()
			continue
		}
		return strings.TrimRight(reply, "\r\n"), nil
	}

	return "", fmt.Errorf("command failed after %d attempts: %w", c.retryAttempts+1, lastErr)
}

func (c *Client) closeBroken() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		c.reader = nil
	}
}

func errorReply(reply string) error {
	if strings.HasPrefix(reply, "type mismatch") || strings.HasPrefix(reply, "unknown command") ||
		strings.HasPrefix(reply, "Too few parameters") || strings.HasPrefix(reply, "index out of range") ||
		strings.HasPrefix(reply, "value is not") || strings.HasPrefix(reply, "syntax error") {
		return fmt.Errorf("server error: %s", reply)
	}
	return nil
}

// Get retrieves the string value of a key.
func (c *Client) Get(key string) (string, error) {
	reply, err := c.Do("get", key)
	if err != nil {
		return "", err
	}
	if err := errorReply(reply); err != nil {
		return "", err
	}
	if reply == "None" {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return reply, nil
}

// Set stores a string value, overwriting any existing value at key.
func (c *Client) Set(key, value string) error {
	reply, err := c.Do("set", key, value)
	if err != nil {
		return err
	}
	return errorReply(reply)
}

// SetNx stores a string value only if key does not already exist,
// reporting whether the write happened.
func (c *Client) SetNx(key, value string) (bool, error) {
	reply, err := c.Do("setnx", key, value)
	if err != nil {
		return false, err
	}
	if err := errorReply(reply); err != nil {
		return false, err
	}
	return reply == "1", nil
}

// Incr increments the integer value of key by one.
func (c *Client) Incr(key string) (int64, error) {
	return c.intCommand("incr", key)
}

// Decr decrements the integer value of key by one.
func (c *Client) Decr(key string) (int64, error) {
	return c.intCommand("decr", key)
}

func (c *Client) intCommand(command, key string, args ...string) (int64, error) {
	a := append([]string{key}, args...)
	reply, err := c.Do(command, a...)
	if err != nil {
		return 0, err
	}
	if err := errorReply(reply); err != nil {
		return 0, err
	}
	return strconv.ParseInt(reply, 10, 64)
}

// Del removes one or more keys, returning how many actually existed.
func (c *Client) Del(keys ...string) (int64, error) {
	reply, err := c.Do("del", keys...)
	if err != nil {
		return 0, err
	}
	if err := errorReply(reply); err != nil {
		return 0, err
	}
	return strconv.ParseInt(reply, 10, 64)
}

// Exists reports whether every given key currently exists.
func (c *Client) Exists(keys ...string) (bool, error) {
	reply, err := c.Do("exists", keys...)
	if err != nil {
		return false, err
	}
	if err := errorReply(reply); err != nil {
		return false, err
	}
	return reply == "1", nil
}

// HGet retrieves one field of a hash.
func (c *Client) HGet(key, field string) (string, error) {
	reply, err := c.Do("hget", key, field)
	if err != nil {
		return "", err
	}
	if err := errorReply(reply); err != nil {
		return "", err
	}
	if reply == "None" {
		return "", fmt.Errorf("field not found: %s", field)
	}
	return reply, nil
}

// HSet sets one field of a hash, creating the hash if it doesn't exist.
func (c *Client) HSet(key, field, value string) error {
	reply, err := c.Do("hset", key, field, value)
	if err != nil {
		return err
	}
	return errorReply(reply)
}

// HGetAll retrieves every field/value pair of a hash.
func (c *Client) HGetAll(key string) (map[string]string, error) {
	reply, err := c.Do("hgetall", key)
	if err != nil {
		return nil, err
	}
	if err := errorReply(reply); err != nil {
		return nil, err
	}
	return pairsToMap(reply), nil
}

func pairsToMap(reply string) map[string]string {
	out := make(map[string]string)
	if reply == "" {
		return out
	}
	parts := strings.Split(reply, "\n")
	for i := 0; i+1 < len(parts); i += 2 {
		out[parts[i]] = parts[i+1]
	}
	return out
}

// LPush prepends one or more values to a list, creating it if absent, and
// returns the list's new length.
func (c *Client) LPush(key string, values ...string) (int64, error) {
	return c.intCommand("lpush", key, values...)
}

// RPush appends one or more values to a list, creating it if absent, and
// returns the list's new length.
func (c *Client) RPush(key string, values ...string) (int64, error) {
	return c.intCommand("rpush", key, values...)
}

// LPop removes and returns the first element of a list.
func (c *Client) LPop(key string) (string, error) {
	reply, err := c.Do("lpop", key)
	if err != nil {
		return "", err
	}
	if err := errorReply(reply); err != nil {
		return "", err
	}
	if reply == "None" {
		return "", fmt.Errorf("list empty or missing: %s", key)
	}
	return reply, nil
}

// LRange returns the elements of a list between start and end, inclusive,
// with Redis-style negative indices counting from the tail.
func (c *Client) LRange(key string, start, end int) ([]string, error) {
	reply, err := c.Do("lrange", key, strconv.Itoa(start), strconv.Itoa(end))
	if err != nil {
		return nil, err
	}
	if err := errorReply(reply); err != nil {
		return nil, err
	}
	return splitList(reply), nil
}

func splitList(reply string) []string {
	if reply == "" {
		return nil
	}
	return strings.Split(reply, "\n")
}

// SAdd adds one or more members to a set, creating it if absent, and
// returns how many were newly added.
func (c *Client) SAdd(key string, members ...string) (int64, error) {
	return c.intCommand("sadd", key, members...)
}

// SMembers returns every member of a set.
func (c *Client) SMembers(key string) ([]string, error) {
	reply, err := c.Do("smembers", key)
	if err != nil {
		return nil, err
	}
	if err := errorReply(reply); err != nil {
		return nil, err
	}
	return splitList(reply), nil
}

// SIsMember reports whether every given member is present in the set,
// matching the server's all-match SISMEMBER semantics.
func (c *Client) SIsMember(key string, members ...string) (bool, error) {
	reply, err := c.Do("sismember", append([]string{key}, members...)...)
	if err != nil {
		return false, err
	}
	if err := errorReply(reply); err != nil {
		return false, err
	}
	return reply == "1", nil
}

// MGet retrieves several string keys in one round trip, with "" standing
// in for a missing or non-string key.
func (c *Client) MGet(keys ...string) ([]string, error) {
	reply, err := c.Do("mget", keys...)
	if err != nil {
		return nil, err
	}
	if err := errorReply(reply); err != nil {
		return nil, err
	}
	out := splitList(reply)
	for i, v := range out {
		if v == "None" {
			out[i] = ""
		}
	}
	return out, nil
}

// MSet stores several key/value string pairs in one round trip.
func (c *Client) MSet(pairs ...string) error {
	reply, err := c.Do("mset", pairs...)
	if err != nil {
		return err
	}
	return errorReply(reply)
}

// Ping checks connectivity to the server.
func (c *Client) Ping() error {
	reply, err := c.Do("ping")
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected ping reply: %s", reply)
	}
	return nil
}

// Close terminates the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}
