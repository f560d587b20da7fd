package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respServer speaks enough RESP2 for GET, SET and PING. Every other command,
// including the HELLO handshake, gets an error reply so the client falls back
// to RESP2.
type respServer struct {
	ln net.Listener

	mu   sync.Mutex
	data map[string]string
	sets [][]string
}

func newRESPServer(t *testing.T) *respServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &respServer{ln: ln, data: map[string]string{}}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *respServer) Addr() string { return s.ln.Addr().String() }

func (s *respServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *respServer) handle(conn net.Conn) {
	defer conn.Close()
	rd := bufio.NewReader(conn)
	for {
		args, err := readCommand(rd)
		if err != nil {
			return
		}
		if _, err := io.WriteString(conn, s.exec(args)); err != nil {
			return
		}
	}
}

func (s *respServer) exec(args []string) string {
	if len(args) == 0 {
		return "-ERR empty command\r\n"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "GET":
		if len(args) != 2 {
			return "-ERR wrong number of arguments for 'get' command\r\n"
		}
		val, ok := s.data[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(val), val)
	case "SET":
		if len(args) < 3 {
			return "-ERR wrong number of arguments for 'set' command\r\n"
		}
		s.data[args[1]] = args[2]
		s.sets = append(s.sets, args)
		return "+OK\r\n"
	default:
		return "-ERR unknown command '" + args[0] + "'\r\n"
	}
}

func (s *respServer) put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *respServer) setCommands() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.sets...)
}

func readCommand(rd *bufio.Reader) ([]string, error) {
	line, err := readLine(rd)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return strings.Fields(line), nil
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for range n {
		header, err := readLine(rd)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(header, "$") {
			return nil, errors.New("expected bulk string")
		}
		size, err := strconv.Atoi(header[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(rd, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(rd *bufio.Reader) (string, error) {
	line, err := rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func TestRedisSnapshotsBadURL(t *testing.T) {
	_, err := NewRedisSnapshots(context.Background(), "not a url", 0)
	require.Error(t, err)
}

func TestRedisSnapshotsRoundTrip(t *testing.T) {
	srv := newRESPServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:            srv.Addr(),
		Protocol:        2,
		DisableIdentity: true,
	})
	require.NoError(t, client.Ping(ctx).Err())
	r := NewRedisSnapshotsFromClient(client, time.Minute)
	defer r.Close()

	var dst map[string]int
	ok, err := r.LoadSnapshot(ctx, "genres:en-US", &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SaveSnapshot(ctx, "genres:en-US", map[string]int{"a": 1}))
	ok, err = r.LoadSnapshot(ctx, "genres:en-US", &dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, dst)

	sets := srv.setCommands()
	require.Len(t, sets, 1)
	assert.Equal(t, snapshotKeyPrefix+"genres:en-US", sets[0][1])
	require.Len(t, sets[0], 5)
	assert.Equal(t, "ex", strings.ToLower(sets[0][3]))
	assert.Equal(t, "60", sets[0][4])
}

func TestRedisSnapshotsCorruptValue(t *testing.T) {
	srv := newRESPServer(t)
	srv.put(snapshotKeyPrefix+"regions", "{not json")
	ctx := context.Background()

	r := NewRedisSnapshotsFromClient(redis.NewClient(&redis.Options{
		Addr:            srv.Addr(),
		Protocol:        2,
		DisableIdentity: true,
	}), 0)
	defer r.Close()

	var dst []string
	ok, err := r.LoadSnapshot(ctx, "regions", &dst)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisSnapshotsPings(t *testing.T) {
	srv := newRESPServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, err := NewRedisSnapshots(ctx, "redis://"+srv.Addr()+"/0?protocol=2", 0)
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestRedisSnapshotsLiveServer(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, err := NewRedisSnapshots(ctx, url, time.Minute)
	require.NoError(t, err)
	defer r.Close()

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	var dst map[string]int
	ok, err := r.LoadSnapshot(ctx, key, &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SaveSnapshot(ctx, key, map[string]int{"a": 1}))
	ok, err = r.LoadSnapshot(ctx, key, &dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, dst)
}
