package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockNetworkSession) Send(data []byte) {
	m.Called(data)
}

func (m *MockNetworkSession) Close() {
	m.Called()
}

// fakeSession records every outbound packet, decoded back into its
// envelope, so scenario tests can assert on what each client saw.
type sentPacket struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type fakeSession struct {
	id string

	mu     sync.Mutex
	sent   []sentPacket
	closed bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Send(data []byte) {
	var p sentPacket
	if err := json.Unmarshal(data, &p); err != nil {
		panic("fakeSession received a frame that is not a ServerPacket: " + err.Error())
	}
	f.mu.Lock()
	f.sent = append(f.sent, p)
	f.mu.Unlock()
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeSession) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		out = append(out, p.Type)
	}
	return out
}

func (f *fakeSession) count(packetType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.sent {
		if p.Type == packetType {
			n++
		}
	}
	return n
}

// last returns the payload of the most recent packet of the given type.
func (f *fakeSession) last(packetType string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Type == packetType {
			return f.sent[i].Data, true
		}
	}
	return nil, false
}

func (f *fakeSession) reset() {
	f.mu.Lock()
	f.sent = nil
	f.mu.Unlock()
}

func lastAs[T any](t *testing.T, f *fakeSession, packetType string) T {
	t.Helper()
	raw, ok := f.last(packetType)
	require.True(t, ok, "session %s never received %q, got %v", f.id, packetType, f.types())
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
