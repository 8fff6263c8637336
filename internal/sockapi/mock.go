package sockapi

import (
	"fmt"
	"sync"
)

// MockAPI is a fully programmable, drop-in stand-in for the real socket
// API: every operation is individually programmable via an injectable
// func field, and every call is recorded for assertions.
type MockAPI struct {
	mu sync.Mutex

	nextHandle Handle
	open       map[Handle]bool

	// OpenFunc, when set, overrides the default Open behavior (which
	// allocates an incrementing handle and records it as open).
	OpenFunc func(family Family, sockType SockType) (Handle, error)
	// CloseFunc, when set, overrides the default Close behavior.
	CloseFunc func(h Handle) error

	BindFunc    func(h Handle, sa Sockaddr) error
	ListenFunc  func(h Handle, backlog int) error
	ConnectFunc func(h Handle, sa Sockaddr) error
	AcceptFunc  func(h Handle) (Handle, Sockaddr, error)

	SendFunc     func(h Handle, buf []byte) (int, error)
	RecvFunc     func(h Handle, buf []byte) (int, error)
	SendToFunc   func(h Handle, buf []byte, dst Sockaddr) (int, error)
	RecvFromFunc func(h Handle, buf []byte) (int, Sockaddr, error)

	LocalAddrFunc  func(h Handle) (Sockaddr, error)
	RemoteAddrFunc func(h Handle) (Sockaddr, error)

	SetBlockingFunc func(h Handle, blocking bool) error
	GetBlockingFunc func(h Handle) (bool, error)

	SetBoolOptFunc     func(h Handle, opt SockOpt, value bool) error
	GetBoolOptFunc     func(h Handle, opt SockOpt) (bool, error)
	SetLingerFunc      func(h Handle, v Linger) error
	SetTimeoutOptFunc  func(h Handle, opt SockOpt, v Timeval) error
	PollFunc           func(h Handle, wantWrite bool, timeoutMillis int) (bool, bool, bool, error)

	// Calls records every method invocation by name, for tests that
	// assert on call sequences without caring about per-call results.
	Calls []string
}

// NewMockAPI constructs an empty MockAPI with no programmed behavior.
// Open/Close work out of the box (handle bookkeeping); Bind, Listen,
// the blocking-mode and socket-option calls succeed (GetBlockingMode
// reports true, GetBoolOpt false); every other operation returns an
// error until its *Func field is set.
func NewMockAPI() *MockAPI {
	return &MockAPI{open: make(map[Handle]bool)}
}

func (m *MockAPI) record(name string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, name)
	m.mu.Unlock()
}

// OpenHandleCount returns the number of handles currently recorded open,
// for socket-conservation property tests ("#opens == #closes").
func (m *MockAPI) OpenHandleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.open {
		if v {
			n++
		}
	}
	return n
}

func (m *MockAPI) Open(family Family, sockType SockType) (Handle, error) {
	m.record("Open")
	if m.OpenFunc != nil {
		h, err := m.OpenFunc(family, sockType)
		if err == nil {
			m.mu.Lock()
			m.open[h] = true
			m.mu.Unlock()
		}
		return h, err
	}
	m.mu.Lock()
	m.nextHandle++
	h := m.nextHandle
	m.open[h] = true
	m.mu.Unlock()
	return h, nil
}

func (m *MockAPI) Close(h Handle) error {
	m.record("Close")
	if m.CloseFunc != nil {
		err := m.CloseFunc(h)
		if err == nil {
			m.mu.Lock()
			m.open[h] = false
			m.mu.Unlock()
		}
		return err
	}
	m.mu.Lock()
	m.open[h] = false
	m.mu.Unlock()
	return nil
}

func (m *MockAPI) Bind(h Handle, sa Sockaddr) error {
	m.record("Bind")
	if m.BindFunc == nil {
		return nil
	}
	return m.BindFunc(h, sa)
}

func (m *MockAPI) Listen(h Handle, backlog int) error {
	m.record("Listen")
	if m.ListenFunc == nil {
		return nil
	}
	return m.ListenFunc(h, backlog)
}

func (m *MockAPI) Connect(h Handle, sa Sockaddr) error {
	m.record("Connect")
	if m.ConnectFunc == nil {
		return fmt.Errorf("sockapi mock: ConnectFunc not set")
	}
	return m.ConnectFunc(h, sa)
}

func (m *MockAPI) Accept(h Handle) (Handle, Sockaddr, error) {
	m.record("Accept")
	if m.AcceptFunc == nil {
		return InvalidHandle, Sockaddr{}, fmt.Errorf("sockapi mock: AcceptFunc not set")
	}
	accepted, sa, err := m.AcceptFunc(h)
	if err == nil {
		m.mu.Lock()
		m.open[accepted] = true
		m.mu.Unlock()
	}
	return accepted, sa, err
}

func (m *MockAPI) Send(h Handle, buf []byte) (int, error) {
	m.record("Send")
	if m.SendFunc == nil {
		return 0, fmt.Errorf("sockapi mock: SendFunc not set")
	}
	return m.SendFunc(h, buf)
}

func (m *MockAPI) Recv(h Handle, buf []byte) (int, error) {
	m.record("Recv")
	if m.RecvFunc == nil {
		return 0, fmt.Errorf("sockapi mock: RecvFunc not set")
	}
	return m.RecvFunc(h, buf)
}

func (m *MockAPI) SendTo(h Handle, buf []byte, dst Sockaddr) (int, error) {
	m.record("SendTo")
	if m.SendToFunc == nil {
		return 0, fmt.Errorf("sockapi mock: SendToFunc not set")
	}
	return m.SendToFunc(h, buf, dst)
}

func (m *MockAPI) RecvFrom(h Handle, buf []byte) (int, Sockaddr, error) {
	m.record("RecvFrom")
	if m.RecvFromFunc == nil {
		return 0, Sockaddr{}, fmt.Errorf("sockapi mock: RecvFromFunc not set")
	}
	return m.RecvFromFunc(h, buf)
}

func (m *MockAPI) GetLocalAddress(h Handle) (Sockaddr, error) {
	m.record("GetLocalAddress")
	if m.LocalAddrFunc == nil {
		return Sockaddr{}, fmt.Errorf("sockapi mock: LocalAddrFunc not set")
	}
	return m.LocalAddrFunc(h)
}

func (m *MockAPI) GetRemoteAddress(h Handle) (Sockaddr, error) {
	m.record("GetRemoteAddress")
	if m.RemoteAddrFunc == nil {
		return Sockaddr{}, fmt.Errorf("sockapi mock: RemoteAddrFunc not set")
	}
	return m.RemoteAddrFunc(h)
}

func (m *MockAPI) SetBlockingMode(h Handle, blocking bool) error {
	m.record("SetBlockingMode")
	if m.SetBlockingFunc == nil {
		return nil
	}
	return m.SetBlockingFunc(h, blocking)
}

func (m *MockAPI) GetBlockingMode(h Handle) (bool, error) {
	m.record("GetBlockingMode")
	if m.GetBlockingFunc == nil {
		return true, nil
	}
	return m.GetBlockingFunc(h)
}

func (m *MockAPI) SetBoolOpt(h Handle, opt SockOpt, value bool) error {
	m.record("SetBoolOpt")
	if m.SetBoolOptFunc == nil {
		return nil
	}
	return m.SetBoolOptFunc(h, opt, value)
}

func (m *MockAPI) GetBoolOpt(h Handle, opt SockOpt) (bool, error) {
	m.record("GetBoolOpt")
	if m.GetBoolOptFunc == nil {
		return false, nil
	}
	return m.GetBoolOptFunc(h, opt)
}

func (m *MockAPI) SetLinger(h Handle, v Linger) error {
	m.record("SetLinger")
	if m.SetLingerFunc == nil {
		return nil
	}
	return m.SetLingerFunc(h, v)
}

func (m *MockAPI) SetTimeoutOpt(h Handle, opt SockOpt, v Timeval) error {
	m.record("SetTimeoutOpt")
	if m.SetTimeoutOptFunc == nil {
		return nil
	}
	return m.SetTimeoutOptFunc(h, opt, v)
}

func (m *MockAPI) Poll(h Handle, wantWrite bool, timeoutMillis int) (bool, bool, bool, error) {
	m.record("Poll")
	if m.PollFunc == nil {
		return false, false, false, fmt.Errorf("sockapi mock: PollFunc not set")
	}
	return m.PollFunc(h, wantWrite, timeoutMillis)
}

var _ API = (*MockAPI)(nil)
