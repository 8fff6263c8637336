//go:build windows

package sockapi

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/renebarto/gonet/internal/endpoint"
	"golang.org/x/sys/windows"
)

// osInitOnce guards the single process-wide WSAStartup call: a single
// process-global OS-init guard performs winsock startup exactly once.
var osInitOnce sync.Once

func osInit() {
	osInitOnce.Do(func() {
		_ = windows.WSAStartup(uint32(0x0202), &windows.WSAData{})
	})
}

// sysAPI is the real Winsock-backed implementation of API.
type sysAPI struct{}

// NewSysAPI returns the real OS-backed socket API for the current
// platform.
func NewSysAPI() API {
	osInit()
	return sysAPI{}
}

// blockingCache remembers the last value written to FIONBIO per handle:
// Windows has no kernel getter for blocking mode. This cache is
// authoritative only if no other code path in the process touches the
// handle.
var blockingCache sync.Map // Handle -> bool

func toWinFamily(f Family) int {
	if f == FamilyIpv6 {
		return windows.AF_INET6
	}
	return windows.AF_INET
}

func toWinType(t SockType) int {
	if t == SockDgram {
		return windows.SOCK_DGRAM
	}
	return windows.SOCK_STREAM
}

func (sysAPI) Open(family Family, sockType SockType) (Handle, error) {
	fd, err := windows.Socket(toWinFamily(family), toWinType(sockType), 0)
	if err != nil {
		return InvalidHandle, NewOSError("open", err)
	}
	blockingCache.Store(Handle(fd), true)
	return Handle(fd), nil
}

func (sysAPI) Close(h Handle) error {
	blockingCache.Delete(h)
	if err := windows.Closesocket(windows.Handle(h)); err != nil {
		return NewOSError("close", err)
	}
	return nil
}

func toWinSockaddr(sa Sockaddr) windows.Sockaddr {
	if sa.Family == FamilyIpv6 {
		s := &windows.SockaddrInet6{Port: int(sa.In6.Port)}
		copy(s.Addr[:], sa.In6.Addr[:])
		return s
	}
	s := &windows.SockaddrInet4{Port: int(sa.In.Port)}
	copy(s.Addr[:], sa.In.Addr[:])
	return s
}

func fromWinSockaddr(raw windows.Sockaddr) Sockaddr {
	switch sa := raw.(type) {
	case *windows.SockaddrInet6:
		return Sockaddr{Family: FamilyIpv6, In6: endpoint.SockaddrIn6{Addr: sa.Addr, Port: uint16(sa.Port)}}
	case *windows.SockaddrInet4:
		return Sockaddr{Family: FamilyIpv4, In: endpoint.SockaddrIn{Addr: sa.Addr, Port: uint16(sa.Port)}}
	default:
		return Sockaddr{}
	}
}

func (sysAPI) Bind(h Handle, sa Sockaddr) error {
	if err := windows.Bind(windows.Handle(h), toWinSockaddr(sa)); err != nil {
		return NewOSError("bind", err)
	}
	return nil
}

func (sysAPI) Listen(h Handle, backlog int) error {
	if err := windows.Listen(windows.Handle(h), backlog); err != nil {
		return NewOSError("listen", err)
	}
	return nil
}

func (sysAPI) Connect(h Handle, sa Sockaddr) error {
	if err := windows.Connect(windows.Handle(h), toWinSockaddr(sa)); err != nil {
		return NewOSError("connect", err)
	}
	return nil
}

func (sysAPI) Accept(h Handle) (Handle, Sockaddr, error) {
	fd, err := windows.Accept(windows.Handle(h))
	if err != nil {
		return InvalidHandle, Sockaddr{}, NewOSError("accept", err)
	}
	blockingCache.Store(Handle(fd), true)
	sa, _, err := windows.Getpeername(fd)
	if err != nil {
		return InvalidHandle, Sockaddr{}, NewOSError("accept_getpeername", err)
	}
	return Handle(fd), fromWinSockaddr(sa), nil
}

func (sysAPI) Send(h Handle, buf []byte) (int, error) {
	n, err := windows.Write(windows.Handle(h), buf)
	if err != nil {
		return n, NewOSError("send", err)
	}
	return n, nil
}

func (sysAPI) Recv(h Handle, buf []byte) (int, error) {
	n, err := windows.Read(windows.Handle(h), buf)
	if err != nil {
		return n, NewOSError("recv", err)
	}
	return n, nil
}

func (sysAPI) SendTo(h Handle, buf []byte, dst Sockaddr) (int, error) {
	if err := windows.Sendto(windows.Handle(h), buf, 0, toWinSockaddr(dst)); err != nil {
		return 0, NewOSError("sendto", err)
	}
	return len(buf), nil
}

func (sysAPI) RecvFrom(h Handle, buf []byte) (int, Sockaddr, error) {
	n, from, err := windows.Recvfrom(windows.Handle(h), buf, 0)
	if err != nil {
		return n, Sockaddr{}, NewOSError("recvfrom", err)
	}
	return n, fromWinSockaddr(from), nil
}

func (sysAPI) GetLocalAddress(h Handle) (Sockaddr, error) {
	sa, err := windows.Getsockname(windows.Handle(h))
	if err != nil {
		return Sockaddr{}, NewOSError("getsockname", err)
	}
	return fromWinSockaddr(sa), nil
}

func (sysAPI) GetRemoteAddress(h Handle) (Sockaddr, error) {
	sa, _, err := windows.Getpeername(windows.Handle(h))
	if err != nil {
		return Sockaddr{}, NewOSError("getpeername", err)
	}
	return fromWinSockaddr(sa), nil
}

// SetBlockingMode toggles FIONBIO and updates the authoritative cache,
// since the kernel has no getter for this mode on Windows.
func (sysAPI) SetBlockingMode(h Handle, blocking bool) error {
	if err := windows.SetNonblock(windows.Handle(h), !blocking); err != nil {
		return NewOSError("set_blocking_mode", err)
	}
	blockingCache.Store(h, blocking)
	return nil
}

// GetBlockingMode returns the cached value from the last
// SetBlockingMode/Open call; wrappers must not depend on a kernel-level
// getter here.
func (sysAPI) GetBlockingMode(h Handle) (bool, error) {
	v, ok := blockingCache.Load(h)
	if !ok {
		return true, nil
	}
	return v.(bool), nil
}

func winBoolOptConstants(opt SockOpt) (level, name int32, ok bool) {
	switch opt {
	case OptReuseAddress:
		return windows.SOL_SOCKET, windows.SO_REUSEADDR, true
	case OptBroadcast:
		return windows.SOL_SOCKET, windows.SO_BROADCAST, true
	case OptKeepAlive:
		return windows.SOL_SOCKET, windows.SO_KEEPALIVE, true
	default:
		return 0, 0, false
	}
}

func (sysAPI) SetBoolOpt(h Handle, opt SockOpt, value bool) error {
	level, name, ok := winBoolOptConstants(opt)
	if !ok {
		return fmt.Errorf("sockapi: unsupported bool option %d", opt)
	}
	v := int32(0)
	if value {
		v = 1
	}
	if err := windows.Setsockopt(windows.Handle(h), level, name, (*byte)(unsafePointerInt32(&v)), 4); err != nil {
		return NewOSError("setsockopt", err)
	}
	return nil
}

func (sysAPI) GetBoolOpt(h Handle, opt SockOpt) (bool, error) {
	level, name, ok := winBoolOptConstants(opt)
	if !ok {
		return false, fmt.Errorf("sockapi: unsupported bool option %d", opt)
	}
	var v int32
	l := int32(4)
	if err := windows.Getsockopt(windows.Handle(h), level, name, (*byte)(unsafePointerInt32(&v)), &l); err != nil {
		return false, NewOSError("getsockopt", err)
	}
	return v != 0, nil
}

func (sysAPI) SetLinger(h Handle, v Linger) error {
	onOff := uint16(0)
	if v.OnOff {
		onOff = 1
	}
	l := windows.Linger{Onoff: onOff, Linger: uint16(v.Seconds)}
	if err := windows.Setsockopt(windows.Handle(h), windows.SOL_SOCKET, windows.SO_LINGER,
		(*byte)(unsafePointerLinger(&l)), int32(unsafe.Sizeof(l))); err != nil {
		return NewOSError("setsockopt_linger", err)
	}
	return nil
}

func (sysAPI) SetTimeoutOpt(h Handle, opt SockOpt, v Timeval) error {
	name := int32(windows.SO_RCVTIMEO)
	if opt == OptSendTimeout {
		name = windows.SO_SNDTIMEO
	}
	millis := int32(v.Seconds*1000 + v.Micros/1000)
	if err := windows.Setsockopt(windows.Handle(h), windows.SOL_SOCKET, name,
		(*byte)(unsafePointerInt32(&millis)), 4); err != nil {
		return NewOSError("setsockopt_timeval", err)
	}
	return nil
}

// Poll implements the Windows path: iterate select() in slices of at
// most TIME_WAIT_SLICE (10ms), decrementing the remaining budget, rather
// than the single poll() call used on POSIX — POLLHUP and Winsock's
// except-set differ enough that the two platforms never share one code
// path.
func (sysAPI) Poll(h Handle, wantWrite bool, timeoutMillis int) (readable, writable, hangup bool, err error) {
	const sliceMillis = 10
	remaining := timeoutMillis
	for {
		sliceTimeout := sliceMillis
		if remaining >= 0 && remaining < sliceMillis {
			sliceTimeout = remaining
		}

		var readFds, writeFds, exceptFds windows.FdSet
		fdSetSingle(&readFds, h)
		if wantWrite {
			fdSetSingle(&writeFds, h)
		}
		fdSetSingle(&exceptFds, h)

		tv := windows.Timeval{Sec: 0, Usec: int32(sliceTimeout * 1000)}
		n, selErr := windows.Select(int(h)+1, &readFds, &writeFds, &exceptFds, &tv)
		if selErr != nil {
			return false, false, false, NewOSError("select", selErr)
		}
		if n > 0 {
			return fdIsSet(&readFds, h), fdIsSet(&writeFds, h), fdIsSet(&exceptFds, h), nil
		}

		if remaining >= 0 {
			remaining -= sliceTimeout
			if remaining <= 0 {
				return false, false, false, nil
			}
		}
	}
}
