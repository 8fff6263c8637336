//go:build unix

package sockapi

import (
	"fmt"
	"sync"

	"github.com/renebarto/gonet/internal/endpoint"
	"golang.org/x/sys/unix"
)

// osInitOnce guards the one-time OS-level socket subsystem
// initialization. On POSIX this is a no-op; it exists so the call site
// looks identical to the Windows WSAStartup path.
var osInitOnce sync.Once

func osInit() {
	osInitOnce.Do(func() {})
}

// sysAPI is the real syscall-backed implementation of API: direct
// golang.org/x/sys/unix socket/Setsockopt calls instead of net.Conn.
type sysAPI struct{}

// NewSysAPI returns the real OS-backed socket API for the current
// platform.
func NewSysAPI() API {
	osInit()
	return sysAPI{}
}

func toUnixFamily(f Family) int {
	switch f {
	case FamilyIpv6:
		return unix.AF_INET6
	case FamilyUnix:
		return unix.AF_UNIX
	default:
		return unix.AF_INET
	}
}

func toUnixType(t SockType) int {
	if t == SockDgram {
		return unix.SOCK_DGRAM
	}
	return unix.SOCK_STREAM
}

func (sysAPI) Open(family Family, sockType SockType) (Handle, error) {
	fd, err := unix.Socket(toUnixFamily(family), toUnixType(sockType), 0)
	if err != nil {
		return InvalidHandle, NewOSError("open", err)
	}
	return Handle(fd), nil
}

func (sysAPI) Close(h Handle) error {
	if err := unix.Close(int(h)); err != nil {
		return NewOSError("close", err)
	}
	return nil
}

func toUnixSockaddr(sa Sockaddr) unix.Sockaddr {
	switch sa.Family {
	case FamilyIpv6:
		return &unix.SockaddrInet6{Addr: sa.In6.Addr, Port: int(sa.In6.Port), ZoneId: sa.In6.ScopeID}
	default:
		return &unix.SockaddrInet4{Addr: sa.In.Addr, Port: int(sa.In.Port)}
	}
}

func fromUnixSockaddr(raw unix.Sockaddr) Sockaddr {
	switch sa := raw.(type) {
	case *unix.SockaddrInet6:
		return Sockaddr{Family: FamilyIpv6, In6: endpoint.SockaddrIn6{
			Addr: sa.Addr, Port: uint16(sa.Port), ScopeID: sa.ZoneId,
		}}
	case *unix.SockaddrInet4:
		return Sockaddr{Family: FamilyIpv4, In: endpoint.SockaddrIn{
			Addr: sa.Addr, Port: uint16(sa.Port),
		}}
	default:
		return Sockaddr{}
	}
}

func (sysAPI) Bind(h Handle, sa Sockaddr) error {
	if err := unix.Bind(int(h), toUnixSockaddr(sa)); err != nil {
		return NewOSError("bind", err)
	}
	return nil
}

func (sysAPI) Listen(h Handle, backlog int) error {
	if err := unix.Listen(int(h), backlog); err != nil {
		return NewOSError("listen", err)
	}
	return nil
}

func (sysAPI) Connect(h Handle, sa Sockaddr) error {
	if err := unix.Connect(int(h), toUnixSockaddr(sa)); err != nil {
		return NewOSError("connect", err)
	}
	return nil
}

func (sysAPI) Accept(h Handle) (Handle, Sockaddr, error) {
	fd, raw, err := unix.Accept4(int(h), unix.SOCK_CLOEXEC)
	if err != nil {
		return InvalidHandle, Sockaddr{}, NewOSError("accept", err)
	}
	return Handle(fd), fromUnixSockaddr(raw), nil
}

func (sysAPI) Send(h Handle, buf []byte) (int, error) {
	n, err := unix.Write(int(h), buf)
	if err != nil {
		return n, NewOSError("send", err)
	}
	return n, nil
}

func (sysAPI) Recv(h Handle, buf []byte) (int, error) {
	n, err := unix.Read(int(h), buf)
	if err != nil {
		return n, NewOSError("recv", err)
	}
	return n, nil
}

func (sysAPI) SendTo(h Handle, buf []byte, dst Sockaddr) (int, error) {
	if err := unix.Sendto(int(h), buf, 0, toUnixSockaddr(dst)); err != nil {
		return 0, NewOSError("sendto", err)
	}
	return len(buf), nil
}

func (sysAPI) RecvFrom(h Handle, buf []byte) (int, Sockaddr, error) {
	n, raw, err := unix.Recvfrom(int(h), buf, 0)
	if err != nil {
		return n, Sockaddr{}, NewOSError("recvfrom", err)
	}
	return n, fromUnixSockaddr(raw), nil
}

func (sysAPI) GetLocalAddress(h Handle) (Sockaddr, error) {
	raw, err := unix.Getsockname(int(h))
	if err != nil {
		return Sockaddr{}, NewOSError("getsockname", err)
	}
	return fromUnixSockaddr(raw), nil
}

func (sysAPI) GetRemoteAddress(h Handle) (Sockaddr, error) {
	raw, err := unix.Getpeername(int(h))
	if err != nil {
		return Sockaddr{}, NewOSError("getpeername", err)
	}
	return fromUnixSockaddr(raw), nil
}

func (sysAPI) SetBlockingMode(h Handle, blocking bool) error {
	if err := unix.SetNonblock(int(h), !blocking); err != nil {
		return NewOSError("set_blocking_mode", err)
	}
	return nil
}

func (sysAPI) GetBlockingMode(h Handle) (bool, error) {
	flags, err := unix.FcntlInt(uintptr(h), unix.F_GETFL, 0)
	if err != nil {
		return false, NewOSError("get_blocking_mode", err)
	}
	return flags&unix.O_NONBLOCK == 0, nil
}

func boolOptConstants(opt SockOpt) (level, name int, ok bool) {
	switch opt {
	case OptReuseAddress:
		return unix.SOL_SOCKET, unix.SO_REUSEADDR, true
	case OptBroadcast:
		return unix.SOL_SOCKET, unix.SO_BROADCAST, true
	case OptKeepAlive:
		return unix.SOL_SOCKET, unix.SO_KEEPALIVE, true
	default:
		return 0, 0, false
	}
}

func (sysAPI) SetBoolOpt(h Handle, opt SockOpt, value bool) error {
	level, name, ok := boolOptConstants(opt)
	if !ok {
		return fmt.Errorf("sockapi: unsupported bool option %d", opt)
	}
	v := 0
	if value {
		v = 1
	}
	if err := unix.SetsockoptInt(int(h), level, name, v); err != nil {
		return NewOSError("setsockopt", err)
	}
	return nil
}

func (sysAPI) GetBoolOpt(h Handle, opt SockOpt) (bool, error) {
	level, name, ok := boolOptConstants(opt)
	if !ok {
		return false, fmt.Errorf("sockapi: unsupported bool option %d", opt)
	}
	v, err := unix.GetsockoptInt(int(h), level, name)
	if err != nil {
		return false, NewOSError("getsockopt", err)
	}
	return v != 0, nil
}

func (sysAPI) SetLinger(h Handle, v Linger) error {
	onOff := int32(0)
	if v.OnOff {
		onOff = 1
	}
	l := &unix.Linger{Onoff: onOff, Linger: int32(v.Seconds)}
	if err := unix.SetsockoptLinger(int(h), unix.SOL_SOCKET, unix.SO_LINGER, l); err != nil {
		return NewOSError("setsockopt_linger", err)
	}
	return nil
}

func (sysAPI) SetTimeoutOpt(h Handle, opt SockOpt, v Timeval) error {
	name := unix.SO_RCVTIMEO
	if opt == OptSendTimeout {
		name = unix.SO_SNDTIMEO
	}
	tv := unix.Timeval{Sec: v.Seconds, Usec: v.Micros}
	if err := unix.SetsockoptTimeval(int(h), unix.SOL_SOCKET, name, &tv); err != nil {
		return NewOSError("setsockopt_timeval", err)
	}
	return nil
}

func (sysAPI) Poll(h Handle, wantWrite bool, timeoutMillis int) (readable, writable, hangup bool, err error) {
	events := int16(unix.POLLIN)
	if wantWrite {
		events |= unix.POLLOUT
	}
	fds := []unix.PollFd{{Fd: int32(h), Events: events}}

	_, pollErr := unix.Poll(fds, timeoutMillis)
	if pollErr != nil {
		return false, false, false, NewOSError("poll", pollErr)
	}

	re := fds[0].Revents
	readable = re&unix.POLLIN != 0
	writable = re&unix.POLLOUT != 0
	hangup = re&(unix.POLLHUP|unix.POLLERR) != 0
	return readable, writable, hangup, nil
}
