// Package ifaces enumerates host network interfaces and their addresses,
// classifying loopback/up state. The result is a read-only snapshot taken
// once per call; it is not a live registry and does not track changes.
package ifaces

import (
	"fmt"
	"net"

	"github.com/renebarto/gonet/internal/address"
)

// Interface describes one host NIC and the addresses bound to it at
// snapshot time.
type Interface struct {
	Name     string
	Index    int
	Up       bool
	Loopback bool
	MAC      address.MacAddr
	IPv4     []address.Ipv4Addr
	IPv6     []address.Ipv6Addr
}

// Snapshot enumerates every host network interface, classifying
// loopback/up and resolving each interface's bound addresses into
// internal/address types. It performs no mutation and holds no state
// across calls.
func Snapshot() ([]Interface, error) {
	nics, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}

	out := make([]Interface, 0, len(nics))
	for _, nic := range nics {
		iface, convErr := fromNetInterface(nic)
		if convErr != nil {
			return nil, fmt.Errorf("convert interface %s: %w", nic.Name, convErr)
		}
		out = append(out, iface)
	}
	return out, nil
}

func fromNetInterface(nic net.Interface) (Interface, error) {
	iface := Interface{
		Name:     nic.Name,
		Index:    nic.Index,
		Up:       nic.Flags&net.FlagUp != 0,
		Loopback: nic.Flags&net.FlagLoopback != 0,
	}

	if len(nic.HardwareAddr) == 6 {
		var b [6]byte
		copy(b[:], nic.HardwareAddr)
		iface.MAC = address.NewMacAddrWithIfIndex(b, nic.Index)
	}

	addrs, err := nic.Addrs()
	if err != nil {
		return Interface{}, fmt.Errorf("addrs: %w", err)
	}

	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			iface.IPv4 = append(iface.IPv4, address.NewIpv4Addr(v4[0], v4[1], v4[2], v4[3]))
			continue
		}
		if v6 := ipNet.IP.To16(); v6 != nil {
			var b [16]byte
			copy(b[:], v6)
			iface.IPv6 = append(iface.IPv6, address.NewIpv6Addr(b))
		}
	}

	return iface, nil
}
