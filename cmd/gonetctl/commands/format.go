package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/renebarto/gonet/internal/address"
	"github.com/renebarto/gonet/internal/ifaces"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// formatIfaces renders an interface snapshot in the requested format.
func formatIfaces(snapshot []ifaces.Interface, format string) (string, error) {
	switch format {
	case formatJSON:
		return formatIfacesJSON(snapshot)
	case formatTable:
		return formatIfacesTable(snapshot), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatIfacesJSON(snapshot []ifaces.Interface) (string, error) {
	b, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal interfaces: %w", err)
	}
	return string(b) + "\n", nil
}

func formatIfacesTable(snapshot []ifaces.Interface) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tINDEX\tUP\tLOOPBACK\tMAC\tIPV4\tIPV6")
	for _, iface := range snapshot {
		fmt.Fprintf(tw, "%s\t%d\t%t\t%t\t%s\t%s\t%s\n",
			iface.Name, iface.Index, iface.Up, iface.Loopback,
			iface.MAC.String(), joinIpv4(iface.IPv4), joinIpv6(iface.IPv6))
	}

	_ = tw.Flush()
	return sb.String()
}

func joinIpv4(addrs []address.Ipv4Addr) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

func joinIpv6(addrs []address.Ipv6Addr) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
