// Package target assembles and validates the probe target address.
package target

import (
	"fmt"
	"net"
	"strconv"
)

// Resolve builds the final "host:port" address from the CLI inputs.
// Exactly one of a combined target or a host (with --port) must be given;
// anything else is rejected before any network activity happens.
func Resolve(combined, host string, port int) (string, error) {
	switch {
	case combined != "" && host != "":
		return "", fmt.Errorf("--target and --host are mutually exclusive")
	case combined != "":
		if port != 0 {
			return "", fmt.Errorf("--port only applies with --host, not --target")
		}
		return combined, nil
	case host != "":
		if port == 0 {
			return "", fmt.Errorf("--port is required when using --host")
		}
		if port < 1 || port > 65535 {
			return "", fmt.Errorf("invalid port %d: must be 1-65535", port)
		}
		return net.JoinHostPort(host, strconv.Itoa(port)), nil
	default:
		return "", fmt.Errorf("either --target or --host/--port is required")
	}
}
