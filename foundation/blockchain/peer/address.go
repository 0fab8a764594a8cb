package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is used when an address doesn't specify a port.
const DefaultPort = 5000

// ErrInvalidAddress is returned when an address can't be parsed into a
// host and port.
var ErrInvalidAddress = errors.New("invalid address")

// Normalize converts an address into the host:port form used to identify
// peers. It accepts scheme://host:port, host:port and a bare host, which gets
// the default port. Surrounding whitespace and trailing slashes are ignored,
// hosts are lower-cased and any scheme or path is dropped. Normalizing an
// already normalized address returns it unchanged.
func Normalize(address string) (string, error) {
	addr := strings.TrimRight(strings.TrimSpace(address), "/")

	raw := addr
	if !strings.Contains(addr, "://") {
		raw = "http://" + addr
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidAddress, address, err)
	}

	// An IPv6 host must be bracketed or its colons are read as the port.
	if !strings.HasPrefix(u.Host, "[") && strings.Count(u.Host, ":") > 1 {
		return "", fmt.Errorf("%w: %q: unbracketed IPv6 host", ErrInvalidAddress, address)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidAddress, address)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n > 65535 {
			return "", fmt.Errorf("%w: %q: bad port %q", ErrInvalidAddress, address, p)
		}

		// A zero port counts as no port at all.
		if n != 0 {
			port = n
		}
	}

	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
