package system

import (
	"fmt"
	"net"
	"strings"
)

// LocalIPv4 returns the first non-loopback IPv4 address of an interface that is up.
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok {
				if ip4 := ipNet.IP.To4(); ip4 != nil {
					return ip4.String(), nil
				}
			}
		}
	}
	return "", fmt.Errorf("no IPv4 address")
}

// PreviewURL builds the URL of the web preview for listenAddr (":8080",
// "0.0.0.0:80", "host:port"). Wildcard hosts are replaced by host, or
// localhost when host is empty.
func PreviewURL(listenAddr, host string) string {
	h, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		h, port = strings.TrimSpace(listenAddr), ""
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = host
	}
	if h == "" {
		h = "localhost"
	}
	if port == "" || port == "80" {
		return fmt.Sprintf("http://%s/", hostLiteral(h))
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(h, port))
}

func hostLiteral(h string) string {
	if strings.Contains(h, ":") {
		return "[" + h + "]"
	}
	return h
}
