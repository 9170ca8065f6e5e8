package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/martinsuchenak/portfinder/internal/model"
)

// ErrNoSwitches is returned when no source supplied any switch
var ErrNoSwitches = errors.New("no switches configured: use --switches, a config file or --inventory")

// maxExpandedHosts bounds CIDR expansion so a typo like /8 does not queue
// millions of walks.
const maxExpandedHosts = 4096

// Inventory supplies switches when neither flags nor the config file do
type Inventory interface {
	ListSwitches() ([]model.Switch, error)
}

// Agents resolves the ordered agent list. Switches from flags or the config
// file win over the inventory; the inventory is only read when inv is non-nil.
func (c *Config) Agents(inv Inventory) ([]model.Agent, error) {
	var switches []model.Switch
	if len(c.Switches) > 0 {
		for _, s := range c.Switches {
			switches = append(switches, model.Switch{Address: s, Enabled: true})
		}
	} else if inv != nil {
		stored, err := inv.ListSwitches()
		if err != nil {
			return nil, fmt.Errorf("listing inventory switches: %w", err)
		}
		switches = stored
	}

	agents, err := c.ResolveAgents(switches)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, ErrNoSwitches
	}
	return agents, nil
}

// ResolveAgents expands switch entries into agents, in order. Entries may be
// "host", "host:port" or an IPv4 CIDR block. Disabled, excluded and repeated
// endpoints are skipped.
func (c *Config) ResolveAgents(switches []model.Switch) ([]model.Agent, error) {
	var agents []model.Agent
	seen := make(map[string]bool)

	for _, sw := range switches {
		if !sw.Enabled {
			continue
		}

		hosts, entryPort, err := expandEntry(sw.Address)
		if err != nil {
			return nil, fmt.Errorf("switch %q: %w", sw.Address, err)
		}

		p := c.Port
		if entryPort != 0 {
			p = entryPort
		}
		if sw.Port != 0 {
			p = sw.Port
		}
		cmty := c.Community
		if sw.Community != "" {
			cmty = sw.Community
		}

		for _, host := range hosts {
			if isExcluded(host, c.Exclude) {
				continue
			}
			agent := model.Agent{
				Address:   host,
				Port:      uint16(p),
				Community: cmty,
				Timeout:   c.Timeout,
				Retries:   c.Retries,
			}
			if seen[agent.Endpoint()] {
				continue
			}
			seen[agent.Endpoint()] = true
			agents = append(agents, agent)
		}
	}

	return agents, nil
}

// expandEntry returns the hosts an entry stands for and an optional port
func expandEntry(entry string) ([]string, int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil, 0, errors.New("empty address")
	}

	if strings.Contains(entry, "/") {
		ips, err := generateIPList(entry)
		if err != nil {
			return nil, 0, err
		}
		return ips, 0, nil
	}

	host, portStr, err := net.SplitHostPort(entry)
	if err != nil {
		// No port given
		return []string{strings.Trim(entry, "[]")}, 0, nil
	}
	p, err := strconv.Atoi(portStr)
	if err != nil || p < 1 || p > 65535 {
		return nil, 0, fmt.Errorf("invalid port %q", portStr)
	}
	return []string{host}, p, nil
}

// generateIPList generates all host IPs in an IPv4 CIDR range
func generateIPList(cidr string) ([]string, error) {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	if ipNet.IP.To4() == nil {
		return nil, fmt.Errorf("%s: only IPv4 ranges can be expanded", cidr)
	}

	ones, bits := ipNet.Mask.Size()
	if bits-ones > 12 {
		return nil, fmt.Errorf("%s: range larger than %d hosts", cidr, maxExpandedHosts)
	}

	broadcast := make(net.IP, len(ipNet.IP))
	copy(broadcast, ipNet.IP)
	for i := range ipNet.Mask {
		broadcast[i] |= ^ipNet.Mask[i]
	}

	var ips []string
	for ip := cloneIP(ipNet.IP.Mask(ipNet.Mask)); ipNet.Contains(ip); inc(ip) {
		// Skip network and broadcast addresses for /30 and larger
		if ones <= 30 && (ip.Equal(ipNet.IP) || ip.Equal(broadcast)) {
			continue
		}
		ips = append(ips, ip.String())
	}

	return ips, nil
}

// isExcluded checks if an IP is in the exclusion list
func isExcluded(ip string, excludeList []string) bool {
	for _, excl := range excludeList {
		_, exclNet, err := net.ParseCIDR(excl)
		if err == nil && exclNet.Contains(net.ParseIP(ip)) {
			return true
		}
		if excl == ip {
			return true
		}
	}
	return false
}

func cloneIP(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)
	return out
}

// inc increments an IP address
func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}
