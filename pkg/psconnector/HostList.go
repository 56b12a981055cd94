package psconnector

import "strconv"
import "strings"

import "tsquorum/pkg/tserr"

//=========================================== Page Server Host List


/*
	ParseHostList validates and splits a comma-separated list of
	"host:port" page server endpoints, the format the PAGE_SERVER_HOSTS
	configuration value takes. A malformed entry does not abort the whole
	list: it is recorded as an error and skipped, so a transaction server
	with one bad entry among several good ones still boots against the
	valid subset. An empty or blank list is only fatal when remoteStorage
	is true -- with remote storage disabled there is nothing to connect
	to, and that is a supported configuration, not a misconfiguration.
*/

func ParseHostList(raw string, remoteStorage bool) ([]string, []error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if remoteStorage { return nil, []error{ tserr.ErrEmptyPageServerHostsConfig } }
		return nil, nil
	}

	entries := strings.Split(trimmed, ",")
	hosts := make([]string, 0, len(entries))
	var errs []error

	for _, entry := range entries {
		hostPort := strings.TrimSpace(entry)
		if hostPort == "" { continue }

		if validateErr := validateHostPort(hostPort); validateErr != nil {
			errs = append(errs, validateErr)
			continue
		}

		hosts = append(hosts, hostPort)
	}

	if len(hosts) == 0 && remoteStorage && len(errs) == 0 {
		errs = append(errs, tserr.ErrEmptyPageServerHostsConfig)
	}

	return hosts, errs
}

/*
	validateHostPort requires a literal host:port pair with the port a
	base 10 integer in [1, 65535]. net.SplitHostPort alone only checks
	for a colon-separated string and would let "h1:99999" or "h2:bad"
	both through, so the port is parsed by hand here instead.
*/

func validateHostPort(hostPort string) error {
	idx := strings.LastIndex(hostPort, ":")
	if idx <= 0 || idx == len(hostPort)-1 { return tserr.ErrHostPortParameter }

	portStr := hostPort[idx+1:]

	port, convErr := strconv.Atoi(portStr)
	if convErr != nil || port < 1 || port > 65535 { return tserr.ErrHostPortParameter }

	return nil
}

/*
	Quorum returns the minimum number of agreeing replicas required out of
	n total page servers: floor(n/2)+1.
*/

func Quorum(n int) int {
	return n/2 + 1
}
