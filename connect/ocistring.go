// Package connect turns an Oracle connect string into an open connection pool.
package connect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPort is the listener port used when the connect string names none.
const DefaultPort = 1521

var (
	ErrMissingConnectString = errors.New("--ocistring <oracle db connect string> or --dbenv <ENV name which holds oracle db connection string> needed")
	ErrInvalidConnectString = errors.New("invalid connect string")
)

// ConnectString is a parsed user/password@//host:port/service string.
type ConnectString struct {
	User     string
	Password string
	Host     string
	Port     int
	Service  string
}

// ParseConnectString parses the easy connect form
//
//	user/password@//host[:port]/service
//
// The leading // is optional. The password may be left out
// (user@//host/service) and supplied later.
func ParseConnectString(s string) (ConnectString, error) {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return ConnectString{}, fmt.Errorf("%w: expected user/password@//host/service", ErrInvalidConnectString)
	}

	var cs ConnectString
	userpass, address := s[:at], s[at+1:]
	if slash := strings.IndexByte(userpass, '/'); slash >= 0 {
		cs.User, cs.Password = userpass[:slash], userpass[slash+1:]
	} else {
		cs.User = userpass
	}
	if cs.User == "" {
		return ConnectString{}, fmt.Errorf("%w: user is empty", ErrInvalidConnectString)
	}

	address = strings.TrimPrefix(address, "//")
	hostport, service, ok := strings.Cut(address, "/")
	if !ok || hostport == "" || service == "" {
		return ConnectString{}, fmt.Errorf("%w: expected //host[:port]/service after @", ErrInvalidConnectString)
	}
	cs.Service = service

	cs.Host, cs.Port = hostport, DefaultPort
	if host, port, found := strings.Cut(hostport, ":"); found {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return ConnectString{}, fmt.Errorf("%w: bad port %q", ErrInvalidConnectString, port)
		}
		cs.Host, cs.Port = host, n
	}

	return cs, nil
}

// String renders the connect string without the password.
func (cs ConnectString) String() string {
	return fmt.Sprintf("%s@//%s:%d/%s", cs.User, cs.Host, cs.Port, cs.Service)
}

// Resolve picks the connect string to use. The value of the environment
// variable named by dbenv wins over ocistring.
func Resolve(ocistring, dbenv string, lookup func(string) (string, bool)) (string, error) {
	if dbenv != "" {
		v, ok := lookup(dbenv)
		if !ok {
			return "", fmt.Errorf("error get env var %s", dbenv)
		}
		ocistring = v
	}
	if ocistring == "" {
		return "", ErrMissingConnectString
	}
	return ocistring, nil
}
