package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address' domain resolves, via MX
// first and plain A/AAAA as a fallback. A missing or trailing "@" fails
// without hitting DNS.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	host := email[at+1:]

	if mx, err := net.LookupMX(host); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(host)
	return err == nil && len(ips) > 0
}
