package xhttp

import (
	stdurl "net/url"
	"strings"
)

// ParseHostScheme parses any address string and returns host, scheme and
// error. If addr is a bare host/domain string, the returned scheme is "".
func ParseHostScheme(addr string) (string, string, error) {
	if strings.Contains(addr, "://") {
		url, err := stdurl.Parse(addr)
		if err != nil {
			return "", "", err
		}
		return url.Host, url.Scheme, nil
	}

	url, err := stdurl.Parse("https://" + addr)
	if err != nil {
		return "", "", err
	}
	return url.Host, "", nil
}
