package uri

import (
	"sync"

	"github.com/samber/lo"
)

var (
	schemes     = map[string]struct{}{}
	schemesLock sync.Mutex
)

// RegisterScheme registers scheme as one that URIs are allowed to use.
// It panics if scheme is already registered, since that indicates two
// store backends are fighting over the same namespace.
func RegisterScheme(scheme string) {
	schemesLock.Lock()
	defer schemesLock.Unlock()
	if _, ok := schemes[scheme]; ok {
		panic("uri: scheme already registered: " + scheme)
	}
	schemes[scheme] = struct{}{}
}

// IsRegisteredScheme reports whether scheme has been registered.
func IsRegisteredScheme(scheme string) bool {
	schemesLock.Lock()
	defer schemesLock.Unlock()
	_, ok := schemes[scheme]
	return ok
}

// AllRegisteredSchemes returns every registered scheme.
func AllRegisteredSchemes() []string {
	schemesLock.Lock()
	defer schemesLock.Unlock()
	return lo.Keys(schemes)
}

func init() {
	RegisterScheme(SchemeArxiv)
	RegisterScheme(SchemeFile)
	RegisterScheme(SchemeHTTPS)
}
