package proxy

import (
	"math/rand"
	"net/http"
	"net/url"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// Manager handles the rotation of outbound proxies and user agents.
type Manager struct {
	proxies    []*url.URL
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
	rnd        *rand.Rand
}

// NewManager builds a manager over the given proxy URLs. Unparseable entries are skipped.
func NewManager(proxyURLs []string) *Manager {
	m := &Manager{
		userAgents: defaultUserAgents,
		rnd:        rand.New(rand.NewSource(rand.Int63())),
	}
	for _, raw := range proxyURLs {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			m.proxies = append(m.proxies, u)
		}
	}
	return m
}

// NextProxy returns a proxy URL from the list, rotating sequentially, or nil when none are configured.
func (m *Manager) NextProxy() *url.URL {
	if len(m.proxies) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return p
}

// UserAgent returns a random user agent string.
func (m *Manager) UserAgent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userAgents[m.rnd.Intn(len(m.userAgents))]
}

// ProxyFunc plugs the rotation into an http.Transport.
func (m *Manager) ProxyFunc(*http.Request) (*url.URL, error) {
	return m.NextProxy(), nil
}
