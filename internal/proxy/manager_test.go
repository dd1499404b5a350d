package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextProxy_RotatesSequentially(t *testing.T) {
	m := NewManager([]string{"http://p1:8000", "::bad::", "http://p2:8000"})

	assert.Equal(t, "p1:8000", m.NextProxy().Host)
	assert.Equal(t, "p2:8000", m.NextProxy().Host)
	assert.Equal(t, "p1:8000", m.NextProxy().Host)
}

func TestNextProxy_NoneConfigured(t *testing.T) {
	m := NewManager(nil)
	assert.Nil(t, m.NextProxy())

	u, err := m.ProxyFunc(nil)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserAgent_FromKnownList(t *testing.T) {
	m := NewManager(nil)
	assert.Contains(t, defaultUserAgents, m.UserAgent())
}
