package mcpserver

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlockedIP(t *testing.T) {
	tests := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.20.0.5", true},
		{"192.168.0.10", true},
		{"169.254.169.254", true}, // cloud metadata endpoint
		{"::1", true},
		{"0.0.0.0", true},
		{"fe80::abcd", true},
		{"fd12:3456::1", true},
		{"140.82.112.3", false},
		{"185.199.108.133", false},
		{"2606:4700::1111", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip, "failed to parse IP: %s", tt.ip)
			assert.Equal(t, tt.blocked, isBlockedIP(ip))
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	safe := newHTTPClient(5*time.Second, false)
	assert.Equal(t, 5*time.Second, safe.Timeout)
	assert.NotNil(t, safe.CheckRedirect)
	assert.NotNil(t, safe.Transport)

	open := newHTTPClient(time.Second, true)
	assert.Nil(t, open.Transport)
	assert.Nil(t, open.CheckRedirect)
}

func TestPublicDialer_Redirects(t *testing.T) {
	d := &publicDialer{resolver: net.DefaultResolver}
	req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1/inference.json", nil)

	err := d.checkRedirect(req, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")

	err = d.checkRedirect(req, make([]*http.Request, maxRedirects))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many redirects")
}

func TestNewHTTPClient_BlocksLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	_, err := newHTTPClient(5*time.Second, false).Get(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")

	resp, err := newHTTPClient(5*time.Second, true).Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
