package httpclient

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewSaferClient(t *testing.T) {
	client := NewSaferClient(30 * time.Second)

	if client.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", client.Timeout)
	}
	if client.maxRedirects != 10 {
		t.Errorf("Expected maxRedirects 10, got %d", client.maxRedirects)
	}
	if !client.blockPrivateIP {
		t.Error("Expected blockPrivateIP to be true")
	}
	if client.Transport == nil {
		t.Error("Expected guarded transport to be installed")
	}
}

func TestValidateURL(t *testing.T) {
	client := NewSaferClient(30 * time.Second)

	tests := []struct {
		name        string
		url         string
		errContains string
	}{
		{name: "Honeycomb API", url: "https://api.honeycomb.io/1/auth"},
		{name: "EU endpoint", url: "https://api.eu1.honeycomb.io/1/datasets"},
		{name: "File scheme", url: "file:///etc/passwd", errContains: "scheme"},
		{name: "Gopher scheme", url: "gopher://example.com", errContains: "scheme"},
		{name: "Localhost", url: "http://localhost:8080/", errContains: "localhost"},
		{name: "Localhost subdomain", url: "http://api.localhost/", errContains: "localhost"},
		{name: "Loopback IP", url: "http://127.0.0.1/", errContains: "private"},
		{name: "RFC1918", url: "http://10.1.2.3/", errContains: "private"},
		{name: "Metadata service", url: "http://169.254.169.254/latest", errContains: "private"},
		{name: "IPv6 loopback", url: "http://[::1]/", errContains: "private"},
		{name: "IPv6 ULA", url: "http://[fd00::1]/", errContains: "private"},
		{name: "Userinfo", url: "http://api.honeycomb.io@10.0.0.1/", errContains: "userinfo"},
		{name: "Missing host", url: "http:///path", errContains: "hostname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ValidateURL(tt.url)
			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("Expected %s to pass, got %v", tt.url, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected %s to be rejected", tt.url)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error containing %q, got %v", tt.errContains, err)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"8.8.8.8", false},
		{"52.1.2.3", false},
		{"2606:4700::1111", false},
		{"10.0.0.1", true},
		{"172.20.0.1", true},
		{"192.168.1.1", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"::ffff:10.0.0.1", true},
		{"2001:db8::1", true},
	}

	for _, tt := range tests {
		if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.private {
			t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.private)
		}
	}
}

func TestOptions(t *testing.T) {
	allow := false
	redirects := 2
	client := NewSaferClientWithOptions(time.Second, Options{
		BlockPrivateIP: &allow,
		MaxRedirects:   &redirects,
		AllowedSchemes: []string{"https"},
	})

	if client.blockPrivateIP {
		t.Error("Expected private IP blocking to be disabled")
	}
	if client.maxRedirects != 2 {
		t.Errorf("Expected maxRedirects 2, got %d", client.maxRedirects)
	}
	if _, err := client.ValidateURL("http://10.0.0.1/"); err == nil {
		t.Error("Expected http scheme to be rejected")
	}
	if _, err := client.ValidateURL("https://10.0.0.1/"); err != nil {
		t.Errorf("Expected private address to be allowed, got %v", err)
	}
}

func TestMaxRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	client := WrapClient(&http.Client{Timeout: 5 * time.Second})
	client.CheckRedirect = client.checkRedirect
	client.maxRedirects = 3

	resp, err := client.Get(server.URL + "/")
	if err == nil {
		resp.Body.Close()
		t.Fatal("Expected redirect loop to be stopped")
	}
	if !strings.Contains(err.Error(), "stopped after 3 redirects") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestDoSetsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := WrapClient(&http.Client{Timeout: 5 * time.Second})
	client.userAgent = "sembrowse/test"

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if got != "sembrowse/test" {
		t.Errorf("Expected User-Agent sembrowse/test, got %q", got)
	}
}

func TestDoBlocksPrivateTarget(t *testing.T) {
	client := NewSaferClient(time.Second)
	req, _ := http.NewRequest(http.MethodGet, "http://192.168.0.10/", nil)
	if _, err := client.Do(req); err == nil {
		t.Fatal("Expected request to private address to be blocked")
	}
}
