package httputil

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeVideoURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"https passthrough", "https://example.com/watch?v=1", "https://example.com/watch?v=1", nil},
		{"http passthrough", "http://example.com/video", "http://example.com/video", nil},
		{"scheme added", "example.com/video", "https://example.com/video", nil},
		{"whitespace trimmed", "  https://example.com/v  ", "https://example.com/v", nil},
		{"empty", "", "", ErrMalformed},
		{"whitespace only", "   ", "", ErrMalformed},
		{"ftp scheme", "ftp://example.com/video.mp4", "", ErrSchemeNotAllowed},
		{"localhost", "http://localhost/video", "", ErrInternalAddress},
		{"localhost with port", "http://localhost:8080/video", "", ErrInternalAddress},
		{"loopback", "http://127.0.0.1/video", "", ErrInternalAddress},
		{"any loopback", "http://127.10.20.30/x", "", ErrInternalAddress},
		{"zero address", "http://0.0.0.0/", "", ErrInternalAddress},
		{"private 10", "http://10.1.2.3/stream", "", ErrInternalAddress},
		{"private 192.168", "http://192.168.1.1/admin", "", ErrInternalAddress},
		{"private 172 low", "http://172.16.0.1/", "", ErrInternalAddress},
		{"private 172 high", "http://172.31.255.1/", "", ErrInternalAddress},
		{"public 172", "http://172.32.0.1/video", "http://172.32.0.1/video", nil},
		{"public 172 short octet", "http://172.1.2.3/video", "http://172.1.2.3/video", nil},
		{"link local", "http://169.254.169.254/latest", "", ErrInternalAddress},
		{"ipv6 loopback", "http://[::1]/video", "", ErrInternalAddress},
		{"ipv6 unique local", "http://[fd12:3456::1]/video", "", ErrInternalAddress},
		{"ipv6 link local", "http://[fe80::1]/video", "", ErrInternalAddress},
		{"fc hostname not blocked", "https://fcbarcelona.com/match", "https://fcbarcelona.com/match", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeVideoURL(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizeVideoURL(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				if !IsValidationError(err) {
					t.Errorf("IsValidationError(%v) = false, want true", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeVideoURL(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeVideoURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeVideoURLTooLong(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 2048)
	if _, err := NormalizeVideoURL(long); !errors.Is(err, ErrTooLong) {
		t.Fatalf("error = %v, want ErrTooLong", err)
	}
}

func TestIsValidationError(t *testing.T) {
	if IsValidationError(errors.New("network down")) {
		t.Error("unrelated error reported as validation error")
	}
	if IsValidationError(nil) {
		t.Error("nil reported as validation error")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"video.mp4", "video.mp4"},
		{"../../../etc/passwd", "passwd"},
		{"my:video?.mp4", "my_video_.mp4"},
		{"a<b>c|d.mkv", "a_b_c_d.mkv"},
		{"", "untitled"},
		{".", "untitled"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeDownloadPath(t *testing.T) {
	dir := t.TempDir()

	path, err := SafeDownloadPath(dir, "movie.mp4")
	if err != nil {
		t.Fatalf("SafeDownloadPath: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("path %q not under %q", path, dir)
	}

	path, err = SafeDownloadPath(dir, "../../escape.mp4")
	if err != nil {
		t.Fatalf("SafeDownloadPath with traversal name: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("traversal name escaped: %q", path)
	}
}
