package endpoint

import "testing"

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  Sources
		want string
	}{
		{"override wins over all", Sources{Override: "http://env:1", Flag: "http://flag:2", Persisted: "http://saved:3", Default: "http://def:4"}, "http://env:1"},
		{"flag wins over persisted", Sources{Flag: "http://flag:2", Persisted: "http://saved:3", Default: "http://def:4"}, "http://flag:2"},
		{"persisted wins over default", Sources{Persisted: "http://saved:3", Default: "http://def:4"}, "http://saved:3"},
		{"default when nothing else", Sources{Default: "http://def:4"}, "http://def:4"},
		{"computed default when empty", Sources{}, DefaultBase},
		{"trailing slash trimmed", Sources{Override: "http://env:1/"}, "http://env:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.Resolve(); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	src := Sources{Flag: "http://flag:2", Persisted: "http://saved:3"}
	first := src.Resolve()
	for i := 0; i < 10; i++ {
		if got := src.Resolve(); got != first {
			t.Fatalf("Resolve() not deterministic: %q then %q", first, got)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"plain base, versioned path", "http://h:8010", "/api/v1/groceries", "http://h:8010/api/v1/groceries"},
		{"versioned base, versioned path collapses", "http://h:8010/api/v1", "/api/v1/groceries", "http://h:8010/api/v1/groceries"},
		{"versioned base, plain path", "http://h:8010/api/v1", "/status", "http://h:8010/api/v1/status"},
		{"plain base, plain path", "http://h:8010", "/status", "http://h:8010/status"},
		{"versioned base, exact version path", "http://h:8010/api/v1", "/api/v1", "http://h:8010/api/v1/"},
		{"case-insensitive collapse", "http://h:8010/API/V1", "/api/v1/plans", "http://h:8010/API/V1/plans"},
		{"missing leading slash", "http://h:8010", "health", "http://h:8010/health"},
		{"absolute http passthrough", "http://h:8010", "http://other:9/x", "http://other:9/x"},
		{"absolute https passthrough", "http://h:8010", "https://other:9/x", "https://other:9/x"},
		{"prefix-like path not collapsed", "http://h:8010/api/v1", "/api/v10/x", "http://h:8010/api/v1/api/v10/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(Sources{Override: tt.base}, nil)
			if got := r.BuildURL(tt.path); got != tt.want {
				t.Errorf("BuildURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuildURLNeverDoublesVersionSegment(t *testing.T) {
	bases := []string{"http://h:8010", "http://h:8010/api/v1"}
	paths := []string{"/groceries", "/api/v1/groceries", "api/v1/groceries"}
	for _, b := range bases {
		for _, p := range paths {
			r := NewResolver(Sources{Override: b}, nil)
			got := r.BuildURL(p)
			if n := countOccurrences(got, "/api/v1/"); n > 1 {
				t.Errorf("BuildURL(%q, %q) = %q contains version segment %d times", b, p, got, n)
			}
		}
	}
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func TestResolverPersistsAndNotifies(t *testing.T) {
	var persisted []string
	r := NewResolver(Sources{Flag: "http://one:1"}, func(b string) {
		persisted = append(persisted, b)
	})
	if len(persisted) != 1 || persisted[0] != "http://one:1" {
		t.Fatalf("expected initial persist of resolved base, got %v", persisted)
	}

	var notified string
	r.Subscribe(func(b string) { notified = b })
	r.SetBase("http://two:2/")

	if r.Base() != "http://two:2" {
		t.Errorf("Base() = %q after SetBase", r.Base())
	}
	if notified != "http://two:2" {
		t.Errorf("subscriber saw %q, want %q", notified, "http://two:2")
	}
	if len(persisted) != 2 || persisted[1] != "http://two:2" {
		t.Errorf("expected second persist, got %v", persisted)
	}
}
