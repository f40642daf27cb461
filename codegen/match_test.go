package codegen

import "testing"

func TestMatchName(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"", "foo.Bar", false},
		{".", "foo.Bar", true},
		{"foo.Bar", "foo.Bar", true},
		{".foo", "foo.Bar", false},
		{".foo.Bar", "foo.Bar.Baz", false},
		{"Bar", "foo.Bar", true},
		{"Baz", "foo.Bar", false},
		{".foo.bar", "foo.barbaz", false},
	}
	for _, tt := range tests {
		if got := MatchName(tt.pattern, tt.path); got != tt.want {
			t.Errorf("MatchName(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SayHello", "say_hello"},
		{"HTTPServer", "h_t_t_p_server"},
		{"already_snake", "already_snake"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SnakeCase(tt.in); got != tt.want {
			t.Errorf("SnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
