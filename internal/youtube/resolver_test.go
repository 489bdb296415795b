package youtube

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		link string
		isID bool
		want string
	}{
		{
			name: "plain link untouched",
			link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "tracking params stripped",
			link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123&index=2",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "bare id expanded",
			link: "dQw4w9WgXcQ",
			isID: true,
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.link, tt.isID); got != tt.want {
				t.Errorf("Normalize(%q, %v) = %q, want %q", tt.link, tt.isID, got, tt.want)
			}
		})
	}
}

func TestNormalizePlaylist(t *testing.T) {
	got := NormalizePlaylist("PL0123456789", true)
	want := "https://youtube.com/playlist?list=PL0123456789"
	if got != want {
		t.Errorf("NormalizePlaylist = %q, want %q", got, want)
	}

	got = NormalizePlaylist("https://youtube.com/playlist?list=PL0123456789&feature=share", false)
	if got != "https://youtube.com/playlist?list=PL0123456789" {
		t.Errorf("NormalizePlaylist did not strip params: %q", got)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		link string
		isID bool
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", false, true},
		{"https://youtu.be/abc", false, true},
		{"https://vimeo.com/12345", false, false},
		{"dQw4w9WgXcQ", true, true},
		{"just some text", false, false},
	}

	for _, tt := range tests {
		if got := Matches(tt.link, tt.isID); got != tt.want {
			t.Errorf("Matches(%q, %v) = %v, want %v", tt.link, tt.isID, got, tt.want)
		}
	}
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mERROR:\x1b[0m video unavailable"
	want := "ERROR: video unavailable"
	if got := StripANSI(in); got != want {
		t.Errorf("StripANSI = %q, want %q", got, want)
	}
}
