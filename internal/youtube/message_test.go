package youtube

import "testing"

func TestURLFromMessage(t *testing.T) {
	link := "https://youtu.be/dQw4w9WgXcQ"

	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{
			name: "nil message",
			msg:  nil,
			want: "",
		},
		{
			name: "url entity in text",
			msg: &Message{
				Text:     "play " + link + " please",
				Entities: []Entity{{Kind: EntityURL, Offset: 5, Length: len(link)}},
			},
			want: link,
		},
		{
			name: "text link in caption entities",
			msg: &Message{
				Caption:         "this song",
				CaptionEntities: []Entity{{Kind: EntityTextLink, Offset: 0, Length: 9, URL: link}},
			},
			want: link,
		},
		{
			name: "url entity over caption text",
			msg: &Message{
				Caption:  link,
				Entities: []Entity{{Kind: EntityURL, Offset: 0, Length: len(link)}},
			},
			want: link,
		},
		{
			name: "falls back to reply target",
			msg: &Message{
				Text: "play this",
				ReplyTo: &Message{
					Text:     link,
					Entities: []Entity{{Kind: EntityURL, Offset: 0, Length: len(link)}},
				},
			},
			want: link,
		},
		{
			name: "no link anywhere",
			msg:  &Message{Text: "play something nice"},
			want: "",
		},
		{
			name: "out of bounds entity ignored",
			msg: &Message{
				Text:     "short",
				Entities: []Entity{{Kind: EntityURL, Offset: 2, Length: 50}},
			},
			want: "",
		},
		{
			name: "multibyte text before link",
			msg: &Message{
				Text:     "réécoute " + link,
				Entities: []Entity{{Kind: EntityURL, Offset: 9, Length: len(link)}},
			},
			want: link,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLFromMessage(tt.msg); got != tt.want {
				t.Errorf("URLFromMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
