package youtube

// EntityKind tags a rich-text entity on an inbound chat message.
type EntityKind string

const (
	// EntityURL marks a plain URL typed into the message text.
	EntityURL EntityKind = "url"
	// EntityTextLink marks hyperlinked text; the target lives on the entity.
	EntityTextLink EntityKind = "text_link"
)

// Entity is one rich-text annotation. Offset and Length index into the
// message text in runes.
type Entity struct {
	Kind   EntityKind
	Offset int
	Length int
	URL    string // set for text links only
}

// Message is the inbound chat-message shape this package reads. It is a
// consumed boundary: constructed by the bot layer, never produced here.
type Message struct {
	Text            string
	Caption         string
	Entities        []Entity
	CaptionEntities []Entity
	ReplyTo         *Message
}

// URLFromMessage returns the first embedded link found in the message, or,
// failing that, in the message it replies to. Plain URL entities are sliced
// out of the text; text-link entities carry the target directly. Returns ""
// when neither message holds a link.
func URLFromMessage(msg *Message) string {
	if msg == nil {
		return ""
	}

	candidates := []*Message{msg}
	if msg.ReplyTo != nil {
		candidates = append(candidates, msg.ReplyTo)
	}

	for _, m := range candidates {
		if len(m.Entities) > 0 {
			for _, e := range m.Entities {
				if e.Kind != EntityURL {
					continue
				}
				text := m.Text
				if text == "" {
					text = m.Caption
				}
				if link := sliceEntity(text, e); link != "" {
					return link
				}
			}
			continue
		}
		for _, e := range m.CaptionEntities {
			if e.Kind == EntityTextLink && e.URL != "" {
				return e.URL
			}
		}
	}
	return ""
}

// sliceEntity extracts the entity's span from text, tolerating annotations
// that fall outside the text bounds.
func sliceEntity(text string, e Entity) string {
	runes := []rune(text)
	if e.Offset < 0 || e.Length <= 0 || e.Offset+e.Length > len(runes) {
		return ""
	}
	return string(runes[e.Offset : e.Offset+e.Length])
}
