package domain

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	cases := map[string]string{
		"32456:12@s.whatsapp.net": "32456@s.whatsapp.net",
		"32456@c.us":              "32456@c.us",
		"120363047641738769@g.us": "120363047641738769@g.us",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeID(in), in)
	}
}

func TestNormalizeIDs_DropsRepeatsAfterNormalizing(t *testing.T) {
	got := NormalizeIDs([]string{"1:1@c.us", "2@c.us", "1@c.us"})
	assert.Equal(t, []string{"1@c.us", "2@c.us"}, got)
	assert.Nil(t, NormalizeIDs(nil))
}

func TestMessage_Preview(t *testing.T) {
	m := &Message{Body: "hello world"}
	assert.Equal(t, "hello...", m.Preview(5))
	assert.Equal(t, "hello world", m.Preview(100))
}

func TestMessage_PreviewKeepsMultiByteCharacters(t *testing.T) {
	m := &Message{Body: "Привет, мир 🌍🌍"}

	got := m.Preview(13)
	assert.Equal(t, "Привет, мир 🌍...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "Привет, мир 🌍🌍", m.Preview(14))
}
