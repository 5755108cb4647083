package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestImageKey(t *testing.T) {
	cases := []struct {
		url  string
		key  string
		want bool
	}{
		{"https://cdn.example.com/products/abc.png", "abc.png", true},
		{"https://cdn.example.com/products/abc.png?v=2#top", "abc.png", true},
		{"https://cdn.example.com/products/abc/", "abc", true},
		{"abc.jpg", "abc.jpg", true},
		{"https://cdn.example.com/", "", false},
		{"https://cdn.example.com", "", false},
	}
	for _, tc := range cases {
		p := withImage(newProduct("Widget", "W1", "tools", baseTime), tc.url)
		key, ok := p.ImageKey()
		require.Equal(t, tc.want, ok, tc.url)
		require.Equal(t, tc.key, key, tc.url)
	}

	_, ok := newProduct("Widget", "W1", "tools", baseTime).ImageKey()
	require.False(t, ok)
}

func TestOptionalText(t *testing.T) {
	v, ok := SomeText("Acme").Get()
	require.True(t, ok)
	require.Equal(t, "Acme", v)

	require.False(t, SomeText("").Present())
	require.False(t, NoText().Present())
	require.Nil(t, NoText().Ptr())
	require.Equal(t, "Acme", *SomeText("Acme").Ptr())

	blank := " "
	require.False(t, TextFromPtr(&blank).Present())
	require.False(t, TextFromPtr(nil).Present())
	require.Equal(t, "x", TextFromPtr(nil).OrElse("x"))
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "$0.00", FormatMoney(decimal.Zero))
	require.Equal(t, "$10.50", FormatMoney(decimal.RequireFromString("10.5")))
	require.Equal(t, "$1.24", FormatMoney(decimal.RequireFromString("1.235")))
}
