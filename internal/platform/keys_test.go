package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKey(t *testing.T) {
	codes, err := lookupKey("right")
	require.NoError(t, err)
	assert.Equal(t, uint16(124), codes.mac)
	assert.Equal(t, uint16(0x27), codes.win)

	codes, err = lookupKey(" Page_Down ")
	require.NoError(t, err)
	assert.Equal(t, uint16(121), codes.mac)
	assert.Equal(t, uint16(0x22), codes.win)

	enter, err := lookupKey("enter")
	require.NoError(t, err)
	ret, err := lookupKey("return")
	require.NoError(t, err)
	assert.Equal(t, enter, ret)
}

func TestValidateKey_Unknown(t *testing.T) {
	err := ValidateKey("hyper")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.NoError(t, ValidateKey("left"))
}

func TestLookupKey_Aliases(t *testing.T) {
	tests := []struct {
		alias string
		same  string
	}{
		{"pgdn", "pagedown"},
		{"PgUp", "pageup"},
		{"escape", "esc"},
		{"del", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			a, err := lookupKey(tt.alias)
			require.NoError(t, err)
			b, err := lookupKey(tt.same)
			require.NoError(t, err)
			assert.Equal(t, b, a)
		})
	}
}

func TestLookupKey_LettersDigitsAndFunctionKeys(t *testing.T) {
	tests := []struct {
		name string
		want keyCodes
	}{
		{"a", keyCodes{mac: 0, win: 0x41}},
		{"j", keyCodes{mac: 38, win: 0x4A}},
		{"N", keyCodes{mac: 45, win: 0x4E}},
		{"z", keyCodes{mac: 6, win: 0x5A}},
		{"0", keyCodes{mac: 29, win: 0x30}},
		{"5", keyCodes{mac: 23, win: 0x35}},
		{"f1", keyCodes{mac: 122, win: 0x70}},
		{"F12", keyCodes{mac: 111, win: 0x7B}},
		{"esc", keyCodes{mac: 53, win: 0x1B}},
		{"backspace", keyCodes{mac: 51, win: 0x08}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lookupKey(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyTable_Size(t *testing.T) {
	// 16 named keys, 4 aliases, 26 letters, 10 digits, 12 function keys
	assert.Len(t, keyTable, 68)
	assert.ErrorIs(t, ValidateKey("f13"), ErrUnknownKey)
	assert.ErrorIs(t, ValidateKey(""), ErrUnknownKey)
}
