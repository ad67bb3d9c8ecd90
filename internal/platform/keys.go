package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned for a key name with no mapping on the platform
var ErrUnknownKey = errors.New("unknown key")

// keyCodes holds the macOS key code and the Windows virtual-key code of a key
type keyCodes struct {
	mac uint16
	win uint16
}

var keyTable = buildKeyTable()

// macLetters and macDigits are the ANSI layout key codes
var macLetters = [26]uint16{
	0, 11, 8, 2, 14, 3, 5, 4, 34, 38, 40, 37, 46, // a..m
	45, 31, 35, 12, 15, 1, 17, 32, 9, 13, 7, 16, 6, // n..z
}

var macDigits = [10]uint16{29, 18, 19, 20, 21, 23, 22, 26, 28, 25}

var macFunction = [12]uint16{122, 120, 99, 118, 96, 97, 98, 100, 101, 109, 103, 111}

func buildKeyTable() map[string]keyCodes {
	t := map[string]keyCodes{
		"right":     {mac: 124, win: 0x27},
		"left":      {mac: 123, win: 0x25},
		"down":      {mac: 125, win: 0x28},
		"up":        {mac: 126, win: 0x26},
		"space":     {mac: 49, win: 0x20},
		"enter":     {mac: 36, win: 0x0D},
		"return":    {mac: 36, win: 0x0D},
		"tab":       {mac: 48, win: 0x09},
		"pagedown":  {mac: 121, win: 0x22},
		"pageup":    {mac: 116, win: 0x21},
		"home":      {mac: 115, win: 0x24},
		"end":       {mac: 119, win: 0x23},
		"esc":       {mac: 53, win: 0x1B},
		"backspace": {mac: 51, win: 0x08},
		"delete":    {mac: 117, win: 0x2E},
		"insert":    {mac: 114, win: 0x2D},
	}
	t["pgdn"] = t["pagedown"]
	t["pgup"] = t["pageup"]
	t["escape"] = t["esc"]
	t["del"] = t["delete"]

	for i, code := range macLetters {
		t[string(rune('a'+i))] = keyCodes{mac: code, win: uint16('A' + i)}
	}
	for i, code := range macDigits {
		t[string(rune('0'+i))] = keyCodes{mac: code, win: uint16('0' + i)}
	}
	for i, code := range macFunction {
		t[fmt.Sprintf("f%d", i+1)] = keyCodes{mac: code, win: uint16(0x70 + i)}
	}
	return t
}

func lookupKey(name string) (keyCodes, error) {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
	codes, ok := keyTable[k]
	if !ok {
		return keyCodes{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return codes, nil
}

// ValidateKey checks that name can be sent as a page-advance key
func ValidateKey(name string) error {
	_, err := lookupKey(name)
	return err
}
