package filterlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Field primitives. Every field is terminated by a comma delimiter
// except the final field of a record, which runs to end-of-input. An
// empty run between two delimiters denotes an absent optional value.

// nextField splits off the text before the next delimiter and returns
// the remainder after it. A line with no delimiter left has run out of
// fields, which is an error for any non-final field.
func nextField(s string) (tok, rest string, err error) {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return "", "", fmt.Errorf("missing field delimiter in %q", s)
	}
	return s[:i], s[i+1:], nil
}

// tokenField consumes a mandatory non-empty field.
func tokenField(s string) (tok, rest string, err error) {
	tok, rest, err = nextField(s)
	if err != nil {
		return "", "", err
	}
	if tok == "" {
		return "", "", fmt.Errorf("empty field in %q", s)
	}
	return tok, rest, nil
}

// textField consumes a free-text field, which may be empty.
func textField(s string) (tok, rest string, err error) {
	return nextField(s)
}

func uintField(s string, bits int) (uint64, string, error) {
	tok, rest, err := nextField(s)
	if err != nil {
		return 0, "", err
	}
	v, err := strconv.ParseUint(tok, 10, bits)
	if err != nil {
		return 0, "", fmt.Errorf("invalid %d-bit number %q", bits, tok)
	}
	return v, rest, nil
}

func u8Field(s string) (uint8, string, error) {
	v, rest, err := uintField(s, 8)
	return uint8(v), rest, err
}

func u16Field(s string) (uint16, string, error) {
	v, rest, err := uintField(s, 16)
	return uint16(v), rest, err
}

func u32Field(s string) (uint32, string, error) {
	v, rest, err := uintField(s, 32)
	return uint32(v), rest, err
}

// optU32Field consumes an optional 32-bit field: empty means absent.
func optU32Field(s string) (*uint32, string, error) {
	tok, rest, err := nextField(s)
	if err != nil {
		return nil, "", err
	}
	if tok == "" {
		return nil, rest, nil
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return nil, "", fmt.Errorf("invalid 32-bit number %q", tok)
	}
	u := uint32(v)
	return &u, rest, nil
}

// hexByteField consumes a hexadecimal byte written with a mandatory
// 0x/0X prefix and at least one hex digit.
func hexByteField(s string) (uint8, string, error) {
	tok, rest, err := nextField(s)
	if err != nil {
		return 0, "", err
	}
	if !strings.HasPrefix(tok, "0x") && !strings.HasPrefix(tok, "0X") {
		return 0, "", fmt.Errorf("hex field %q lacks 0x prefix", tok)
	}
	v, err := strconv.ParseUint(tok[2:], 16, 8)
	if err != nil {
		return 0, "", fmt.Errorf("invalid hex byte %q", tok)
	}
	return uint8(v), rest, nil
}
