// Package codec implements the Integer<->OctetString codec (C1) and the
// Return Batch DER encode boundary (C3 step 5).
package codec

import "errors"

// ErrIntegerOverflow is returned when a value would need more than 8
// significant bytes to encode, or when sign-extension padding would push
// the length past 8.
var ErrIntegerOverflow = errors.New("codec: integer requires more than 8 octets to encode")

// ErrEmptyOctetString is returned by DecodeOctetsAsInt64 for a zero-length
// input; TAP's Integer representation always has at least one octet.
var ErrEmptyOctetString = errors.New("codec: octet string is empty")

// EncodeInt64AsOctets produces the shortest big-endian two's-complement
// encoding of v, as TAP's underlying ASN.1 Integer representation requires
// (§4.1): most-significant byte first, no redundant sign-extension byte,
// minimum length 1 (the value 0).
func EncodeInt64AsOctets(v int64) ([]byte, error) {
	var full [8]byte
	for i := range full {
		full[i] = byte(v >> uint(8*(7-i)))
	}

	start := 0
	for start < 7 {
		b, next := full[start], full[start+1]
		if b == 0x00 && next&0x80 == 0 {
			start++
			continue
		}
		if b == 0xFF && next&0x80 != 0 {
			start++
			continue
		}
		break
	}

	result := full[start:]
	if len(result) > 8 {
		// Unreachable for a fixed-width int64 input, kept because the
		// contract names it explicitly and DecodeOctetsAsInt64 shares the
		// same bound check on the way back in.
		return nil, ErrIntegerOverflow
	}
	return append([]byte(nil), result...), nil
}

// DecodeOctetsAsInt64 is the inverse of EncodeInt64AsOctets: a big-endian
// two's-complement octet string, sign-extended to int64. Assumed available
// upstream per §4.1; implemented here because C2's content probes need it.
func DecodeOctetsAsInt64(octets []byte) (int64, error) {
	if len(octets) == 0 {
		return 0, ErrEmptyOctetString
	}
	if len(octets) > 8 {
		return 0, ErrIntegerOverflow
	}

	var v int64
	if octets[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range octets {
		v = (v << 8) | int64(b)
	}
	return v, nil
}
