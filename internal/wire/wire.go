// Package wire frames stored payloads so foreign or corrupt bytes in a shared
// store are detected before they reach a codec. Value and policy entries carry
// distinct kinds, so a policy accidentally written under a value key (or vice
// versa) also reads as corrupt.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1

	KindValue  byte = 1
	KindPolicy byte = 2
)

var (
	ErrCorrupt = errors.New("duocache: corrupt entry")
	magic4     = [...]byte{'D', 'U', 'O', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Frame: magic(4) | ver(1) | kind(1) | vlen(u32 be) | payload(vlen)
func Encode(kind byte, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode validates the frame and returns the payload. The declared length
// must account for every remaining byte; trailing junk reads as corrupt.
func Decode(kind byte, b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kind {
		return nil, ErrCorrupt
	}

	vlen := int(binary.BigEndian.Uint32(b[6:10]))
	if vlen < 0 || vlen != len(b)-hdr {
		return nil, ErrCorrupt
	}
	return b[hdr : hdr+vlen], nil
}
