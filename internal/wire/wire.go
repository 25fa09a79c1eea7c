package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

var (
	ErrCorrupt = errors.New("offcache: corrupt entry")
	magic4     = [...]byte{'O', 'F', 'F', 'C'}
)

// Field is one header name/value pair. A name may repeat; relative order of
// values under the same name survives encode/decode.
type Field struct {
	Name  string
	Value string
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry frame:
//
//	magic(4) | ver(1) | kind(1=entry) | status(u16 be) | nfields(u16 be)
//	nlen(u16 be) | name(nlen) | vlen(u32 be) | value(vlen)   * nfields
//	blen(u32 be) | body(blen)
func EncodeEntry(status int, fields []Field, body []byte) ([]byte, error) {
	if status < 100 || status > 999 {
		return nil, errors.New("offcache: status out of range")
	}
	if len(fields) > 0xFFFF {
		return nil, errors.New("offcache: too many header fields")
	}

	total := 4 + 1 + 1 + 2 + 2
	for _, f := range fields {
		if l := len(f.Name); l == 0 || l > 0xFFFF {
			return nil, errors.New("offcache: invalid header name length")
		}
		total += 2 + len(f.Name) + 4 + len(f.Value)
	}
	total += 4 + len(body)

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(status))
	buf.Write(u2[:])

	binary.BigEndian.PutUint16(u2[:], uint16(len(fields)))
	buf.Write(u2[:])

	for _, f := range fields {
		binary.BigEndian.PutUint16(u2[:], uint16(len(f.Name)))
		buf.Write(u2[:])
		buf.WriteString(f.Name)

		binary.BigEndian.PutUint32(u4[:], uint32(len(f.Value)))
		buf.Write(u4[:])
		buf.WriteString(f.Value)
	}

	binary.BigEndian.PutUint32(u4[:], uint32(len(body)))
	buf.Write(u4[:])
	buf.Write(body)

	return buf.Bytes(), nil
}

// DecodeEntry validates framing strictly: wrong magic/version/kind, any
// length running past the buffer, and trailing bytes all yield ErrCorrupt.
// The returned body subslices the input (zero-copy); callers that retain it
// must not mutate the source buffer.
func DecodeEntry(b []byte) (status int, fields []Field, body []byte, err error) {
	const hdr = 4 + 1 + 1 + 2 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return 0, nil, nil, ErrCorrupt
	}

	off := 6

	status = int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if status < 100 || status > 999 {
		return 0, nil, nil, ErrCorrupt
	}

	nfields := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2

	if nfields > 0 {
		fields = make([]Field, 0, nfields)
	}
	for i := 0; i < nfields; i++ {
		if off+2 > len(b) {
			return 0, nil, nil, ErrCorrupt
		}
		nlen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if nlen <= 0 || nlen > len(b)-off {
			return 0, nil, nil, ErrCorrupt
		}
		name := b[off : off+nlen]
		off += nlen

		if off+4 > len(b) {
			return 0, nil, nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return 0, nil, nil, ErrCorrupt
		}
		value := b[off : off+vlen]
		off += vlen

		fields = append(fields, Field{Name: string(name), Value: string(value)})
	}

	if off+4 > len(b) {
		return 0, nil, nil, ErrCorrupt
	}
	blen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if blen < 0 || blen > len(b)-off {
		return 0, nil, nil, ErrCorrupt
	}
	body = b[off : off+blen]
	off += blen

	if off != len(b) {
		return 0, nil, nil, ErrCorrupt
	}
	return status, fields, body, nil
}
