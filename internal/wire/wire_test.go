package wire

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (int, []Field, []byte) {
	t.Helper()
	status, fields, body, err := DecodeEntry(b)
	if err != nil {
		t.Fatalf("DecodeEntry error: %v", err)
	}
	return status, fields, body
}

func TestEntryRoundTrip(t *testing.T) {
	cases := []struct {
		status int
		fields []Field
		body   []byte
	}{
		{200, nil, nil},
		{200, []Field{{Name: "Content-Type", Value: "text/html"}}, []byte("<html>")},
		{503, []Field{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Set-Cookie", Value: "a=1"},
			{Name: "Set-Cookie", Value: "b=2"}, // repeated name, order preserved
		}, []byte(`{"error":"offline"}`)},
		{404, []Field{{Name: "X-Empty", Value: ""}}, []byte{0, 1, 2, 255}},
	}
	for _, tc := range cases {
		enc, err := EncodeEntry(tc.status, tc.fields, tc.body)
		if err != nil {
			t.Fatalf("EncodeEntry(%d): %v", tc.status, err)
		}
		status, fields, body := mustDecode(t, enc)
		if status != tc.status {
			t.Fatalf("status mismatch: got %d want %d", status, tc.status)
		}
		if len(fields) != len(tc.fields) {
			t.Fatalf("field count mismatch: got %d want %d", len(fields), len(tc.fields))
		}
		for i := range tc.fields {
			if fields[i] != tc.fields[i] {
				t.Fatalf("field %d mismatch: got %+v want %+v", i, fields[i], tc.fields[i])
			}
		}
		if !bytes.Equal(body, tc.body) {
			t.Fatalf("body mismatch: got %x want %x", body, tc.body)
		}
	}
}

func TestEncodeEntryValidation(t *testing.T) {
	// status out of range
	if _, err := EncodeEntry(99, nil, nil); err == nil {
		t.Fatalf("expected error on status < 100")
	}
	if _, err := EncodeEntry(1000, nil, nil); err == nil {
		t.Fatalf("expected error on status > 999")
	}
	// empty header name
	if _, err := EncodeEntry(200, []Field{{Name: "", Value: "x"}}, nil); err == nil {
		t.Fatalf("expected error on empty header name")
	}
	// header name too long (65536)
	if _, err := EncodeEntry(200, []Field{{Name: strings.Repeat("a", 0x10000), Value: "x"}}, nil); err == nil {
		t.Fatalf("expected error on header name > 0xFFFF")
	}
	// boundary (65535) -> ok
	if _, err := EncodeEntry(200, []Field{{Name: strings.Repeat("b", 0xFFFF), Value: "x"}}, nil); err != nil {
		t.Fatalf("boundary header name length should succeed: %v", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	enc, err := EncodeEntry(200, []Field{{Name: "K", Value: "v"}}, []byte("x"))
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}
	enc = append(enc, 0xDE, 0xAD)
	if _, _, _, err := DecodeEntry(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestDecodeCorruptHeadersAndLengths(t *testing.T) {
	enc, err := EncodeEntry(200, []Field{{Name: "K", Value: "vvv"}}, []byte("xyz"))
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, _, err := DecodeEntry(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, _, err := DecodeEntry(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// wrong kind
	badKind := append([]byte(nil), enc...)
	badKind[5] = kindEntry + 1
	if _, _, _, err := DecodeEntry(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// status outside 100..999
	badStatus := append([]byte(nil), enc...)
	binary.BigEndian.PutUint16(badStatus[6:8], 0)
	if _, _, _, err := DecodeEntry(badStatus); err == nil {
		t.Fatalf("expected error on bad status")
	}

	// nlen beyond buffer (header: 10 bytes, first field nlen at 10..11)
	badNlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint16(badNlen[10:12], 0xFFFF)
	if _, _, _, err := DecodeEntry(badNlen); err == nil {
		t.Fatalf("expected error on nlen beyond buffer")
	}

	// vlen beyond buffer (field: 2 nlen + 1 name, so vlen at 13..16)
	badVlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(badVlen[13:17], uint32(len("vvv")+1000))
	if _, _, _, err := DecodeEntry(badVlen); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// blen beyond buffer (after field: value 3 bytes, blen at 20..23)
	badBlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(badBlen[20:24], uint32(len("xyz")+1))
	if _, _, _, err := DecodeEntry(badBlen); err == nil {
		t.Fatalf("expected error on blen beyond buffer")
	}

	// truncated buffer
	trunc := enc[:len(enc)-1]
	if _, _, _, err := DecodeEntry(trunc); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
}

func TestDecodeBogusFieldCountNotPrealloc(t *testing.T) {
	// Declare nfields=0xFFFF with no field bytes: must error cleanly, not panic.
	var buf bytes.Buffer
	buf.Write([]byte{'O', 'F', 'F', 'C'})
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)
	var u2 [2]byte
	binary.BigEndian.PutUint16(u2[:], 200)
	buf.Write(u2[:])
	binary.BigEndian.PutUint16(u2[:], 0xFFFF)
	buf.Write(u2[:])
	if _, _, _, err := DecodeEntry(buf.Bytes()); err == nil {
		t.Fatalf("expected error on bogus field count with insufficient bytes")
	}
}

func TestDecodeZeroCopyBody(t *testing.T) {
	enc, err := EncodeEntry(200, nil, []byte("Z"))
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}
	_, _, body := mustDecode(t, enc)
	if len(body) != 1 {
		t.Fatalf("unexpected body len")
	}
	// mutate decoded body. should mutate underlying enc bytes (zero-copy)
	body[0] = 'Q'
	_, _, body2 := mustDecode(t, enc)
	if body2[0] != 'Q' {
		t.Fatalf("expected zero-copy body subslice into enc buffer")
	}
}
