package offcache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/unkn0wn-root/offcache/codec"
	"github.com/unkn0wn-root/offcache/internal/wire"
)

// Entry is an immutable snapshot of a response: status, headers and a fully
// drained body. Entries never change after storage; repopulating a key
// replaces the whole snapshot.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte
}

// Response materializes the snapshot as a served *http.Response. Each call
// yields an independent response: headers are cloned and the body reader is
// fresh, so callers may drain and mutate freely.
func (e Entry) Response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// WireCodec is the default Codec for entries, using the package's binary
// framing. Header names are stored sorted; value order within one name is
// preserved, so repeated Set-Cookie lines survive the round trip intact.
type WireCodec struct{}

var _ codec.Codec[Entry] = WireCodec{}

func (WireCodec) Encode(e Entry) ([]byte, error) {
	names := make([]string, 0, len(e.Header))
	for name := range e.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []wire.Field
	for _, name := range names {
		for _, v := range e.Header[name] {
			fields = append(fields, wire.Field{Name: name, Value: v})
		}
	}
	return wire.EncodeEntry(e.Status, fields, e.Body)
}

func (WireCodec) Decode(b []byte) (Entry, error) {
	status, fields, body, err := wire.DecodeEntry(b)
	if err != nil {
		return Entry{}, err
	}
	h := make(http.Header, len(fields))
	for _, f := range fields {
		h[f.Name] = append(h[f.Name], f.Value)
	}
	return Entry{Status: status, Header: h, Body: body}, nil
}
