package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
)

// Codec is the at-rest encoding of a stored image. Encoded images carry a
// one byte header naming their Codec, so an image written under one codec
// still loads after the configured codec changes.
type Codec byte

const (
	CodecNone Codec = iota + 1
	CodecGzip
	CodecSnappy
)

func ParseCodec(s string) (Codec, error) {
	switch s {
	case "", "none":
		return CodecNone, nil
	case "gzip":
		return CodecGzip, nil
	case "snappy":
		return CodecSnappy, nil
	default:
		return 0, fmt.Errorf("unsupported codec %q", s)
	}
}

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecGzip:
		return "gzip"
	case CodecSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("codec(%d)", byte(c))
	}
}

func (c Codec) encode(image []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(c))

	var w io.WriteCloser
	switch c {
	case CodecNone:
		buf.Write(image)
		return buf.Bytes(), nil
	case CodecGzip:
		w = gzip.NewWriter(&buf)
	case CodecSnappy:
		w = snappy.NewBufferedWriter(&buf)
	default:
		return nil, fmt.Errorf("unsupported codec %s", c)
	}
	if _, err := w.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("empty stored image")
	}
	c, body := Codec(stored[0]), stored[1:]

	var r io.Reader
	switch c {
	case CodecNone:
		return append([]byte(nil), body...), nil
	case CodecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case CodecSnappy:
		r = snappy.NewReader(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("unsupported codec %s", c)
	}
	return io.ReadAll(r)
}
