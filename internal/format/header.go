// Package format implements the metadata header at the start of a test file.
package format

import (
	"encoding/binary"
	"fmt"
	"io"

	fverrors "github.com/javi11/flashverify/internal/errors"
)

// HeaderSize is the encoded header length. It is also the smallest valid file.
const HeaderSize = 16

// Header is stored big-endian at offset 0:
//
//	0..7   seed          int64
//	8..15  declared size int64, header included
type Header struct {
	Seed         int64
	DeclaredSize int64
}

// PayloadSize is the number of stream bytes that follow the header.
func (h Header) PayloadSize() int64 {
	return h.DeclaredSize - HeaderSize
}

// EncodeHeader writes h into the first HeaderSize bytes of dst.
func EncodeHeader(dst []byte, h Header) error {
	if len(dst) < HeaderSize {
		return fmt.Errorf("header encode: buffer too small (%d < %d)", len(dst), HeaderSize)
	}
	binary.BigEndian.PutUint64(dst[0:8], uint64(h.Seed))
	binary.BigEndian.PutUint64(dst[8:16], uint64(h.DeclaredSize))
	return nil
}

// DecodeHeader reads a Header from the first HeaderSize bytes of src.
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fverrors.NewCorruptHeader(
			fmt.Sprintf("header decode: buffer too small (%d < %d)", len(src), HeaderSize), nil)
	}
	h := Header{
		Seed:         int64(binary.BigEndian.Uint64(src[0:8])),
		DeclaredSize: int64(binary.BigEndian.Uint64(src[8:16])),
	}
	if h.DeclaredSize < HeaderSize {
		return Header{}, fverrors.NewCorruptHeader(
			fmt.Sprintf("declared size %d is smaller than the header", h.DeclaredSize), nil)
	}
	return h, nil
}

// WriteHeader encodes h and writes it to w.
func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	if err := EncodeHeader(buf[:], h); err != nil {
		return err
	}
	n, err := w.Write(buf[:])
	if err == nil && n != HeaderSize {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fverrors.NewIOFailure("write header", int64(n), err)
	}
	return nil
}

// ReadHeader reads exactly HeaderSize bytes from r and decodes them.
// A stream holding fewer bytes yields a corrupt header error.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	n, err := io.ReadFull(r, buf[:])
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return Header{}, fverrors.NewCorruptHeader(
			fmt.Sprintf("file holds %d bytes, header needs %d", n, HeaderSize), err)
	case err != nil:
		return Header{}, fverrors.NewIOFailure("read header", int64(n), err)
	}
	return DecodeHeader(buf[:])
}
