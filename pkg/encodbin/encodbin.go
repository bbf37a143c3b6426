// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

// Package encodbin implements the little-endian binary reader and writer
// shared by the instruction and message wire formats.
package encodbin

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Decoder reads little-endian values from an in-memory buffer.
type Decoder struct {
	data []byte
	pos  int
}

// NewBinDecoder returns a Decoder over data.
func NewBinDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// HasRemaining reports whether any unread bytes are left.
func (d *Decoder) HasRemaining() bool {
	return d.Remaining() > 0
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.Remaining() < 1 {
		return 0, fmt.Errorf("decode byte: required 1 byte, remaining %d", d.Remaining())
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

// ReadNBytes reads exactly n bytes. The returned slice is a copy.
func (d *Decoder) ReadNBytes(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, fmt.Errorf("decode bytes: required %d bytes, remaining %d", n, d.Remaining())
	}
	out := make([]byte, n)
	copy(out, d.data[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}

// Read fills buf from the stream.
func (d *Decoder) Read(buf []byte) (int, error) {
	if d.Remaining() < len(buf) {
		return 0, fmt.Errorf("decode read: required %d bytes, remaining %d", len(buf), d.Remaining())
	}
	copy(buf, d.data[d.pos:d.pos+len(buf)])
	d.pos += len(buf)
	return len(buf), nil
}

// ReadUint16 reads a little-endian uint16.
func (d *Decoder) ReadUint16() (uint16, error) {
	if d.Remaining() < 2 {
		return 0, fmt.Errorf("decode uint16: required 2 bytes, remaining %d", d.Remaining())
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, fmt.Errorf("decode uint32: required 4 bytes, remaining %d", d.Remaining())
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, fmt.Errorf("decode uint64: required 8 bytes, remaining %d", d.Remaining())
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

// Encoder writes little-endian values to an in-memory buffer.
type Encoder struct {
	buf bytes.Buffer
}

// NewBinEncoder returns an empty Encoder.
func NewBinEncoder() *Encoder {
	return &Encoder{}
}

// WriteUint8 appends a single byte.
func (e *Encoder) WriteUint8(b byte) {
	e.buf.WriteByte(b)
}

// WriteBytes appends raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.buf.Write(b)
}

// WriteUint16 appends a little-endian uint16.
func (e *Encoder) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	e.buf.Write(tmp[:])
}

// WriteUint32 appends a little-endian uint32.
func (e *Encoder) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf.Write(tmp[:])
}

// WriteUint64 appends a little-endian uint64.
func (e *Encoder) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf.Write(tmp[:])
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}
