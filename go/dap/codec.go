// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"bufio"
	"context"
	"fmt"
	"io"

	xdr "github.com/rasky/go-xdr/xdr2"

	"github.com/attic-labs/dap2/go/d"
)

// Serialize writes the values of v in DAP2 binary form. When constrained is
// set only the projected parts of v are written.
func Serialize(ctx context.Context, w io.Writer, v BaseType, ver ServerVersion, constrained bool) error {
	return newDataWriter(ctx, w, ver, constrained).writeVariable(v)
}

// Deserialize reads the values of v from their DAP2 binary form. Unless r is
// a *bufio.Reader it is read through a buffer that may consume bytes past
// the end of v.
func Deserialize(ctx context.Context, r io.Reader, v BaseType, ver ServerVersion) error {
	return newDataReader(ctx, r, ver).readVariable(v)
}

// ExternalizeVector writes the elements of pv. The element count is not
// written: it belongs to the enclosing Array.
func ExternalizeVector(w io.Writer, pv PrimitiveVector) error {
	return pv.externalize(newDataWriter(context.Background(), w, DefaultServerVersion(), false))
}

// DeserializeVector reads pv.Length() elements into pv.
func DeserializeVector(ctx context.Context, r io.Reader, pv PrimitiveVector) error {
	return pv.deserialize(newDataReader(ctx, r, DefaultServerVersion()))
}

type dataWriter struct {
	ctx         context.Context
	enc         *xdr.Encoder
	legacy      bool
	constrained bool
}

func newDataWriter(ctx context.Context, w io.Writer, ver ServerVersion, constrained bool) *dataWriter {
	return &dataWriter{ctx: ctx, enc: xdr.NewEncoder(w), legacy: ver.LegacySequenceFraming(), constrained: constrained}
}

func (w *dataWriter) checkCancel() error {
	if w.ctx.Err() != nil {
		return ErrDataRead.New("cancelled")
	}
	return nil
}

func (w *dataWriter) writeInt(v int32) error {
	_, err := w.enc.EncodeInt(v)
	return err
}

func (w *dataWriter) writeUint(v uint32) error {
	_, err := w.enc.EncodeUint(v)
	return err
}

func (w *dataWriter) writeFloat32(v float32) error {
	_, err := w.enc.EncodeFloat(v)
	return err
}

func (w *dataWriter) writeFloat64(v float64) error {
	_, err := w.enc.EncodeDouble(v)
	return err
}

func (w *dataWriter) writeString(v string) error {
	_, err := w.enc.EncodeString(v)
	return err
}

// writeOpaque writes b padded with zeros to a multiple of four bytes.
func (w *dataWriter) writeOpaque(b []byte) error {
	_, err := w.enc.EncodeFixedOpaque(b)
	return err
}

func (w *dataWriter) writeMarker(m byte) error {
	return w.writeOpaque([]byte{m})
}

func (w *dataWriter) writeVariable(v BaseType) error {
	if err := w.checkCancel(); err != nil {
		return err
	}

	switch v := v.(type) {
	case *Byte:
		return w.writeUint(uint32(v.val))
	case *Int16:
		return w.writeInt(int32(v.val))
	case *UInt16:
		return w.writeUint(uint32(v.val))
	case *Int32:
		return w.writeInt(v.val)
	case *UInt32:
		return w.writeUint(v.val)
	case *Float32:
		return w.writeFloat32(v.val)
	case *Float64:
		return w.writeFloat64(v.val)
	case *String:
		return w.writeString(v.val)
	case *URL:
		return w.writeString(v.val)
	case *Array:
		return w.writeArray(v)
	case *Grid:
		return w.writeMembers(v.Variables())
	case *Sequence:
		return w.writeSequence(v)
	case Constructor:
		return w.writeMembers(v.Variables())
	}
	d.Panicf("cannot write %T", v)
	return nil
}

func (w *dataWriter) writeMembers(vars []BaseType) error {
	for _, v := range vars {
		if w.constrained && !v.IsProject() {
			continue
		}
		if err := w.writeVariable(v); err != nil {
			return err
		}
	}
	return nil
}

func (w *dataWriter) writeArray(a *Array) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.vals == nil {
		return ErrBadSemantics.New("array '" + a.EncodedName() + "' has no element type")
	}
	pv := a.vals
	if w.constrained {
		var err error
		if pv, err = a.projected(); err != nil {
			return err
		}
	}
	return w.writeVector(pv)
}

// writeVector writes the element count followed by the elements. Numeric
// vectors repeat the count.
func (w *dataWriter) writeVector(pv PrimitiveVector) error {
	n := int32(pv.Length())
	if err := w.writeInt(n); err != nil {
		return err
	}
	if pv.Template().Kind().IsFixedWidth() {
		if err := w.writeInt(n); err != nil {
			return err
		}
	}
	return pv.externalize(w)
}

func (w *dataWriter) writeSequence(s *Sequence) error {
	for _, row := range s.rows {
		if err := w.checkCancel(); err != nil {
			return err
		}
		if !w.legacy {
			if err := w.writeMarker(startOfInstance); err != nil {
				return err
			}
		}
		for i, v := range row {
			if w.constrained && !s.vars[i].IsProject() {
				continue
			}
			if err := w.writeVariable(v); err != nil {
				return err
			}
		}
	}
	if w.legacy {
		return nil
	}
	return w.writeMarker(endOfSequence)
}

type dataReader struct {
	ctx    context.Context
	r      *bufio.Reader
	dec    *xdr.Decoder
	legacy bool
}

func newDataReader(ctx context.Context, r io.Reader, ver ServerVersion) *dataReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &dataReader{ctx: ctx, r: br, dec: xdr.NewDecoder(br), legacy: ver.LegacySequenceFraming()}
}

func (r *dataReader) checkCancel() error {
	if r.ctx.Err() != nil {
		return ErrDataRead.New("cancelled")
	}
	return nil
}

func (r *dataReader) readInt() (int32, error) {
	v, _, err := r.dec.DecodeInt()
	if err != nil {
		return 0, ErrDataRead.New(err.Error())
	}
	return v, nil
}

func (r *dataReader) readUint() (uint32, error) {
	v, _, err := r.dec.DecodeUint()
	if err != nil {
		return 0, ErrDataRead.New(err.Error())
	}
	return v, nil
}

func (r *dataReader) readFloat32() (float32, error) {
	v, _, err := r.dec.DecodeFloat()
	if err != nil {
		return 0, ErrDataRead.New(err.Error())
	}
	return v, nil
}

func (r *dataReader) readFloat64() (float64, error) {
	v, _, err := r.dec.DecodeDouble()
	if err != nil {
		return 0, ErrDataRead.New(err.Error())
	}
	return v, nil
}

func (r *dataReader) readString() (string, error) {
	v, _, err := r.dec.DecodeString()
	if err != nil {
		return "", ErrDataRead.New(err.Error())
	}
	return v, nil
}

// readOpaque reads n bytes and the padding following them.
func (r *dataReader) readOpaque(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b, _, err := r.dec.DecodeFixedOpaque(int32(n))
	if err != nil {
		return nil, ErrDataRead.New(err.Error())
	}
	return b, nil
}

func (r *dataReader) readMarker() (byte, error) {
	b, err := r.readOpaque(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *dataReader) readLength() (int, error) {
	n, err := r.readInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrDataRead.New(fmt.Sprintf("negative vector length %d", n))
	}
	return int(n), nil
}

// atEOF reports whether the stream ends here.
func (r *dataReader) atEOF() bool {
	_, err := r.r.Peek(1)
	return err == io.EOF
}

func (r *dataReader) readVariable(v BaseType) error {
	if err := r.checkCancel(); err != nil {
		return err
	}

	switch v := v.(type) {
	case *Byte:
		x, err := r.readUint()
		v.val = uint8(x)
		return err
	case *Int16:
		x, err := r.readInt()
		v.val = int16(x)
		return err
	case *UInt16:
		x, err := r.readUint()
		v.val = uint16(x)
		return err
	case *Int32:
		x, err := r.readInt()
		v.val = x
		return err
	case *UInt32:
		x, err := r.readUint()
		v.val = x
		return err
	case *Float32:
		x, err := r.readFloat32()
		v.val = x
		return err
	case *Float64:
		x, err := r.readFloat64()
		v.val = x
		return err
	case *String:
		x, err := r.readString()
		v.val = x
		return err
	case *URL:
		x, err := r.readString()
		v.val = x
		return err
	case *Array:
		return r.readArray(v)
	case *Sequence:
		return r.readSequence(v)
	case Constructor:
		for _, child := range v.Variables() {
			if err := r.readVariable(child); err != nil {
				return err
			}
		}
		return nil
	}
	d.Panicf("cannot read %T", v)
	return nil
}

func (r *dataReader) readArray(a *Array) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.vals == nil {
		return ErrDataRead.New("array '" + a.EncodedName() + "' has no element type")
	}
	n, err := r.readLength()
	if err != nil {
		return err
	}
	if a.vals.Template().Kind().IsFixedWidth() {
		n2, err := r.readLength()
		if err != nil {
			return err
		}
		if n != n2 {
			return ErrDataRead.New(fmt.Sprintf("inconsistent lengths %d and %d for array '%s'", n, n2, a.EncodedName()))
		}
	}
	a.vals.SetLength(n)
	return a.vals.deserialize(r)
}

func (r *dataReader) readSequence(s *Sequence) error {
	s.rows = nil

	if r.legacy {
		// rows follow one another until the stream ends
		for !r.atEOF() {
			if err := r.checkCancel(); err != nil {
				return err
			}
			if err := r.readRow(s); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		if err := r.checkCancel(); err != nil {
			return err
		}
		m, err := r.readMarker()
		if err != nil {
			return err
		}
		switch m {
		case startOfInstance:
			if err := r.readRow(s); err != nil {
				return err
			}
		case endOfSequence:
			return nil
		default:
			return ErrDataRead.New(fmt.Sprintf("bad marker 0x%02X in sequence '%s'", m, s.EncodedName()))
		}
	}
}

func (r *dataReader) readRow(s *Sequence) error {
	row := s.NewRow()
	s.rows = append(s.rows, row)
	for _, v := range row {
		if err := r.readVariable(v); err != nil {
			return err
		}
	}
	return nil
}
