// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package npy reads and writes the NumPy .npy array container format.
//
// The decoder is deliberately narrow: it understands format versions 1.0 and
// 2.0, little-endian numeric dtypes, and both C and Fortran element order.
// The header dictionary is parsed with a small tolerant scanner and is never
// evaluated, so a crafted file cannot execute anything. All values are
// coerced to float64 on read.
//
// Reference: https://numpy.org/doc/stable/reference/generated/numpy.lib.format.html
package npy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// magic is the 6-byte prefix of every .npy file.
var magic = []byte("\x93NUMPY")

// Array is a decoded .npy array with data flattened in C (row-major) order.
type Array struct {
	// Shape holds the dimension sizes as declared in the header.
	Shape []int

	// Data holds the elements in row-major order, coerced to float64.
	Data []float64
}

// Len returns the total element count implied by Shape.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// header carries the three fields of a parsed .npy header dictionary.
type header struct {
	descr        string
	fortranOrder bool
	shape        []int
}

// Decode parses a complete .npy file held in memory.
func Decode(raw []byte) (*Array, error) {
	if len(raw) < len(magic)+4 {
		return nil, fmt.Errorf("npy: file too short (%d bytes)", len(raw))
	}
	if !bytes.Equal(raw[:len(magic)], magic) {
		return nil, fmt.Errorf("npy: bad magic")
	}

	major, minor := raw[6], raw[7]
	rest := raw[8:]

	var headerLen int
	switch major {
	case 1:
		if len(rest) < 2 {
			return nil, fmt.Errorf("npy: truncated v1 header length")
		}
		headerLen = int(binary.LittleEndian.Uint16(rest))
		rest = rest[2:]
	case 2:
		if len(rest) < 4 {
			return nil, fmt.Errorf("npy: truncated v2 header length")
		}
		headerLen = int(binary.LittleEndian.Uint32(rest))
		rest = rest[4:]
	default:
		return nil, fmt.Errorf("npy: unsupported format version %d.%d", major, minor)
	}

	if headerLen > len(rest) {
		return nil, fmt.Errorf("npy: header length %d exceeds file size", headerLen)
	}

	hdr, err := parseHeader(string(rest[:headerLen]))
	if err != nil {
		return nil, err
	}

	elemSize, read, err := elementReader(hdr.descr)
	if err != nil {
		return nil, err
	}

	total := 1
	for _, d := range hdr.shape {
		if d < 0 {
			return nil, fmt.Errorf("npy: negative dimension in shape %v", hdr.shape)
		}
		// Guard the product so a crafted header cannot wrap the element
		// count and slip past the payload-size check.
		if d > 0 && total > math.MaxInt/d {
			return nil, fmt.Errorf("npy: shape %v overflows the element count", hdr.shape)
		}
		total *= d
	}

	payload := rest[headerLen:]
	if total > len(payload)/elemSize {
		return nil, fmt.Errorf("npy: payload holds %d elements, header declares %d",
			len(payload)/elemSize, total)
	}

	data := make([]float64, total)
	for i := 0; i < total; i++ {
		data[i] = read(payload[i*elemSize:])
	}

	if hdr.fortranOrder && len(hdr.shape) > 1 {
		data = fortranToC(data, hdr.shape)
	}

	return &Array{Shape: hdr.shape, Data: data}, nil
}

// Encode writes data as a version 1.0 .npy file with dtype <f8 in C order.
func Encode(w io.Writer, shape []int, data []float64) error {
	total := 1
	for _, d := range shape {
		total *= d
	}
	if total != len(data) {
		return fmt.Errorf("npy: shape %v implies %d elements, have %d", shape, total, len(data))
	}

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	var shapeStr string
	switch len(shape) {
	case 1:
		shapeStr = "(" + dims[0] + ",)"
	default:
		shapeStr = "(" + strings.Join(dims, ", ") + ")"
	}

	hdr := "{'descr': '<f8', 'fortran_order': False, 'shape': " + shapeStr + ", }"
	// Pad so the payload starts on a 64-byte boundary, as np.save does.
	prefix := len(magic) + 2 + 2
	padded := prefix + len(hdr) + 1
	if rem := padded % 64; rem != 0 {
		hdr += strings.Repeat(" ", 64-rem)
	}
	hdr += "\n"

	buf := make([]byte, 0, prefix+len(hdr)+8*len(data))
	buf = append(buf, magic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(hdr)))
	buf = append(buf, hdr...)
	for _, v := range data {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	_, err := w.Write(buf)
	return err
}

// parseHeader scans the Python dict literal in a .npy header.
// Only the three documented keys are recognized; anything else is rejected
// rather than interpreted.
func parseHeader(s string) (header, error) {
	h := header{shape: []int{}}

	descr, err := quotedValue(s, "descr")
	if err != nil {
		return h, err
	}
	h.descr = descr

	switch {
	case strings.Contains(s, "'fortran_order': False"):
		h.fortranOrder = false
	case strings.Contains(s, "'fortran_order': True"):
		h.fortranOrder = true
	default:
		return h, fmt.Errorf("npy: header missing fortran_order")
	}

	open := strings.Index(s, "'shape':")
	if open < 0 {
		return h, fmt.Errorf("npy: header missing shape")
	}
	lp := strings.Index(s[open:], "(")
	rp := strings.Index(s[open:], ")")
	if lp < 0 || rp < 0 || rp < lp {
		return h, fmt.Errorf("npy: malformed shape tuple")
	}
	inner := s[open+lp+1 : open+rp]
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return h, fmt.Errorf("npy: bad dimension %q: %w", part, err)
		}
		h.shape = append(h.shape, d)
	}

	return h, nil
}

// quotedValue extracts the single-quoted value for a key in the header dict.
func quotedValue(s, key string) (string, error) {
	idx := strings.Index(s, "'"+key+"':")
	if idx < 0 {
		return "", fmt.Errorf("npy: header missing %s", key)
	}
	rest := s[idx+len(key)+3:]
	start := strings.Index(rest, "'")
	if start < 0 {
		return "", fmt.Errorf("npy: unquoted %s value", key)
	}
	end := strings.Index(rest[start+1:], "'")
	if end < 0 {
		return "", fmt.Errorf("npy: unterminated %s value", key)
	}
	return rest[start+1 : start+1+end], nil
}

// elementReader maps a dtype descr to its element size and a little-endian
// float64 conversion function.
func elementReader(descr string) (int, func([]byte) float64, error) {
	// '<' little-endian, '=' native (assumed little), '|' not applicable.
	base := descr
	if len(base) > 0 && (base[0] == '<' || base[0] == '=' || base[0] == '|') {
		base = base[1:]
	}

	switch base {
	case "f8":
		return 8, func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}, nil
	case "f4":
		return 4, func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, nil
	case "i8":
		return 8, func(b []byte) float64 {
			return float64(int64(binary.LittleEndian.Uint64(b)))
		}, nil
	case "i4":
		return 4, func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b)))
		}, nil
	case "u8":
		return 8, func(b []byte) float64 {
			return float64(binary.LittleEndian.Uint64(b))
		}, nil
	case "u4":
		return 4, func(b []byte) float64 {
			return float64(binary.LittleEndian.Uint32(b))
		}, nil
	default:
		return 0, nil, fmt.Errorf("npy: unsupported dtype %q", descr)
	}
}

// fortranToC reorders column-major data into row-major order.
func fortranToC(data []float64, shape []int) []float64 {
	ndim := len(shape)

	// Fortran strides: first dimension varies fastest.
	fstride := make([]int, ndim)
	acc := 1
	for i := 0; i < ndim; i++ {
		fstride[i] = acc
		acc *= shape[i]
	}

	out := make([]float64, len(data))
	idx := make([]int, ndim)
	for c := range out {
		src := 0
		for i := 0; i < ndim; i++ {
			src += idx[i] * fstride[i]
		}
		out[c] = data[src]

		// Advance the multi-index in C order (last dimension fastest).
		for i := ndim - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out
}
