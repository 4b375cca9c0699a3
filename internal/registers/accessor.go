// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

import (
	"encoding/binary"
	"math"

	"github.com/relabs-tech/um6_computer/internal/firmware"
)

// Value is the closed set of element kinds the firmware stores in registers:
// packed int16 pairs, whole-register integers, and IEEE-754 float32s.
type Value interface {
	int16 | int32 | uint32 | float32
}

// Accessor presents a group of consecutive registers as an array of T-sized
// fields. Fields are addressed by byte offset from the base register and are
// not required to respect register boundaries: a 3-element int16 accessor
// spans one and a half registers, with the third element in the high half of
// the following register.
//
// Accessors hold no storage of their own; every call resolves a fresh slice
// into the owning image, so overlapping accessors alias by construction and
// out-of-range indices fail with a bounds panic.
type Accessor[T Value] struct {
	regs    *Registers
	index   uint8
	width   int
	length  int
	scale   float64
	isFloat bool
}

func newAccessor[T Value](regs *Registers, index uint8, length int, scale float64) *Accessor[T] {
	a := &Accessor[T]{regs: regs, index: index, length: length, scale: scale}
	var zero T
	switch any(zero).(type) {
	case int16:
		a.width = 2
	case float32:
		a.width = firmware.RegisterSize
		a.isFloat = true
	default:
		a.width = firmware.RegisterSize
	}
	return a
}

// Index is the base register address of the accessor's range.
func (a *Accessor[T]) Index() uint8 { return a.index }

// Length is the number of T-sized fields in the accessor's range.
func (a *Accessor[T]) Length() int { return a.length }

// NumRegisters is the number of whole registers the accessor's byte range
// occupies, rounded up.
func (a *Accessor[T]) NumRegisters() int {
	return (a.width*a.length + firmware.RegisterSize - 1) / firmware.RegisterSize
}

func (a *Accessor[T]) fieldBytes(field int) []byte {
	off := int(a.index)*firmware.RegisterSize + field*a.width
	return a.regs.raw[off : off+a.width]
}

// Get decodes the field-th element from wire order.
func (a *Accessor[T]) Get(field int) T {
	b := a.fieldBytes(field)
	var v T
	switch p := any(&v).(type) {
	case *int16:
		*p = int16(binary.BigEndian.Uint16(b))
	case *int32:
		*p = int32(binary.BigEndian.Uint32(b))
	case *uint32:
		*p = binary.BigEndian.Uint32(b)
	case *float32:
		// Bit-level copy: NaN payloads and signed zeros survive unchanged.
		*p = math.Float32frombits(binary.BigEndian.Uint32(b))
	}
	return v
}

// Set encodes value into wire order at the field-th element.
func (a *Accessor[T]) Set(field int, value T) {
	b := a.fieldBytes(field)
	switch v := any(value).(type) {
	case int16:
		binary.BigEndian.PutUint16(b, uint16(v))
	case int32:
		binary.BigEndian.PutUint32(b, uint32(v))
	case uint32:
		binary.BigEndian.PutUint32(b, v)
	case float32:
		binary.BigEndian.PutUint32(b, math.Float32bits(v))
	}
}

// GetScaled returns the field converted to physical units.
func (a *Accessor[T]) GetScaled(field int) float64 {
	return float64(a.Get(field)) * a.scale
}

// SetScaled stores a physical-unit value, dividing out the scale factor.
// Integer element kinds round to nearest before narrowing.
func (a *Accessor[T]) SetScaled(field int, value float64) {
	raw := value / a.scale
	if !a.isFloat {
		raw = math.Round(raw)
	}
	a.Set(field, T(raw))
}
