// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package registers maintains a host-side image of the UM6 register file and
// typed accessors over it. The image holds the registers exactly as they
// travel on the wire (big-endian words); accessors convert between the wire
// representation and host values, applying the firmware's fixed-point scale
// factors where one exists.
package registers

import (
	"math"

	"github.com/relabs-tech/um6_computer/internal/firmware"
)

// NumRegisters is the size of the register image in 4-byte words. Command
// registers are excluded: they are always sent and received with no data.
const NumRegisters = firmware.DataRegStartAddress + firmware.DataArraySize

const toRadians = math.Pi / 180.0

// Registers owns the shared register image. The serial layer copies received
// frames in with WriteRaw; accessors decode and encode individual fields in
// place. One driver session owns a Registers value; nothing here locks.
type Registers struct {
	raw [NumRegisters * firmware.RegisterSize]byte

	// Data
	GyroRaw  *Accessor[int16]
	AccelRaw *Accessor[int16]
	MagRaw   *Accessor[int16]

	Gyro  *Accessor[int16]
	Accel *Accessor[int16]
	Mag   *Accessor[int16]
	Euler *Accessor[int16]
	Quat  *Accessor[int16]

	Covariance  *Accessor[float32]
	Temperature *Accessor[float32]
	Status      *Accessor[uint32]

	// Configuration
	Communication *Accessor[uint32]
	MagRef        *Accessor[float32]
	AccelRef      *Accessor[float32]
	GyroBias      *Accessor[int16]
	AccelBias     *Accessor[int16]
	MagBias       *Accessor[int16]
}

// New returns a zeroed register image with accessors bound to the firmware
// addresses and scale factors documented in the UM6 datasheet.
func New() *Registers {
	r := &Registers{}

	r.GyroRaw = newAccessor[int16](r, firmware.GyroRawXY, 3, 1)
	r.AccelRaw = newAccessor[int16](r, firmware.AccelRawXY, 3, 1)
	r.MagRaw = newAccessor[int16](r, firmware.MagRawXY, 3, 1)

	r.Gyro = newAccessor[int16](r, firmware.GyroProcXY, 3, 0.0610352*toRadians)
	r.Accel = newAccessor[int16](r, firmware.AccelProcXY, 3, 0.000183105)
	r.Mag = newAccessor[int16](r, firmware.MagProcXY, 3, 0.000305176)
	r.Euler = newAccessor[int16](r, firmware.EulerPhiTheta, 3, 0.0109863*toRadians)
	r.Quat = newAccessor[int16](r, firmware.QuatAB, 4, 0.0000335693)

	r.Covariance = newAccessor[float32](r, firmware.ErrorCov00, 16, 1)
	r.Temperature = newAccessor[float32](r, firmware.Temperature, 1, 1)
	r.Status = newAccessor[uint32](r, firmware.Status, 1, 1)

	r.Communication = newAccessor[uint32](r, firmware.Communication, 1, 1)
	r.MagRef = newAccessor[float32](r, firmware.MagRefX, 3, 1)
	r.AccelRef = newAccessor[float32](r, firmware.AccelRefX, 3, 1)
	r.GyroBias = newAccessor[int16](r, firmware.GyroBiasXY, 3, 1)
	r.AccelBias = newAccessor[int16](r, firmware.AccelBiasXY, 3, 1)
	r.MagBias = newAccessor[int16](r, firmware.MagBiasXY, 3, 1)

	return r
}

// WriteRaw copies data into the image starting at register index, overwriting
// as many consecutive registers as data spans. Data must already be in wire
// order; this is how received frames land in the image. An index outside the
// image panics with a bounds error.
func (r *Registers) WriteRaw(index uint8, data []byte) {
	off := int(index) * firmware.RegisterSize
	copy(r.raw[off:off+len(data)], data)
}

// ReadRaw returns the wire-order bytes of count registers starting at index.
// The slice aliases the image; it is valid until the next write to the range.
func (r *Registers) ReadRaw(index uint8, count int) []byte {
	off := int(index) * firmware.RegisterSize
	return r.raw[off : off+count*firmware.RegisterSize]
}
