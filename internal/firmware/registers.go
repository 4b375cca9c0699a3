// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package firmware mirrors the register map of the CH Robotics UM6 firmware.
// Addresses and sizing constants here must stay in sync with the firmware
// revision flashed on the device; they define the layout of the shared
// register image in internal/registers.
package firmware

// Register banks. Configuration registers persist across power cycles once
// committed to flash; data registers are volatile sensor outputs; command
// "registers" carry no data and trigger an action when addressed.
const (
	ConfigRegStartAddress = 0x00
	DataRegStartAddress   = 0x55
	CommandStartAddress   = 0xAA

	ConfigArraySize = 64
	DataArraySize   = 48
)

// RegisterSize is the width of one firmware register in bytes.
const RegisterSize = 4

// Configuration registers.
const (
	Communication      = 0x00
	MiscConfig         = 0x01
	MagRefX            = 0x02
	MagRefY            = 0x03
	MagRefZ            = 0x04
	AccelRefX          = 0x05
	AccelRefY          = 0x06
	AccelRefZ          = 0x07
	EKFMagVariance     = 0x08
	EKFAccelVariance   = 0x09
	EKFProcessVariance = 0x0A
	GyroBiasXY         = 0x0B
	GyroBiasZ          = 0x0C
	AccelBiasXY        = 0x0D
	AccelBiasZ         = 0x0E
	MagBiasXY          = 0x0F
	MagBiasZ           = 0x10
)

// Data registers. XY registers pack two int16 values (X in the high half);
// the Z component sits in the high half of the following register.
const (
	Status        = 0x55
	GyroRawXY     = 0x56
	GyroRawZ      = 0x57
	AccelRawXY    = 0x58
	AccelRawZ     = 0x59
	MagRawXY      = 0x5A
	MagRawZ       = 0x5B
	GyroProcXY    = 0x5C
	GyroProcZ     = 0x5D
	AccelProcXY   = 0x5E
	AccelProcZ    = 0x5F
	MagProcXY     = 0x60
	MagProcZ      = 0x61
	EulerPhiTheta = 0x62
	EulerPsi      = 0x63
	QuatAB        = 0x64
	QuatCD        = 0x65
	ErrorCov00    = 0x66
	Temperature   = 0x76
)

// Command addresses. Sent and acknowledged with no data payload.
const (
	GetFWVersion   = 0xAA
	FlashCommit    = 0xAB
	ZeroGyros      = 0xAC
	ResetEKF       = 0xAD
	GetData        = 0xAE
	SetAccelRef    = 0xAF
	SetMagRef      = 0xB0
	ResetToFactory = 0xB1

	BadChecksum      = 0xFD
	UnknownAddress   = 0xFE
	InvalidBatchSize = 0xFF
)

// COMMUNICATION register bits. Bits 0-7 hold the broadcast rate, bits 8-10
// the serial baud rate; the upper bits enable individual broadcast channels.
const (
	BroadcastEnabled   = 1 << 30
	GyrosRawEnabled    = 1 << 29
	AccelsRawEnabled   = 1 << 28
	MagRawEnabled      = 1 << 27
	GyrosProcEnabled   = 1 << 26
	AccelsProcEnabled  = 1 << 25
	MagProcEnabled     = 1 << 24
	QuatEnabled        = 1 << 23
	EulerEnabled       = 1 << 22
	CovEnabled         = 1 << 21
	TemperatureEnabled = 1 << 20

	BaudStartBit      = 8
	BroadcastRateMask = 0xFF
)

// Serial baud rate encodings for the COMMUNICATION register.
const (
	Baud9600 = iota
	Baud14400
	Baud19200
	Baud38400
	Baud57600
	Baud115200
)

// MISC_CONFIG register bits.
const (
	MagUpdateEnabled    = 1 << 31
	AccelUpdateEnabled  = 1 << 30
	GyroStartupCal      = 1 << 29
	QuatEstimateEnabled = 1 << 28
)

// BroadcastRate encodes a desired broadcast frequency in Hz into the 8-bit
// rate field of the COMMUNICATION register. The firmware maps the field
// linearly over 20-300 Hz.
func BroadcastRate(hz float64) uint32 {
	if hz < 20 {
		hz = 20
	}
	if hz > 300 {
		hz = 300
	}
	return uint32((hz - 20) * 255 / 280)
}
