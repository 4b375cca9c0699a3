// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package comms implements the UM6 binary serial protocol: "snp"-framed
// packets carrying register reads, writes, and commands, with a 16-bit
// additive checksum. Received data packets are applied to the shared
// register image; the accessors in internal/registers take it from there.
package comms

import (
	"encoding/binary"
	"fmt"

	"github.com/relabs-tech/um6_computer/internal/firmware"
	"github.com/relabs-tech/um6_computer/internal/registers"
)

// Packet type byte layout.
const (
	ptHasData    = 0x80
	ptIsBatch    = 0x40
	ptBatchMask  = 0x0F // bits 5:2, number of registers in a batch
	ptBatchShift = 2
	ptCommFailed = 0x01
)

// MaxBatchLength is the largest register count the 4-bit batch field encodes.
const MaxBatchLength = 15

// Packet is one decoded UM6 frame. Data, when present, holds whole registers
// in wire byte order: 4 bytes for a single-register packet, 4*BatchLength for
// a batch.
type Packet struct {
	Address    uint8
	HasData    bool
	IsBatch    bool
	CommFailed bool
	Data       []byte
}

// NumRegisters is the number of registers the packet's payload covers.
func (p *Packet) NumRegisters() int {
	return len(p.Data) / firmware.RegisterSize
}

// Apply copies the packet's payload into the register image at the packet's
// address. Packets without data (commands, acks, read requests) are a no-op.
func (p *Packet) Apply(r *registers.Registers) {
	if !p.HasData {
		return
	}
	r.WriteRaw(p.Address, p.Data)
}

// Covers reports whether the packet's payload includes any of the count
// registers starting at index. The producer uses it to decide which telemetry
// groups a received frame refreshed.
func (p *Packet) Covers(index uint8, count int) bool {
	if !p.HasData {
		return false
	}
	return int(p.Address) < int(index)+count && int(p.Address)+p.NumRegisters() > int(index)
}

func (p *Packet) typeByte() (byte, error) {
	var pt byte
	if len(p.Data) > 0 {
		pt |= ptHasData
		n := p.NumRegisters()
		if len(p.Data) != n*firmware.RegisterSize {
			return 0, fmt.Errorf("payload of %d bytes is not whole registers", len(p.Data))
		}
		if n > 1 {
			if n > MaxBatchLength {
				return 0, fmt.Errorf("batch of %d registers exceeds the %d-register limit", n, MaxBatchLength)
			}
			pt |= ptIsBatch | byte(n)<<ptBatchShift
		}
	}
	if p.CommFailed {
		pt |= ptCommFailed
	}
	return pt, nil
}

// frame serializes the packet, checksum included.
func (p *Packet) frame() ([]byte, error) {
	pt, err := p.typeByte()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 7+len(p.Data))
	buf = append(buf, 's', 'n', 'p', pt, p.Address)
	buf = append(buf, p.Data...)
	var sum [2]byte
	binary.BigEndian.PutUint16(sum[:], checksum(buf))
	return append(buf, sum[:]...), nil
}

// checksum is the 16-bit sum of every byte of the frame up to the checksum
// itself, "snp" header included.
func checksum(frame []byte) uint16 {
	var sum uint16
	for _, b := range frame {
		sum += uint16(b)
	}
	return sum
}
