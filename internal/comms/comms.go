// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package comms

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/um6_computer/internal/firmware"
	"github.com/relabs-tech/um6_computer/internal/registers"
)

// ErrBadChecksum marks a frame that arrived with a checksum mismatch. The
// frame is dropped; recovery beyond that belongs to the caller.
var ErrBadChecksum = errors.New("comms: bad checksum")

// Comms frames and deframes UM6 packets over a byte stream. Production code
// opens a serial port with Open; tests drive it with an in-memory buffer.
type Comms struct {
	rw     io.ReadWriter
	reader *bufio.Reader
	closer io.Closer
}

// New wraps an existing byte stream.
func New(rw io.ReadWriter) *Comms {
	return &Comms{rw: rw, reader: bufio.NewReader(rw)}
}

// Open opens the UM6 serial port. The device speaks 8N1 at the baud rate
// configured in its COMMUNICATION register (115200 by default here).
func Open(portName string, baudRate uint) (*Comms, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("comms: open %s: %w", portName, err)
	}
	c := New(port)
	c.closer = port
	return c, nil
}

// Close closes the underlying serial port, if any.
func (c *Comms) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Receive blocks until the next complete frame and returns the decoded
// packet. Stray bytes before the "snp" header are skipped; a frame with a
// checksum mismatch returns ErrBadChecksum and the stream stays usable.
func (c *Comms) Receive() (*Packet, error) {
	if err := c.sync(); err != nil {
		return nil, err
	}

	header := make([]byte, 2) // PT and address
	if _, err := io.ReadFull(c.reader, header); err != nil {
		return nil, fmt.Errorf("comms: read header: %w", err)
	}
	pt := header[0]

	dataLen := 0
	if pt&ptHasData != 0 {
		dataLen = firmware.RegisterSize
		if pt&ptIsBatch != 0 {
			dataLen = firmware.RegisterSize * int(pt>>ptBatchShift&ptBatchMask)
		}
	}

	body := make([]byte, dataLen+2)
	if _, err := io.ReadFull(c.reader, body); err != nil {
		return nil, fmt.Errorf("comms: read body: %w", err)
	}

	frame := append([]byte{'s', 'n', 'p'}, header...)
	frame = append(frame, body[:dataLen]...)
	if got := binary.BigEndian.Uint16(body[dataLen:]); got != checksum(frame) {
		return nil, ErrBadChecksum
	}

	p := &Packet{
		Address:    header[1],
		HasData:    pt&ptHasData != 0,
		IsBatch:    pt&ptIsBatch != 0,
		CommFailed: pt&ptCommFailed != 0,
	}
	if dataLen > 0 {
		p.Data = body[:dataLen]
	}
	return p, nil
}

// sync consumes bytes until the "snp" start sequence has been read.
func (c *Comms) sync() error {
	var seen int
	for seen < 3 {
		b, err := c.reader.ReadByte()
		if err != nil {
			return fmt.Errorf("comms: sync: %w", err)
		}
		switch {
		case seen == 0 && b == 's', seen == 1 && b == 'n', seen == 2 && b == 'p':
			seen++
		case b == 's':
			seen = 1
		default:
			seen = 0
		}
	}
	return nil
}

// Send frames and writes a packet.
func (c *Comms) Send(p *Packet) error {
	frame, err := p.frame()
	if err != nil {
		return fmt.Errorf("comms: send %#02x: %w", p.Address, err)
	}
	if _, err := c.rw.Write(frame); err != nil {
		return fmt.Errorf("comms: send %#02x: %w", p.Address, err)
	}
	return nil
}

// SendCommand issues a data-less command packet (zero gyros, flash commit...).
func (c *Comms) SendCommand(address uint8) error {
	return c.Send(&Packet{Address: address})
}

// RequestRegisters asks the device to report count registers starting at
// index. The reply arrives as an ordinary data packet on the receive path.
func (c *Comms) RequestRegisters(index uint8, count int) error {
	if count > MaxBatchLength {
		return fmt.Errorf("comms: request of %d registers exceeds the %d-register limit", count, MaxBatchLength)
	}
	// A read request is a batch packet with the length field set but no data;
	// the type byte is built by hand since frame() derives it from the payload.
	pt := byte(0)
	if count > 1 {
		pt = ptIsBatch | byte(count)<<ptBatchShift
	}
	frame := []byte{'s', 'n', 'p', pt, index}
	var sum [2]byte
	binary.BigEndian.PutUint16(sum[:], checksum(frame))
	if _, err := c.rw.Write(append(frame, sum[:]...)); err != nil {
		return fmt.Errorf("comms: request %#02x: %w", index, err)
	}
	return nil
}

// WriteRegisters transmits count registers of the local image starting at
// index, as the configuration write path does after a Set/SetScaled.
func (c *Comms) WriteRegisters(r *registers.Registers, index uint8, count int) error {
	data := make([]byte, count*firmware.RegisterSize)
	copy(data, r.ReadRaw(index, count))
	return c.Send(&Packet{Address: index, HasData: true, IsBatch: count > 1, Data: data})
}
