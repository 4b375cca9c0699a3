package comms

import (
	"bytes"
	"errors"
	"testing"

	"github.com/relabs-tech/um6_computer/internal/firmware"
	"github.com/relabs-tech/um6_computer/internal/registers"
)

func TestChecksum(t *testing.T) {
	// 's'+'n'+'p' = 0x73+0x6E+0x70 = 0x151.
	if got := checksum([]byte{'s', 'n', 'p'}); got != 0x0151 {
		t.Errorf("header checksum: got %#04x, want 0x0151", got)
	}
}

func TestSendReceiveRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pkt  Packet
	}{
		{"command", Packet{Address: firmware.ZeroGyros}},
		{"single register", Packet{Address: firmware.Communication, HasData: true,
			Data: []byte{0x40, 0x00, 0x01, 0x23}}},
		{"batch", Packet{Address: firmware.GyroRawXY, HasData: true, IsBatch: true,
			Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}},
		{"comm failed ack", Packet{Address: firmware.FlashCommit, CommFailed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf)
			if err := c.Send(&tt.pkt); err != nil {
				t.Fatalf("send: %v", err)
			}
			got, err := c.Receive()
			if err != nil {
				t.Fatalf("receive: %v", err)
			}
			if got.Address != tt.pkt.Address || got.HasData != tt.pkt.HasData ||
				got.IsBatch != tt.pkt.IsBatch || got.CommFailed != tt.pkt.CommFailed {
				t.Errorf("header mismatch: got %+v, want %+v", got, tt.pkt)
			}
			if !bytes.Equal(got.Data, tt.pkt.Data) {
				t.Errorf("data mismatch: got % x, want % x", got.Data, tt.pkt.Data)
			}
		})
	}
}

func TestReceiveSkipsGarbageBeforeHeader(t *testing.T) {
	var frame bytes.Buffer
	if err := New(&frame).Send(&Packet{Address: firmware.GetFWVersion}); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Noise ahead of the frame, including a truncated "sn" false start and a
	// repeated 's' that restarts header matching.
	var stream bytes.Buffer
	stream.Write([]byte{0xFF, 's', 'n', 0x00, 's', 's'})
	stream.Write(frame.Bytes()[1:]) // the trailing 's' above starts the real header

	got, err := New(&stream).Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if got.Address != firmware.GetFWVersion {
		t.Errorf("address: got %#02x, want %#02x", got.Address, firmware.GetFWVersion)
	}
}

func TestReceiveBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	if err := c.Send(&Packet{Address: firmware.Status, HasData: true,
		Data: []byte{0, 0, 0, 1}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[6] ^= 0x10 // flip a data bit, checksum now stale
	if _, err := New(bytes.NewBuffer(corrupted)).Receive(); !errors.Is(err, ErrBadChecksum) {
		t.Errorf("corrupted frame: got %v, want ErrBadChecksum", err)
	}
}

func TestReceiveTruncatedFrame(t *testing.T) {
	stream := bytes.NewBuffer([]byte{'s', 'n', 'p', ptHasData, firmware.Temperature, 0x3F})
	if _, err := New(stream).Receive(); err == nil {
		t.Error("truncated frame: want an error, got nil")
	} else if errors.Is(err, ErrBadChecksum) {
		t.Errorf("truncated frame: got ErrBadChecksum, want an io error, err=%v", err)
	}
}

func TestBatchTooLarge(t *testing.T) {
	c := New(&bytes.Buffer{})
	big := Packet{Address: firmware.ErrorCov00, HasData: true, IsBatch: true,
		Data: make([]byte, 16*firmware.RegisterSize)}
	if err := c.Send(&big); err == nil {
		t.Error("16-register batch: want an error, got nil")
	}
	if err := c.RequestRegisters(firmware.ErrorCov00, 16); err == nil {
		t.Error("16-register request: want an error, got nil")
	}
}

func TestApplyUpdatesRegisterImage(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	err := c.Send(&Packet{
		Address: firmware.EulerPhiTheta,
		HasData: true,
		IsBatch: true,
		// phi = 0x0100, theta = 0xFF00, psi = 0x0010
		Data: []byte{0x01, 0x00, 0xFF, 0x00, 0x00, 0x10, 0x00, 0x00},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	pkt, err := c.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	regs := registers.New()
	pkt.Apply(regs)
	if got := regs.Euler.Get(0); got != 0x0100 {
		t.Errorf("phi: got %#x, want 0x0100", got)
	}
	if got := regs.Euler.Get(1); got != -256 {
		t.Errorf("theta: got %d, want -256", got)
	}
	if got := regs.Euler.Get(2); got != 0x0010 {
		t.Errorf("psi: got %#x, want 0x0010", got)
	}
}

func TestWriteRegistersCarriesImageBytes(t *testing.T) {
	regs := registers.New()
	regs.Communication.Set(0, uint32(firmware.BroadcastEnabled|firmware.EulerEnabled))

	var buf bytes.Buffer
	c := New(&buf)
	if err := c.WriteRegisters(regs, firmware.Communication, 1); err != nil {
		t.Fatalf("write registers: %v", err)
	}
	pkt, err := c.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	echo := registers.New()
	pkt.Apply(echo)
	if got := echo.Communication.Get(0); got != uint32(firmware.BroadcastEnabled|firmware.EulerEnabled) {
		t.Errorf("round-tripped communication word: got %#08x", got)
	}
}

func TestCovers(t *testing.T) {
	pkt := &Packet{Address: firmware.GyroRawXY, HasData: true, IsBatch: true,
		Data: make([]byte, 3*firmware.RegisterSize)} // registers 0x56-0x58
	if !pkt.Covers(firmware.AccelRawXY, 2) {
		t.Error("packet ending at 0x58 should cover the accel raw block")
	}
	if pkt.Covers(firmware.MagRawXY, 2) {
		t.Error("packet ending at 0x58 should not cover the mag raw block")
	}
	if pkt.Covers(firmware.Status, 1) {
		t.Error("packet starting at 0x56 should not cover 0x55")
	}
}
