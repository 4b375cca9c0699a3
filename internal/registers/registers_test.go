package registers

import (
	"math"
	"testing"

	"github.com/relabs-tech/um6_computer/internal/firmware"
)

func TestRoundTripInt16(t *testing.T) {
	r := New()
	for _, v := range []int16{0, 1, -1, 0x7FFF, -0x8000, 12345, -12345} {
		r.GyroRaw.Set(1, v)
		if got := r.GyroRaw.Get(1); got != v {
			t.Errorf("Set/Get int16 %d: got %d", v, got)
		}
	}
}

func TestRoundTripUint32(t *testing.T) {
	r := New()
	for _, v := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 1 << 30} {
		r.Communication.Set(0, v)
		if got := r.Communication.Get(0); got != v {
			t.Errorf("Set/Get uint32 %#x: got %#x", v, got)
		}
	}
}

func TestRoundTripFloat32BitExact(t *testing.T) {
	r := New()
	values := []uint32{
		math.Float32bits(0),
		math.Float32bits(1.0),
		math.Float32bits(-273.15),
		0x80000000, // -0.0
		math.Float32bits(float32(math.Inf(1))),
		math.Float32bits(float32(math.Inf(-1))),
		0x7FC00001, // quiet NaN with payload
		0x7F800001, // signalling NaN
	}
	for _, bits := range values {
		r.Temperature.Set(0, math.Float32frombits(bits))
		got := math.Float32bits(r.Temperature.Get(0))
		if got != bits {
			t.Errorf("float32 bits %#08x: got %#08x", bits, got)
		}
	}
}

func TestScaledRoundTrip(t *testing.T) {
	r := New()
	scale := 0.0610352 * math.Pi / 180.0 // processed gyro, rad/s per LSB
	r.Gyro.SetScaled(0, 1.0)
	got := r.Gyro.GetScaled(0)
	if diff := math.Abs(got - 1.0); diff > scale {
		t.Errorf("scaled round trip: got %g, off by %g (> one LSB %g)", got, diff, scale)
	}
}

func TestScaledEncodeRoundsToNearest(t *testing.T) {
	r := New()
	// 2.6 LSB worth of signal must encode as 3 raw counts, not truncate to 2.
	scale := 0.000183105
	r.Accel.SetScaled(2, 2.6*scale)
	if got := r.Accel.Get(2); got != 3 {
		t.Errorf("scaled encode: got %d raw counts, want 3", got)
	}
	r.Accel.SetScaled(2, -2.6*scale)
	if got := r.Accel.Get(2); got != -3 {
		t.Errorf("scaled encode negative: got %d raw counts, want -3", got)
	}
}

func TestScaledEncodeFloatDoesNotRound(t *testing.T) {
	r := New()
	r.MagRef.SetScaled(0, 0.25)
	if got := r.MagRef.Get(0); got != 0.25 {
		t.Errorf("float scaled encode: got %g, want 0.25", got)
	}
}

func TestWriteRawBigEndianFloat(t *testing.T) {
	r := New()
	r.WriteRaw(firmware.Temperature, []byte{0x3F, 0x80, 0x00, 0x00})
	if got := r.Temperature.Get(0); got != 1.0 {
		t.Errorf("big-endian 3F800000: got %g, want 1.0", got)
	}
}

func TestWriteRawBigEndianInt16Pair(t *testing.T) {
	r := New()
	// X = 0x0102 and Y = 0xFFFE packed in one register, Z in the next.
	r.WriteRaw(firmware.GyroRawXY, []byte{
		0x01, 0x02, 0xFF, 0xFE,
		0x80, 0x00, 0x00, 0x00,
	})
	if got := r.GyroRaw.Get(0); got != 0x0102 {
		t.Errorf("X: got %#x, want 0x0102", got)
	}
	if got := r.GyroRaw.Get(1); got != -2 {
		t.Errorf("Y: got %d, want -2", got)
	}
	if got := r.GyroRaw.Get(2); got != -0x8000 {
		t.Errorf("Z: got %d, want -32768", got)
	}
}

// A 3-element int16 accessor based at register R occupies bytes [4R, 4R+6):
// its third element lives in the high half of register R+1.
func TestArrayAddressingCrossesRegisterBoundary(t *testing.T) {
	r := New()
	r.GyroRaw.Set(2, 0x1234)
	raw := r.ReadRaw(firmware.GyroRawZ, 1)
	if raw[0] != 0x12 || raw[1] != 0x34 {
		t.Errorf("element 2 bytes: got %#x %#x, want 0x12 0x34", raw[0], raw[1])
	}
	if raw[2] != 0 || raw[3] != 0 {
		t.Errorf("low half of register %#x touched: %#x %#x", firmware.GyroRawZ, raw[2], raw[3])
	}
}

func TestDisjointAccessorsDoNotAlias(t *testing.T) {
	r := New()
	r.GyroRaw.Set(0, 0x7FFF)
	r.GyroRaw.Set(1, 0x7FFF)
	r.GyroRaw.Set(2, 0x7FFF)
	for i := 0; i < 3; i++ {
		if got := r.AccelRaw.Get(i); got != 0 {
			t.Errorf("accel raw field %d observed gyro write: %#x", i, got)
		}
	}
}

func TestOverlappingAccessorsAlias(t *testing.T) {
	r := New()
	// A whole-register int32 view laid over the gyro XY register sees the
	// packed int16 writes made through the vector accessor.
	word := newAccessor[int32](r, firmware.GyroRawXY, 1, 1)
	r.GyroRaw.Set(0, 0x0102)
	r.GyroRaw.Set(1, 0x0304)
	if got := word.Get(0); got != 0x01020304 {
		t.Errorf("overlapping int32 view: got %#x, want 0x01020304", got)
	}

	// Covariance element 0 and a raw view of the same register through
	// WriteRaw: writes through one view are visible through the other.
	r.Covariance.Set(0, 2.5)
	raw := r.ReadRaw(firmware.ErrorCov00, 1)
	want := []byte{0x40, 0x20, 0x00, 0x00}
	for i := range want {
		if raw[i] != want[i] {
			t.Fatalf("covariance bytes: got % x, want % x", raw, want)
		}
	}
	r.WriteRaw(firmware.ErrorCov00, []byte{0xBF, 0x80, 0x00, 0x00})
	if got := r.Covariance.Get(0); got != -1.0 {
		t.Errorf("aliased read after raw write: got %g, want -1.0", got)
	}
}

func TestWriteRawIsolation(t *testing.T) {
	r := New()
	for i := 0; i < NumRegisters; i++ {
		r.WriteRaw(uint8(i), []byte{0xAA, 0xAA, 0xAA, 0xAA})
	}
	r.WriteRaw(firmware.AccelRawXY, []byte{1, 2, 3, 4, 5, 6})
	base := firmware.AccelRawXY * firmware.RegisterSize
	for i, b := range r.raw {
		switch {
		case i >= base && i < base+6:
			if b != byte(i-base+1) {
				t.Fatalf("byte %d inside write range: got %#x", i, b)
			}
		default:
			if b != 0xAA {
				t.Fatalf("byte %d outside write range modified: got %#x", i, b)
			}
		}
	}
}

func TestAccessorGeometry(t *testing.T) {
	r := New()
	if got := r.GyroRaw.NumRegisters(); got != 2 {
		t.Errorf("3 int16 fields span %d registers, want 2", got)
	}
	if got := r.Quat.NumRegisters(); got != 2 {
		t.Errorf("4 int16 fields span %d registers, want 2", got)
	}
	if got := r.Covariance.NumRegisters(); got != 16 {
		t.Errorf("16 float32 fields span %d registers, want 16", got)
	}
	if got := r.Covariance.Length(); got != 16 {
		t.Errorf("covariance length %d, want 16", got)
	}
}

func TestOutOfRangeFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected bounds panic for field index past the image")
		}
	}()
	r := New()
	r.Temperature.Get(firmware.DataArraySize) // well past the end of the image
}
