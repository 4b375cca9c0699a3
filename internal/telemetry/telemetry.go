// Package telemetry defines the decoded samples published by the producer
// and the decoders that assemble them from the register image.
package telemetry

import (
	"math"

	"github.com/relabs-tech/um6_computer/internal/registers"
)

const toDegrees = 180.0 / math.Pi

// IMURaw is one frame of unscaled sensor counts.
type IMURaw struct {
	Gx int16 `json:"gx"` // rate gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Mx int16 `json:"mx"` // magnetometer
	My int16 `json:"my"`
	Mz int16 `json:"mz"`
}

// IMUProc is one frame of calibrated sensor data in physical units:
// rad/s for the gyro, g for the accelerometer, unit-normalized field
// strength for the magnetometer.
type IMUProc struct {
	Gx float64 `json:"gx"`
	Gy float64 `json:"gy"`
	Gz float64 `json:"gz"`

	Ax float64 `json:"ax"`
	Ay float64 `json:"ay"`
	Az float64 `json:"az"`

	Mx float64 `json:"mx"`
	My float64 `json:"my"`
	Mz float64 `json:"mz"`
}

// Pose is the estimated orientation in degrees.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Quaternion is the estimated attitude quaternion, unit-normalized.
type Quaternion struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// Status is the device status register plus the board temperature.
type Status struct {
	Flags       uint32  `json:"flags"`
	Temperature float32 `json:"temperature"` // deg C
}

// Source is anything that can provide poses over time: the live device, a
// mock, maybe a replay source from file later.
type Source interface {
	Next() (Pose, error)
}

// DecodeIMURaw reads the raw sensor vectors out of the register image.
func DecodeIMURaw(r *registers.Registers) IMURaw {
	return IMURaw{
		Gx: r.GyroRaw.Get(0), Gy: r.GyroRaw.Get(1), Gz: r.GyroRaw.Get(2),
		Ax: r.AccelRaw.Get(0), Ay: r.AccelRaw.Get(1), Az: r.AccelRaw.Get(2),
		Mx: r.MagRaw.Get(0), My: r.MagRaw.Get(1), Mz: r.MagRaw.Get(2),
	}
}

// DecodeIMUProc reads the calibrated sensor vectors in physical units.
func DecodeIMUProc(r *registers.Registers) IMUProc {
	return IMUProc{
		Gx: r.Gyro.GetScaled(0), Gy: r.Gyro.GetScaled(1), Gz: r.Gyro.GetScaled(2),
		Ax: r.Accel.GetScaled(0), Ay: r.Accel.GetScaled(1), Az: r.Accel.GetScaled(2),
		Mx: r.Mag.GetScaled(0), My: r.Mag.GetScaled(1), Mz: r.Mag.GetScaled(2),
	}
}

// DecodePose reads the Euler angle estimate. The registers hold radians once
// scaled; the published pose is in degrees, matching the console display.
func DecodePose(r *registers.Registers) Pose {
	return Pose{
		Roll:  r.Euler.GetScaled(0) * toDegrees,
		Pitch: r.Euler.GetScaled(1) * toDegrees,
		Yaw:   r.Euler.GetScaled(2) * toDegrees,
	}
}

// DecodeQuaternion reads the attitude quaternion estimate.
func DecodeQuaternion(r *registers.Registers) Quaternion {
	return Quaternion{
		A: r.Quat.GetScaled(0),
		B: r.Quat.GetScaled(1),
		C: r.Quat.GetScaled(2),
		D: r.Quat.GetScaled(3),
	}
}

// DecodeStatus reads the status flags and temperature.
func DecodeStatus(r *registers.Registers) Status {
	return Status{
		Flags:       r.Status.Get(0),
		Temperature: r.Temperature.Get(0),
	}
}

// DecodeCovariance reads the 4x4 attitude error covariance matrix in
// row-major order.
func DecodeCovariance(r *registers.Registers) [16]float32 {
	var cov [16]float32
	for i := range cov {
		cov[i] = r.Covariance.Get(i)
	}
	return cov
}
