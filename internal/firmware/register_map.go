// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package firmware

// RegisterInfo describes one UM6 register for the register-debug tool.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// BitField describes a named bit range within a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterMap returns metadata for the UM6 register set.
// This provides register names, descriptions, access types, and bit field definitions.
func RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Configuration Registers
		{Address: "0x00", Name: "UM6_COMMUNICATION", Description: "Serial communication configuration", Access: "RW", Default: "0x00000000",
			BitFields: []BitField{
				{Bits: "30", Name: "BROADCAST_EN", Description: "Broadcast mode", Values: "0=Listen (polled), 1=Broadcast"},
				{Bits: "29", Name: "GYROS_RAW_EN", Description: "Transmit raw rate gyro data", Values: "0=Disabled, 1=Enabled"},
				{Bits: "28", Name: "ACCELS_RAW_EN", Description: "Transmit raw accelerometer data", Values: "0=Disabled, 1=Enabled"},
				{Bits: "27", Name: "MAG_RAW_EN", Description: "Transmit raw magnetometer data", Values: "0=Disabled, 1=Enabled"},
				{Bits: "26", Name: "GYROS_PROC_EN", Description: "Transmit processed rate gyro data", Values: "0=Disabled, 1=Enabled"},
				{Bits: "25", Name: "ACCELS_PROC_EN", Description: "Transmit processed accelerometer data", Values: "0=Disabled, 1=Enabled"},
				{Bits: "24", Name: "MAG_PROC_EN", Description: "Transmit processed magnetometer data", Values: "0=Disabled, 1=Enabled"},
				{Bits: "23", Name: "QUAT_EN", Description: "Transmit quaternion estimate", Values: "0=Disabled, 1=Enabled"},
				{Bits: "22", Name: "EULER_EN", Description: "Transmit Euler angle estimate", Values: "0=Disabled, 1=Enabled"},
				{Bits: "21", Name: "COV_EN", Description: "Transmit error covariance matrix", Values: "0=Disabled, 1=Enabled"},
				{Bits: "20", Name: "TEMPERATURE_EN", Description: "Transmit temperature measurement", Values: "0=Disabled, 1=Enabled"},
				{Bits: "10:8", Name: "BAUD_RATE", Description: "Serial baud rate", Values: "0=9600, 1=14400, 2=19200, 3=38400, 4=57600, 5=115200"},
				{Bits: "7:0", Name: "BROADCAST_RATE", Description: "Broadcast frequency = (280/255)*rate + 20 Hz", Values: "0-255"},
			}},
		{Address: "0x01", Name: "UM6_MISC_CONFIG", Description: "Filter and estimation options", Access: "RW", Default: "0x00000000",
			BitFields: []BitField{
				{Bits: "31", Name: "MAG_UPDATE_EN", Description: "Use magnetometer in EKF updates", Values: "0=Disabled, 1=Enabled"},
				{Bits: "30", Name: "ACCEL_UPDATE_EN", Description: "Use accelerometer in EKF updates", Values: "0=Disabled, 1=Enabled"},
				{Bits: "29", Name: "GYRO_STARTUP_CAL", Description: "Zero rate gyros on startup", Values: "0=Disabled, 1=Enabled"},
				{Bits: "28", Name: "QUAT_ESTIMATE_EN", Description: "Quaternion estimation mode", Values: "0=Euler mode, 1=Quaternion mode"},
			}},
		{Address: "0x02", Name: "UM6_MAG_REF_X", Description: "Magnetic reference vector X (float32)", Access: "RW"},
		{Address: "0x03", Name: "UM6_MAG_REF_Y", Description: "Magnetic reference vector Y (float32)", Access: "RW"},
		{Address: "0x04", Name: "UM6_MAG_REF_Z", Description: "Magnetic reference vector Z (float32)", Access: "RW"},
		{Address: "0x05", Name: "UM6_ACCEL_REF_X", Description: "Gravity reference vector X (float32)", Access: "RW"},
		{Address: "0x06", Name: "UM6_ACCEL_REF_Y", Description: "Gravity reference vector Y (float32)", Access: "RW"},
		{Address: "0x07", Name: "UM6_ACCEL_REF_Z", Description: "Gravity reference vector Z (float32)", Access: "RW"},
		{Address: "0x08", Name: "UM6_EKF_MAG_VARIANCE", Description: "EKF magnetometer measurement variance (float32)", Access: "RW"},
		{Address: "0x09", Name: "UM6_EKF_ACCEL_VARIANCE", Description: "EKF accelerometer measurement variance (float32)", Access: "RW"},
		{Address: "0x0A", Name: "UM6_EKF_PROCESS_VARIANCE", Description: "EKF process variance (float32)", Access: "RW"},
		{Address: "0x0B", Name: "UM6_GYRO_BIAS_XY", Description: "Rate gyro bias X (15:0 = Y, 31:16 = X)", Access: "RW"},
		{Address: "0x0C", Name: "UM6_GYRO_BIAS_Z", Description: "Rate gyro bias Z (31:16)", Access: "RW"},
		{Address: "0x0D", Name: "UM6_ACCEL_BIAS_XY", Description: "Accelerometer bias X and Y", Access: "RW"},
		{Address: "0x0E", Name: "UM6_ACCEL_BIAS_Z", Description: "Accelerometer bias Z (31:16)", Access: "RW"},
		{Address: "0x0F", Name: "UM6_MAG_BIAS_XY", Description: "Magnetometer bias X and Y", Access: "RW"},
		{Address: "0x10", Name: "UM6_MAG_BIAS_Z", Description: "Magnetometer bias Z (31:16)", Access: "RW"},

		// Data Registers (Read-Only)
		{Address: "0x55", Name: "UM6_STATUS", Description: "Self-test and EKF status flags", Access: "R"},
		{Address: "0x56", Name: "UM6_GYRO_RAW_XY", Description: "Raw rate gyro X and Y (int16 pair)", Access: "R"},
		{Address: "0x57", Name: "UM6_GYRO_RAW_Z", Description: "Raw rate gyro Z (31:16)", Access: "R"},
		{Address: "0x58", Name: "UM6_ACCEL_RAW_XY", Description: "Raw accelerometer X and Y (int16 pair)", Access: "R"},
		{Address: "0x59", Name: "UM6_ACCEL_RAW_Z", Description: "Raw accelerometer Z (31:16)", Access: "R"},
		{Address: "0x5A", Name: "UM6_MAG_RAW_XY", Description: "Raw magnetometer X and Y (int16 pair)", Access: "R"},
		{Address: "0x5B", Name: "UM6_MAG_RAW_Z", Description: "Raw magnetometer Z (31:16)", Access: "R"},
		{Address: "0x5C", Name: "UM6_GYRO_PROC_XY", Description: "Processed rate gyro X and Y, 0.0610352 deg/s per LSB", Access: "R"},
		{Address: "0x5D", Name: "UM6_GYRO_PROC_Z", Description: "Processed rate gyro Z", Access: "R"},
		{Address: "0x5E", Name: "UM6_ACCEL_PROC_XY", Description: "Processed accelerometer X and Y, 0.000183105 g per LSB", Access: "R"},
		{Address: "0x5F", Name: "UM6_ACCEL_PROC_Z", Description: "Processed accelerometer Z", Access: "R"},
		{Address: "0x60", Name: "UM6_MAG_PROC_XY", Description: "Processed magnetometer X and Y, 0.000305176 per LSB", Access: "R"},
		{Address: "0x61", Name: "UM6_MAG_PROC_Z", Description: "Processed magnetometer Z", Access: "R"},
		{Address: "0x62", Name: "UM6_EULER_PHI_THETA", Description: "Roll and pitch angles, 0.0109863 deg per LSB", Access: "R"},
		{Address: "0x63", Name: "UM6_EULER_PSI", Description: "Yaw angle (31:16)", Access: "R"},
		{Address: "0x64", Name: "UM6_QUAT_AB", Description: "Quaternion components A and B, 0.0000335693 per LSB", Access: "R"},
		{Address: "0x65", Name: "UM6_QUAT_CD", Description: "Quaternion components C and D", Access: "R"},
		{Address: "0x66", Name: "UM6_ERROR_COV_00", Description: "Error covariance matrix, 16 consecutive float32 registers", Access: "R"},
		{Address: "0x76", Name: "UM6_TEMPERATURE", Description: "Board temperature in deg C (float32)", Access: "R"},

		// Command Registers (no data)
		{Address: "0xAA", Name: "UM6_GET_FW_VERSION", Description: "Report firmware version string", Access: "W"},
		{Address: "0xAB", Name: "UM6_FLASH_COMMIT", Description: "Write configuration registers to flash", Access: "W"},
		{Address: "0xAC", Name: "UM6_ZERO_GYROS", Description: "Measure and store rate gyro biases", Access: "W"},
		{Address: "0xAD", Name: "UM6_RESET_EKF", Description: "Reset the EKF state estimate", Access: "W"},
		{Address: "0xAE", Name: "UM6_GET_DATA", Description: "Transmit one frame of enabled data channels", Access: "W"},
		{Address: "0xAF", Name: "UM6_SET_ACCEL_REF", Description: "Capture current accelerometer output as reference vector", Access: "W"},
		{Address: "0xB0", Name: "UM6_SET_MAG_REF", Description: "Capture current magnetometer output as reference vector", Access: "W"},
		{Address: "0xB1", Name: "UM6_RESET_TO_FACTORY", Description: "Restore factory default configuration", Access: "W"},
	}
}
