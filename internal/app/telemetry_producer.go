package app

import (
	"encoding/json"
	"errors"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/um6_computer/internal/comms"
	"github.com/relabs-tech/um6_computer/internal/config"
	"github.com/relabs-tech/um6_computer/internal/firmware"
	"github.com/relabs-tech/um6_computer/internal/registers"
	"github.com/relabs-tech/um6_computer/internal/telemetry"
)

// RunTelemetryProducer opens the UM6 serial port, configures broadcast mode,
// and publishes decoded telemetry as JSON to MQTT until the link drops.
func RunTelemetryProducer() error {
	log.Println("starting um6-computer telemetry producer (UM6 → MQTT)")

	cfg := config.Get()

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	// --- open the UM6 serial link ---
	c, err := comms.Open(cfg.SerialPort, uint(cfg.SerialBaud))
	if err != nil {
		return err
	}
	defer c.Close()
	log.Printf("UM6 serial port opened on %s at %d baud", cfg.SerialPort, cfg.SerialBaud)

	regs := registers.New()

	if err := configureBroadcast(c, regs, cfg); err != nil {
		return err
	}

	if cfg.ZeroGyrosOnStart {
		if err := c.SendCommand(firmware.ZeroGyros); err != nil {
			return err
		}
		log.Println("producer: requested gyro zeroing")
	}
	if cfg.ResetEKFOnStart {
		if err := c.SendCommand(firmware.ResetEKF); err != nil {
			return err
		}
		log.Println("producer: requested EKF reset")
	}

	log.Println("connected, entering receive loop")

	for {
		pkt, err := c.Receive()
		if err != nil {
			if errors.Is(err, comms.ErrBadChecksum) {
				log.Println("producer: dropped frame with bad checksum")
				continue
			}
			return err
		}
		if pkt.CommFailed {
			log.Printf("producer: device reported failure for register %#02x", pkt.Address)
			continue
		}

		pkt.Apply(regs)
		publishCovered(client, cfg, regs, pkt)
	}
}

// configureBroadcast assembles the COMMUNICATION register from the config
// file and writes it back to the device through the shared image, the same
// path any configuration write takes.
func configureBroadcast(c *comms.Comms, regs *registers.Registers, cfg *config.Config) error {
	word := uint32(firmware.BroadcastEnabled)
	word |= firmware.BroadcastRate(cfg.BroadcastRate)
	word |= baudBits(cfg.SerialBaud) << firmware.BaudStartBit

	if cfg.SendRawSensor {
		word |= firmware.GyrosRawEnabled | firmware.AccelsRawEnabled | firmware.MagRawEnabled
	}
	if cfg.SendProcSensor {
		word |= firmware.GyrosProcEnabled | firmware.AccelsProcEnabled | firmware.MagProcEnabled
	}
	if cfg.SendEuler {
		word |= firmware.EulerEnabled
	}
	if cfg.SendQuat {
		word |= firmware.QuatEnabled
	}
	if cfg.SendCovariance {
		word |= firmware.CovEnabled
	}
	if cfg.SendTemperature {
		word |= firmware.TemperatureEnabled
	}

	regs.Communication.Set(0, word)
	if err := c.WriteRegisters(regs, firmware.Communication, 1); err != nil {
		return err
	}
	log.Printf("producer: COMMUNICATION register set to %#08x (%g Hz broadcast)", word, cfg.BroadcastRate)
	return nil
}

func baudBits(baud int) uint32 {
	switch baud {
	case 9600:
		return firmware.Baud9600
	case 14400:
		return firmware.Baud14400
	case 19200:
		return firmware.Baud19200
	case 38400:
		return firmware.Baud38400
	case 57600:
		return firmware.Baud57600
	default:
		return firmware.Baud115200
	}
}

// publishCovered publishes every telemetry group the received frame
// refreshed. Broadcast frames batch several groups together; each group is
// decoded from the image, not from the frame, so partial overlaps still
// publish a consistent sample.
func publishCovered(client mqtt.Client, cfg *config.Config, regs *registers.Registers, pkt *comms.Packet) {
	if cfg.TopicIMURaw != "" && pkt.Covers(firmware.GyroRawXY, 6) {
		publish(client, cfg.TopicIMURaw, telemetry.DecodeIMURaw(regs))
	}
	if cfg.TopicIMUProc != "" && pkt.Covers(firmware.GyroProcXY, 6) {
		publish(client, cfg.TopicIMUProc, telemetry.DecodeIMUProc(regs))
	}
	if cfg.TopicPose != "" && pkt.Covers(firmware.EulerPhiTheta, 2) {
		publish(client, cfg.TopicPose, telemetry.DecodePose(regs))
	}
	if cfg.TopicQuat != "" && pkt.Covers(firmware.QuatAB, 2) {
		publish(client, cfg.TopicQuat, telemetry.DecodeQuaternion(regs))
	}
	if cfg.TopicStatus != "" && (pkt.Covers(firmware.Status, 1) || pkt.Covers(firmware.Temperature, 1)) {
		publish(client, cfg.TopicStatus, telemetry.DecodeStatus(regs))
	}
}

func publish(client mqtt.Client, topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("producer: marshal for %s: %v", topic, err)
		return
	}
	client.Publish(topic, 0, false, payload)
}
