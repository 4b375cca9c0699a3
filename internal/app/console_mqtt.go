package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/um6_computer/internal/config"
	"github.com/relabs-tech/um6_computer/internal/telemetry"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to pose
	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p telemetry.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE]  ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f\n",
			p.Roll, p.Pitch, p.Yaw,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPose)

	// Subscribe to raw sensor counts
	rawToken := client.Subscribe(cfg.TopicIMURaw, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s telemetry.IMURaw
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: imu raw unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[RAW]   G=(%6d %6d %6d)  A=(%6d %6d %6d)  M=(%6d %6d %6d)\n",
			s.Gx, s.Gy, s.Gz, s.Ax, s.Ay, s.Az, s.Mx, s.My, s.Mz,
		)
	})
	rawToken.Wait()
	if rawToken.Error() != nil {
		return rawToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMURaw)

	// Subscribe to processed sensor data
	procToken := client.Subscribe(cfg.TopicIMUProc, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s telemetry.IMUProc
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: imu proc unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[PROC]  G=(%7.3f %7.3f %7.3f) rad/s  A=(%6.3f %6.3f %6.3f) g\n",
			s.Gx, s.Gy, s.Gz, s.Ax, s.Ay, s.Az,
		)
	})
	procToken.Wait()
	if procToken.Error() != nil {
		return procToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMUProc)

	// Subscribe to status/temperature
	statusToken := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s telemetry.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: status unmarshal error: %v", err)
			return
		}

		fmt.Printf("[STAT]  FLAGS=%#08x  TEMP=%5.1f°C\n", s.Flags, s.Temperature)
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicStatus)

	// Block until interrupted
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
