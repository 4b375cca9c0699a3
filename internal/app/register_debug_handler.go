// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/um6_computer/internal/comms"
	"github.com/relabs-tech/um6_computer/internal/firmware"
	"github.com/relabs-tech/um6_computer/internal/registers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RegisterDebugServer exposes the live register image over a WebSocket for
// the register-debug web tool. It owns the serial receive loop and serializes
// every touch of the shared image behind mu; the image itself does no locking.
type RegisterDebugServer struct {
	mu    sync.Mutex
	regs  *registers.Registers
	comms *comms.Comms
}

func NewRegisterDebugServer(c *comms.Comms) *RegisterDebugServer {
	return &RegisterDebugServer{regs: registers.New(), comms: c}
}

// Run receives frames from the device and applies them to the image. It
// returns when the serial link fails.
func (s *RegisterDebugServer) Run() error {
	for {
		pkt, err := s.comms.Receive()
		if err != nil {
			if errors.Is(err, comms.ErrBadChecksum) {
				log.Println("register_debug: dropped frame with bad checksum")
				continue
			}
			return err
		}
		s.mu.Lock()
		pkt.Apply(s.regs)
		s.mu.Unlock()
	}
}

// Response envelope for all websocket replies.
type RegisterResponse struct {
	Type        string                  `json:"type"` // "register_data", "register_map", "status", "error"
	Address     string                  `json:"addr,omitempty"`
	Value       string                  `json:"value,omitempty"`
	Registers   map[string]string       `json:"registers,omitempty"` // for bulk read
	Timestamp   string                  `json:"timestamp,omitempty"`
	Message     string                  `json:"message,omitempty"`
	RegisterMap []firmware.RegisterInfo `json:"register_map,omitempty"`
}

type debugSession struct {
	conn   *websocket.Conn
	server *RegisterDebugServer
}

// HandleWS handles the WebSocket connection for register debugging.
func (s *RegisterDebugServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := &debugSession{conn: conn, server: s}

	// Send register map on connection
	if err := session.sendRegisterMap(); err != nil {
		log.Printf("register_debug: error sending register map: %v", err)
		return
	}

	// Message loop
	for {
		var rawMsg map[string]interface{}
		err := conn.ReadJSON(&rawMsg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("register_debug: websocket error: %v", err)
			}
			break
		}

		action, ok := rawMsg["action"].(string)
		if !ok {
			session.sendError("missing or invalid action field")
			continue
		}

		switch action {
		case "get_map":
			session.sendRegisterMap()
		case "read":
			session.handleRead(rawMsg)
		case "read_all":
			session.handleReadAll()
		case "write":
			session.handleWrite(rawMsg)
		case "command":
			session.handleCommand(rawMsg)
		default:
			session.sendError(fmt.Sprintf("unknown action: %s", action))
		}
	}
}

func (d *debugSession) sendRegisterMap() error {
	return d.conn.WriteJSON(RegisterResponse{
		Type:        "register_map",
		RegisterMap: firmware.RegisterMap(),
	})
}

func (d *debugSession) sendError(msg string) {
	d.conn.WriteJSON(RegisterResponse{Type: "error", Message: msg})
}

func parseAddr(rawMsg map[string]interface{}) (uint8, error) {
	addr, _ := rawMsg["addr"].(string)
	if addr == "" {
		return 0, fmt.Errorf("missing addr field")
	}
	var addrByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		return 0, fmt.Errorf("invalid address format: %s", addr)
	}
	return addrByte, nil
}

// registerWord reads one register of the image as a hex word.
func (s *RegisterDebugServer) registerWord(addr uint8) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.regs.ReadRaw(addr, 1)
	return fmt.Sprintf("0x%02X%02X%02X%02X", b[0], b[1], b[2], b[3])
}

func (d *debugSession) handleRead(rawMsg map[string]interface{}) {
	addr, err := parseAddr(rawMsg)
	if err != nil {
		d.sendError(err.Error())
		return
	}
	if int(addr) >= registers.NumRegisters {
		d.sendError(fmt.Sprintf("address 0x%02X outside the register image", addr))
		return
	}

	// Ask the device to refresh this register; the receive loop applies the
	// reply, so the value reported here may lag one round trip.
	if err := d.server.comms.RequestRegisters(addr, 1); err != nil {
		log.Printf("register_debug: request 0x%02X: %v", addr, err)
	}

	d.conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Address:   fmt.Sprintf("0x%02X", addr),
		Value:     d.server.registerWord(addr),
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
}

func (d *debugSession) handleReadAll() {
	all := make(map[string]string, registers.NumRegisters)
	for addr := 0; addr < registers.NumRegisters; addr++ {
		// Gap between the configuration and data banks
		if addr >= firmware.ConfigArraySize && addr < firmware.DataRegStartAddress {
			continue
		}
		all[fmt.Sprintf("0x%02X", addr)] = d.server.registerWord(uint8(addr))
	}
	d.conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Registers: all,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
}

func (d *debugSession) handleWrite(rawMsg map[string]interface{}) {
	addr, err := parseAddr(rawMsg)
	if err != nil {
		d.sendError(err.Error())
		return
	}
	if addr >= firmware.ConfigArraySize {
		d.sendError(fmt.Sprintf("register 0x%02X is not writable", addr))
		return
	}
	value, _ := rawMsg["value"].(string)
	var word uint32
	if _, err := fmt.Sscanf(value, "0x%X", &word); err != nil {
		d.sendError(fmt.Sprintf("invalid value format: %s", value))
		return
	}

	d.server.mu.Lock()
	d.server.regs.WriteRaw(addr, []byte{byte(word >> 24), byte(word >> 16), byte(word >> 8), byte(word)})
	err = d.server.comms.WriteRegisters(d.server.regs, addr, 1)
	d.server.mu.Unlock()
	if err != nil {
		d.sendError(fmt.Sprintf("serial write failed: %v", err))
		return
	}

	d.conn.WriteJSON(RegisterResponse{
		Type:      "status",
		Address:   fmt.Sprintf("0x%02X", addr),
		Value:     fmt.Sprintf("0x%08X", word),
		Message:   "written",
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
}

func (d *debugSession) handleCommand(rawMsg map[string]interface{}) {
	addr, err := parseAddr(rawMsg)
	if err != nil {
		d.sendError(err.Error())
		return
	}
	if addr < firmware.CommandStartAddress {
		d.sendError(fmt.Sprintf("0x%02X is not a command register", addr))
		return
	}
	if err := d.server.comms.SendCommand(addr); err != nil {
		d.sendError(fmt.Sprintf("command failed: %v", err))
		return
	}
	d.conn.WriteJSON(RegisterResponse{
		Type:    "status",
		Address: fmt.Sprintf("0x%02X", addr),
		Message: "command sent",
	})
}
