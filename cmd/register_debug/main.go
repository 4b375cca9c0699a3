// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/relabs-tech/um6_computer/internal/app"
	"github.com/relabs-tech/um6_computer/internal/comms"
	"github.com/relabs-tech/um6_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "./um6_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting UM6 register debug tool (standalone)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	c, err := comms.Open(cfg.SerialPort, uint(cfg.SerialBaud))
	if err != nil {
		log.Fatalf("failed to open UM6 serial port: %v", err)
	}
	defer c.Close()
	log.Printf("UM6 serial port opened on %s at %d baud", cfg.SerialPort, cfg.SerialBaud)

	server := app.NewRegisterDebugServer(c)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("serial receive loop: %v", err)
		}
	}()

	http.HandleFunc("/ws", server.HandleWS)
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	port := cfg.DebugServerPort
	if port == 0 {
		port = 8081
	}
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Register debug tool listening on %s", addr)
	log.Printf("Open http://localhost%s in your browser", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
