package firmware

import (
	"strconv"
	"strings"
	"testing"
)

func TestBroadcastRateEncoding(t *testing.T) {
	tests := []struct {
		hz   float64
		want uint32
	}{
		{20, 0},
		{300, 255},
		{10, 0},     // clamped low
		{1000, 255}, // clamped high
		{160, 127},
	}
	for _, tt := range tests {
		if got := BroadcastRate(tt.hz); got != tt.want {
			t.Errorf("BroadcastRate(%g) = %d, want %d", tt.hz, got, tt.want)
		}
	}
}

func TestRegisterMapAddressesAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, info := range RegisterMap() {
		if seen[info.Address] {
			t.Errorf("duplicate address %s (%s)", info.Address, info.Name)
		}
		seen[info.Address] = true

		addr, err := strconv.ParseUint(strings.TrimPrefix(info.Address, "0x"), 16, 8)
		if err != nil {
			t.Errorf("%s: bad address %q: %v", info.Name, info.Address, err)
			continue
		}
		switch {
		case addr < ConfigArraySize: // configuration bank
		case addr >= DataRegStartAddress && addr < DataRegStartAddress+DataArraySize: // data bank
		case addr >= CommandStartAddress: // commands
		default:
			t.Errorf("%s: address %#02x falls between register banks", info.Name, addr)
		}

		if !strings.HasPrefix(info.Name, "UM6_") {
			t.Errorf("%s: name missing UM6_ prefix", info.Name)
		}
	}
}

func TestDataBankCoversTemperature(t *testing.T) {
	if Temperature >= DataRegStartAddress+DataArraySize {
		t.Fatalf("temperature register %#02x outside the data bank", Temperature)
	}
}
