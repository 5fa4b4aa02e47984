package transport

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeviceChannelSendAppendsNewline(t *testing.T) {
	buf := new(bytes.Buffer)
	c := NewDeviceChannel(buf, DeviceHandlerFunc(func(string) {}), nil)

	if err := c.Send("SET COLOR 3"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := buf.String(); got != "SET COLOR 3\n" {
		t.Errorf("wrote %q, want %q", got, "SET COLOR 3\n")
	}
}

func TestDeviceChannelConsumeLines(t *testing.T) {
	var got []string
	c := NewDeviceChannel(new(bytes.Buffer), DeviceHandlerFunc(func(line string) {
		got = append(got, line)
	}), nil)

	c.Consume([]byte("COLOR=3\r\nOK SAVED\n\nBOO"))
	c.Consume([]byte("PED=1\n"))

	want := []string{"COLOR=3", "OK SAVED", "BOOPED=1"}
	if len(got) != len(want) {
		t.Fatalf("dispatched %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeviceChannelOverflowResetsBuffer(t *testing.T) {
	dispatched := 0
	c := NewDeviceChannel(new(bytes.Buffer), DeviceHandlerFunc(func(string) {
		dispatched++
	}), nil)

	c.Consume([]byte(strings.Repeat("y", 600)))
	if dispatched != 0 {
		t.Fatalf("overflow dispatched a line")
	}
	if len(c.line) > MaxLineLength {
		t.Errorf("accumulator grew to %d bytes, cap is %d", len(c.line), MaxLineLength)
	}
}
