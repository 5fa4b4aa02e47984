// Command visor-host is an interactive console that plays the host side
// of the visor serial protocol.
//
// It frames commands with the '>' direction marker and CRC-8 checksum,
// decodes and verifies inbound '<' frames, and prints them. Useful for
// bench-testing a controller without the real host stack.
//
// Usage:
//
//	visor-host -dev /dev/ttyUSB0
//
// Console commands:
//
//	set <param> <value>   Write a menu parameter
//	get                   Request schema and full parameter sync
//	save                  Persist companion menu state
//	fan <percent>         Set manual fan speed
//	fanmode auto|manual   Select fan control mode
//	fancurve <json>       Replace the fan curve configuration
//	restart               Restart the controller
//	raw <topic> [payload] Send an arbitrary topic
//	watch                 Toggle printing of inbound frames
//	help                  Show command help
//	exit                  Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"

	"github.com/protosuit/visor-go/pkg/transport"
	"github.com/protosuit/visor-go/pkg/wire"
)

var flags struct {
	device string
	baud   int
}

func init() {
	flag.StringVar(&flags.device, "dev", "/dev/ttyUSB0", "Serial device connected to the controller")
	flag.IntVar(&flags.baud, "baud", transport.DefaultBaud, "Baud rate")
}

func main() {
	flag.Parse()

	port, err := transport.OpenSerial(transport.SerialConfig{
		Device: flags.device,
		Baud:   flags.baud,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "visor> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	c := &console{port: port, rl: rl}
	c.watch.Store(true)
	go c.readLoop()

	c.printHelp()
	c.run()
}

type console struct {
	port  io.ReadWriteCloser
	rl    *readline.Instance
	watch atomic.Bool
}

func (c *console) run() {
	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "set":
			c.cmdSet(args)

		case "get":
			c.publish(wire.TopicMenuGet, "")

		case "save":
			c.publish(wire.TopicMenuSave, "")

		case "fan":
			c.cmdFan(args)

		case "fanmode":
			c.cmdFanMode(args)

		case "fancurve":
			c.cmdFanCurve(input)

		case "restart":
			c.publish(wire.TopicRestart, "")

		case "raw":
			c.cmdRaw(args)

		case "watch":
			on := !c.watch.Load()
			c.watch.Store(on)
			fmt.Fprintf(c.rl.Stdout(), "watch %v\n", on)

		case "exit", "quit":
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "unknown command %q, try help\n", cmd)
		}
	}
}

func (c *console) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "usage: set <param> <value>")
		return
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad value %q\n", args[1])
		return
	}
	c.publish(wire.TopicMenuSet, fmt.Sprintf(`{"param":%q,"value":%d}`, args[0], value))
}

func (c *console) cmdFan(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: fan <percent>")
		return
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad percent %q\n", args[0])
		return
	}
	c.publish(wire.TopicSetFan, args[0])
}

func (c *console) cmdFanMode(args []string) {
	if len(args) != 1 || (args[0] != "auto" && args[0] != "manual") {
		fmt.Fprintln(c.rl.Stdout(), "usage: fanmode auto|manual")
		return
	}
	c.publish(wire.TopicSetFanMode, args[0])
}

func (c *console) cmdFanCurve(input string) {
	payload := strings.TrimSpace(strings.TrimPrefix(input, "fancurve"))
	if payload == "" {
		fmt.Fprintln(c.rl.Stdout(), "usage: fancurve <json>")
		return
	}
	c.publish(wire.TopicConfigFanCurve, payload)
}

func (c *console) cmdRaw(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "usage: raw <topic> [payload]")
		return
	}
	c.publish(args[0], strings.Join(args[1:], " "))
}

func (c *console) publish(topic, payload string) {
	if _, err := c.port.Write(wire.EncodeHostFrame(topic, payload)); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "write: %v\n", err)
	}
}

// readLoop accumulates inbound bytes, verifies each frame and prints the
// decoded message.
func (c *console) readLoop() {
	buf := make([]byte, 256)
	var line []byte
	for {
		n, err := c.port.Read(buf)
		if err != nil && err != io.EOF {
			fmt.Fprintf(c.rl.Stdout(), "read: %v\n", err)
			return
		}
		for _, b := range buf[:n] {
			switch b {
			case '\r':
			case '\n':
				c.handleLine(line)
				line = line[:0]
			default:
				line = append(line, b)
			}
		}
	}
}

func (c *console) handleLine(line []byte) {
	if len(line) == 0 || !c.watch.Load() {
		return
	}
	msg, err := wire.ParseVisorFrame(line)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "?? %q (%v)\n", line, err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "<< %s\t%s\n", msg.Topic, msg.Payload)
}

func (c *console) printHelp() {
	out := c.rl.Stdout()
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  set <param> <value>    write a menu parameter")
	fmt.Fprintln(out, "  get                    request schema + full sync")
	fmt.Fprintln(out, "  save                   persist companion menu state")
	fmt.Fprintln(out, "  fan <percent>          set manual fan speed")
	fmt.Fprintln(out, "  fanmode auto|manual    select fan control mode")
	fmt.Fprintln(out, "  fancurve <json>        replace fan curve config")
	fmt.Fprintln(out, "  restart                restart the controller")
	fmt.Fprintln(out, "  raw <topic> [payload]  send an arbitrary topic")
	fmt.Fprintln(out, "  watch                  toggle inbound frame printing")
	fmt.Fprintln(out, "  exit                   quit")
}
