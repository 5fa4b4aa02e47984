// Command visor-log views and summarizes visor protocol log files.
//
// Log files are written by the visor daemon's -log flag in CBOR event
// format (.vlog).
//
// Usage:
//
//	visor-log <command> [flags] <file.vlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show event counts per layer and category
//
// Examples:
//
//	# View all events
//	visor-log view visor.vlog
//
//	# View only dropped frames and parse failures
//	visor-log view -category error visor.vlog
//
//	# View one topic
//	visor-log view -topic protogen/visor/esp/set/fan visor.vlog
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/protosuit/visor-go/pkg/log"
)

const usage = `visor-log - visor protocol log viewer

Usage:
  visor-log <command> [flags] <file.vlog>

Commands:
  view     View log file in human-readable format
  stats    Show event counts per layer and category

Use "visor-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "view":
		runView(os.Args[2:])
	case "stats":
		runStats(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	layer := fs.String("layer", "", "Filter by layer (frame, message, device, bridge)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, state, error)")
	topic := fs.String("topic", "", "Filter by exact topic")
	session := fs.String("session", "", "Filter by session ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		os.Exit(1)
	}

	filter, err := buildFilter(*layer, *direction, *category, *topic, *session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		formatEvent(os.Stdout, event)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		os.Exit(1)
	}

	reader, err := log.NewReader(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	total := 0
	byLayer := map[string]int{}
	byCategory := map[string]int{}
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		total++
		byLayer[event.Layer.String()]++
		byCategory[event.Category.String()]++
	}

	fmt.Printf("Events: %d\n", total)
	fmt.Println("By layer:")
	for _, name := range []string{"FRAME", "MESSAGE", "DEVICE", "BRIDGE"} {
		if n := byLayer[name]; n > 0 {
			fmt.Printf("  %-8s %d\n", name, n)
		}
	}
	fmt.Println("By category:")
	for _, name := range []string{"MESSAGE", "STATE", "ERROR"} {
		if n := byCategory[name]; n > 0 {
			fmt.Printf("  %-8s %d\n", name, n)
		}
	}
}

func buildFilter(layer, direction, category, topic, session string) (log.Filter, error) {
	filter := log.Filter{Topic: topic, SessionID: session}

	switch layer {
	case "":
	case "frame":
		filter.Layer = layerPtr(log.LayerFrame)
	case "message":
		filter.Layer = layerPtr(log.LayerMessage)
	case "device":
		filter.Layer = layerPtr(log.LayerDevice)
	case "bridge":
		filter.Layer = layerPtr(log.LayerBridge)
	default:
		return filter, fmt.Errorf("unknown layer %q", layer)
	}

	switch direction {
	case "":
	case "in":
		filter.Direction = dirPtr(log.DirectionIn)
	case "out":
		filter.Direction = dirPtr(log.DirectionOut)
	default:
		return filter, fmt.Errorf("unknown direction %q", direction)
	}

	switch category {
	case "":
	case "message":
		filter.Category = catPtr(log.CategoryMessage)
	case "state":
		filter.Category = catPtr(log.CategoryState)
	case "error":
		filter.Category = catPtr(log.CategoryError)
	default:
		return filter, fmt.Errorf("unknown category %q", category)
	}

	return filter, nil
}

func layerPtr(l log.Layer) *log.Layer       { return &l }
func dirPtr(d log.Direction) *log.Direction { return &d }
func catPtr(c log.Category) *log.Category   { return &c }

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := event.SessionID
	if len(session) > 8 {
		session = session[:8]
	}

	fmt.Fprintf(w, "%s [%s] %-3s %-7s %s\n",
		ts, session, event.Direction.String(), event.Layer.String(), event.Category.String())

	if event.Topic != "" {
		fmt.Fprintf(w, "  Topic: %s\n", event.Topic)
	}
	if event.DeviceLine != "" {
		fmt.Fprintf(w, "  Line: %s\n", event.DeviceLine)
	}
	if event.Frame != nil {
		fmt.Fprintf(w, "  Size: %d bytes\n", event.Frame.Size)
		if len(event.Frame.Data) > 0 {
			fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(event.Frame.Data))
			if event.Frame.Truncated {
				fmt.Fprint(w, " (truncated)")
			}
			fmt.Fprintln(w)
		}
	}
	if event.StateChange != nil {
		if event.StateChange.OldState != "" {
			fmt.Fprintf(w, "  State: %s: %s -> %s\n",
				event.StateChange.Entity, event.StateChange.OldState, event.StateChange.NewState)
		} else {
			fmt.Fprintf(w, "  State: %s: %s\n", event.StateChange.Entity, event.StateChange.NewState)
		}
	}
	if event.Error != nil {
		fmt.Fprintf(w, "  Error: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}

	fmt.Fprintln(w)
}
