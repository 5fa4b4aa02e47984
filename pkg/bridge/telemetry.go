package bridge

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/protosuit/visor-go/pkg/wire"
)

// NotificationDuration is how long a notification overlay stays active.
const NotificationDuration = 5 * time.Second

// Telemetry caches the host-side status feeds for display surfaces.
// Parse failures leave the previous values in place.
type Telemetry struct {
	shader          string
	controllerCount int

	hostTemp       float64
	hostUptime     uint64
	hostFanPercent int
	hostCPUFreqMhz int

	fps float64

	preset string
	video  string
	exec   string
	audio  string

	notificationActive  bool
	notificationTime    time.Time
	notificationTitle   string
	notificationMessage string
}

// handle updates the cache from one telemetry message. Returns without
// effect for unknown topics.
func (t *Telemetry) handle(now time.Time, topic, payload string) {
	switch {
	case strings.HasPrefix(topic, wire.TopicShaderStatus):
		var in struct {
			Current struct {
				Left *string `json:"left"`
			} `json:"current"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil && in.Current.Left != nil {
			t.shader = *in.Current.Left
		}

	case strings.HasPrefix(topic, wire.TopicBluetoothDevices):
		var devices []struct {
			Connected bool `json:"connected"`
		}
		if json.Unmarshal([]byte(payload), &devices) == nil {
			count := 0
			for _, d := range devices {
				if d.Connected {
					count++
				}
			}
			t.controllerCount = count
		}

	case topic == wire.TopicSystemMetrics:
		var in struct {
			Temperature *float64 `json:"temperature"`
			Uptime      *uint64  `json:"uptime_seconds"`
			FanPercent  *int     `json:"fan_percent"`
			CPUFreqMhz  *int     `json:"cpu_freq_mhz"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil {
			if in.Temperature != nil {
				t.hostTemp = *in.Temperature
			}
			if in.Uptime != nil {
				t.hostUptime = *in.Uptime
			}
			if in.FanPercent != nil {
				t.hostFanPercent = *in.FanPercent
			}
			if in.CPUFreqMhz != nil {
				t.hostCPUFreqMhz = *in.CPUFreqMhz
			}
		}

	case topic == wire.TopicRenderPerformance:
		var in struct {
			FPS *float64 `json:"fps"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil && in.FPS != nil {
			t.fps = *in.FPS
		}

	case topic == wire.TopicLauncherVideo:
		var in struct {
			Playing *string `json:"playing"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil {
			t.video = deref(in.Playing)
		}

	case topic == wire.TopicLauncherExec:
		var in struct {
			Running *string `json:"running"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil {
			t.exec = deref(in.Running)
		}

	case topic == wire.TopicLauncherAudio:
		var in struct {
			Playing []string `json:"playing"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil {
			if len(in.Playing) > 0 {
				t.audio = in.Playing[0]
			} else {
				t.audio = ""
			}
		}

	case topic == wire.TopicRendererPreset:
		var in struct {
			Name *string `json:"name"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil {
			t.preset = deref(in.Name)
		}

	case topic == wire.TopicNotifications:
		var in struct {
			Type    string `json:"type"`
			Event   string `json:"event"`
			Service string `json:"service"`
			Message string `json:"message"`
		}
		if json.Unmarshal([]byte(payload), &in) == nil {
			t.notificationTitle = in.Type + " " + in.Service + " " + in.Event
			t.notificationMessage = in.Message
			t.notificationActive = true
			t.notificationTime = now
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Shader returns the active shader name reported by the renderer.
func (t *Telemetry) Shader() string {
	return t.shader
}

// ControllerCount returns the number of connected bluetooth controllers.
func (t *Telemetry) ControllerCount() int {
	return t.controllerCount
}

// HostTemp returns the host CPU temperature.
func (t *Telemetry) HostTemp() float64 {
	return t.hostTemp
}

// HostUptime returns the host uptime in seconds.
func (t *Telemetry) HostUptime() uint64 {
	return t.hostUptime
}

// HostFanPercent returns the host's own fan duty.
func (t *Telemetry) HostFanPercent() int {
	return t.hostFanPercent
}

// HostCPUFreqMhz returns the host CPU frequency.
func (t *Telemetry) HostCPUFreqMhz() int {
	return t.hostCPUFreqMhz
}

// FPS returns the renderer frame rate.
func (t *Telemetry) FPS() float64 {
	return t.fps
}

// ActivityName returns the most specific description of what the host is
// doing: preset, then video, exec, audio, and finally the shader name.
func (t *Telemetry) ActivityName() string {
	if t.preset != "" {
		return t.preset
	}
	if t.video != "" {
		return t.video
	}
	if t.exec != "" {
		return t.exec
	}
	if t.audio != "" {
		return t.audio
	}
	return t.shader
}

// Notification returns the active notification overlay, expiring it
// after NotificationDuration.
func (t *Telemetry) Notification(now time.Time) (title, message string, active bool) {
	if t.notificationActive && now.Sub(t.notificationTime) >= NotificationDuration {
		t.notificationActive = false
	}
	if !t.notificationActive {
		return "", "", false
	}
	return t.notificationTitle, t.notificationMessage, true
}

// ClearNotification dismisses the active notification.
func (t *Telemetry) ClearNotification() {
	t.notificationActive = false
	t.notificationTitle = ""
	t.notificationMessage = ""
}
