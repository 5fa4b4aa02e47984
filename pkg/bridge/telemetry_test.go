package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/protosuit/visor-go/pkg/wire"
)

func TestTelemetryShader(t *testing.T) {
	var tel Telemetry
	now := time.Now()

	tel.handle(now, wire.TopicShaderStatus, `{"current":{"left":"plasma"}}`)
	assert.Equal(t, "plasma", tel.Shader())

	// Missing field keeps the previous value.
	tel.handle(now, wire.TopicShaderStatus, `{"current":{}}`)
	assert.Equal(t, "plasma", tel.Shader())

	// Malformed JSON keeps the previous value.
	tel.handle(now, wire.TopicShaderStatus, `{"current"`)
	assert.Equal(t, "plasma", tel.Shader())
}

func TestTelemetryBluetoothCount(t *testing.T) {
	var tel Telemetry
	now := time.Now()

	tel.handle(now, wire.TopicBluetoothDevices,
		`[{"connected":true},{"connected":false},{"connected":true}]`)
	assert.Equal(t, 2, tel.ControllerCount())

	tel.handle(now, wire.TopicBluetoothDevices, `[]`)
	assert.Equal(t, 0, tel.ControllerCount())
}

func TestTelemetrySystemMetrics(t *testing.T) {
	var tel Telemetry
	now := time.Now()

	tel.handle(now, wire.TopicSystemMetrics,
		`{"temperature":55.5,"uptime_seconds":3600,"fan_percent":40,"cpu_freq_mhz":1500}`)
	assert.Equal(t, 55.5, tel.HostTemp())
	assert.Equal(t, uint64(3600), tel.HostUptime())
	assert.Equal(t, 40, tel.HostFanPercent())
	assert.Equal(t, 1500, tel.HostCPUFreqMhz())

	// Null fields leave the cached values alone.
	tel.handle(now, wire.TopicSystemMetrics, `{"temperature":null,"uptime_seconds":3700}`)
	assert.Equal(t, 55.5, tel.HostTemp())
	assert.Equal(t, uint64(3700), tel.HostUptime())
}

func TestTelemetryFPS(t *testing.T) {
	var tel Telemetry
	tel.handle(time.Now(), wire.TopicRenderPerformance, `{"fps":59.8}`)
	assert.Equal(t, 59.8, tel.FPS())
}

func TestActivityNamePriority(t *testing.T) {
	var tel Telemetry
	now := time.Now()

	assert.Equal(t, "", tel.ActivityName())

	tel.handle(now, wire.TopicShaderStatus, `{"current":{"left":"plasma"}}`)
	assert.Equal(t, "plasma", tel.ActivityName())

	tel.handle(now, wire.TopicLauncherAudio, `{"playing":["song.mp3"]}`)
	assert.Equal(t, "song.mp3", tel.ActivityName())

	tel.handle(now, wire.TopicLauncherExec, `{"running":"game"}`)
	assert.Equal(t, "game", tel.ActivityName())

	tel.handle(now, wire.TopicLauncherVideo, `{"playing":"movie.mp4"}`)
	assert.Equal(t, "movie.mp4", tel.ActivityName())

	tel.handle(now, wire.TopicRendererPreset, `{"name":"party"}`)
	assert.Equal(t, "party", tel.ActivityName())

	// Clearing the higher-priority sources falls back down the chain.
	tel.handle(now, wire.TopicRendererPreset, `{}`)
	assert.Equal(t, "movie.mp4", tel.ActivityName())
	tel.handle(now, wire.TopicLauncherVideo, `{}`)
	assert.Equal(t, "game", tel.ActivityName())
	tel.handle(now, wire.TopicLauncherExec, `{}`)
	tel.handle(now, wire.TopicLauncherAudio, `{"playing":[]}`)
	assert.Equal(t, "plasma", tel.ActivityName())
}

func TestNotificationLifecycle(t *testing.T) {
	var tel Telemetry
	start := time.Now()

	tel.handle(start, wire.TopicNotifications,
		`{"type":"warning","service":"renderer","event":"crash","message":"shader failed"}`)

	title, message, active := tel.Notification(start.Add(time.Second))
	assert.True(t, active)
	assert.Equal(t, "warning renderer crash", title)
	assert.Equal(t, "shader failed", message)

	_, _, active = tel.Notification(start.Add(NotificationDuration))
	assert.False(t, active, "notification should expire")
}

func TestNotificationClear(t *testing.T) {
	var tel Telemetry
	now := time.Now()

	tel.handle(now, wire.TopicNotifications, `{"type":"info","service":"launcher","event":"start"}`)
	tel.ClearNotification()

	_, _, active := tel.Notification(now)
	assert.False(t, active)
}
