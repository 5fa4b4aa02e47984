package wire

// Topics consumed from the host.
const (
	// TopicSetFan sets a manual fan speed percentage.
	TopicSetFan = "protogen/visor/esp/set/fan"

	// TopicSetFanMode selects automatic or manual fan control.
	TopicSetFanMode = "protogen/visor/esp/set/fanmode"

	// TopicConfigFanCurve replaces the fan-curve configuration.
	TopicConfigFanCurve = "protogen/visor/esp/config/fancurve"

	// TopicMenuSet writes one companion menu parameter.
	TopicMenuSet = "protogen/visor/teensy/menu/set"

	// TopicMenuGet requests the schema and a full companion resync.
	TopicMenuGet = "protogen/visor/teensy/menu/get"

	// TopicMenuSave asks the companion to persist its menu state.
	TopicMenuSave = "protogen/visor/teensy/menu/save"

	// TopicRestart restarts the controller (companion first).
	TopicRestart = "protogen/visor/esp/restart"
)

// Telemetry feeds from the host, matched by prefix.
const (
	TopicShaderStatus      = "protogen/fins/renderer/status/shader"
	TopicBluetoothDevices  = "protogen/fins/bluetoothbridge/status/devices"
	TopicSystemMetrics     = "protogen/fins/systembridge/status/metrics"
	TopicRenderPerformance = "protogen/fins/renderer/status/performance"
	TopicLauncherVideo     = "protogen/fins/launcher/status/video"
	TopicLauncherExec      = "protogen/fins/launcher/status/exec"
	TopicLauncherAudio     = "protogen/fins/launcher/status/audio"
	TopicRendererPreset    = "protogen/fins/renderer/status/preset"
	TopicNotifications     = "protogen/global/notifications"
)

// Topics published to the host.
const (
	TopicStatusAlive    = "protogen/visor/esp/status/alive"
	TopicStatusFanCurve = "protogen/visor/esp/status/fancurve"
	TopicStatusSensors  = "protogen/visor/esp/status/sensors"
	TopicMenuSchema     = "protogen/visor/teensy/menu/schema"
	TopicMenuSaved      = "protogen/visor/teensy/menu/saved"
	TopicMenuError      = "protogen/visor/teensy/menu/error"
	TopicMenuStatusBase = "protogen/visor/teensy/menu/status/"
	TopicBoopedStatus   = "protogen/visor/teensy/status/booped"
	TopicCompanionRaw   = "protogen/visor/teensy/raw"
)
