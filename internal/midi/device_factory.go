package midi

import "time"

// handshakePause gives the surface time to switch modes between handshake
// messages
const handshakePause = 200 * time.Millisecond

// GetDevice returns the appropriate Device implementation for the given type
func GetDevice(deviceType DeviceType) Device {
	switch deviceType {
	case DeviceTypeLaunchkeyMK4:
		return NewLaunchkeyMK4()
	case DeviceTypeLaunchkeyMini:
		return NewLaunchkeyMini(handshakePause)
	default:
		// The Mini is the common case
		return NewLaunchkeyMini(handshakePause)
	}
}

// KnownDeviceTypes lists every supported variant
func KnownDeviceTypes() []DeviceType {
	return []DeviceType{DeviceTypeLaunchkeyMK4, DeviceTypeLaunchkeyMini}
}
