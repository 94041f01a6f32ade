//go:build !linux

package camera

// FreeDevice is a no-op outside Linux.
func FreeDevice(string) bool { return false }
