//go:build windows

package fingerprint

import (
	"log/slog"

	"golang.org/x/sys/windows"
)

// volumeHash on Windows reduces the boot-volume serial number to 8 bits.
// The machine name is unused here; the unix build folds it instead.
func volumeHash(_ string) uint8 {
	root, err := windows.UTF16PtrFromString(`C:\`)
	if err != nil {
		return 0
	}
	var serial uint32
	if err := windows.GetVolumeInformation(root, nil, 0, &serial, nil, nil, nil, 0); err != nil {
		slog.Warn("boot volume serial unavailable", slog.String("error", err.Error()))
		return 0
	}
	return uint8((serial + serial>>8) & 0xFF)
}
