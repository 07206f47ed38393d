// Package fingerprint derives a short composite device identifier used to
// bind licenses to hardware, and compares identifiers tolerantly so that a
// single component change does not invalidate a license.
package fingerprint

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net"
	"os"
	"runtime"
	"strconv"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DeviceFingerprint represents device identification information.
// Composite packs the three component hashes as [cpu:8 | volume:8 | mac:16];
// IDBase64 is the base64 encoding of Composite's decimal representation.
type DeviceFingerprint struct {
	DeviceName string `json:"device_name"`
	CPUHash    uint8  `json:"cpu_hash"`
	VolumeHash uint8  `json:"volume_hash"`
	MACHash    uint16 `json:"mac_hash"`
	Composite  uint32 `json:"composite"`
	IDBase64   string `json:"id_b64"`
}

// Probe seams, swappable in tests.
var (
	cpuInfo       = cpu.InfoWithContext
	netInterfaces = net.Interfaces
	hostnameFunc  = os.Hostname
)

// Get computes the device fingerprint from the local hardware. Probes that
// fail fall back to substitute values (an architecture-derived CPU hash, the
// device name "unknown", a zero MAC hash) rather than failing the whole
// derivation; the result is deterministic for fixed hardware.
func Get(ctx context.Context) DeviceFingerprint {
	name := machineName()
	return compose(name, cpuHash(ctx), volumeHash(name), macHash())
}

func compose(name string, cpuHash, volHash uint8, macHash uint16) DeviceFingerprint {
	composite := uint32(cpuHash)<<24 | uint32(volHash)<<16 | uint32(macHash)
	return DeviceFingerprint{
		DeviceName: name,
		CPUHash:    cpuHash,
		VolumeHash: volHash,
		MACHash:    macHash,
		Composite:  composite,
		IDBase64:   EncodeComposite(composite),
	}
}

// FromComposite rebuilds a fingerprint record from a packed composite value.
func FromComposite(name string, composite uint32) DeviceFingerprint {
	return compose(name,
		uint8(composite>>24),
		uint8(composite>>16),
		uint16(composite&0xFFFF),
	)
}

// EncodeComposite returns the base64 identifier for a composite value. The
// base64 payload is the decimal digits, not the raw integer bytes.
func EncodeComposite(composite uint32) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(composite), 10)))
}

// Compare reports whether the presented base64 identifier still matches the
// cached fingerprint. At least two of the three components must agree; any
// decode failure reports false.
func Compare(cached DeviceFingerprint, presentedB64 string) bool {
	decoded, err := base64.StdEncoding.DecodeString(presentedB64)
	if err != nil {
		return false
	}
	value, err := strconv.ParseUint(string(decoded), 10, 32)
	if err != nil {
		return false
	}
	composite := uint32(value)

	matches := 0
	if uint8(composite>>24) == cached.CPUHash {
		matches++
	}
	if uint8(composite>>16) == cached.VolumeHash {
		matches++
	}
	if uint16(composite&0xFFFF) == cached.MACHash {
		matches++
	}
	return matches >= 2
}

func machineName() string {
	name, err := hostnameFunc()
	if err != nil || name == "" {
		slog.Warn("hostname unavailable, using fallback device name",
			slog.String("error", errString(err)),
		)
		return "unknown"
	}
	return name
}

// cpuHash reduces the CPU identity descriptor to 8 bits by summing the low
// bytes of the family and model identifiers.
func cpuHash(ctx context.Context) uint8 {
	infos, err := cpuInfo(ctx)
	if err != nil || len(infos) == 0 {
		fallback := fold8([]byte(runtime.GOOS + "-" + runtime.GOARCH))
		slog.Warn("cpu identity unavailable, using architecture fallback",
			slog.String("os", runtime.GOOS),
			slog.String("arch", runtime.GOARCH),
		)
		return fallback
	}
	family, _ := strconv.Atoi(infos[0].Family)
	model, _ := strconv.Atoi(infos[0].Model)
	return uint8(family) + uint8(model)
}

// macHash folds the first two Ethernet-class interface MACs into a packed
// 16-bit value, low digest in the high byte. Missing slots stay zero.
func macHash() uint16 {
	interfaces, err := netInterfaces()
	if err != nil {
		slog.Warn("network interfaces unavailable", slog.String("error", err.Error()))
		return 0
	}

	// Two slots, zero when fewer than two interfaces exist; the zero slot
	// still participates in the ascending sort.
	var slots [2]uint8
	found := 0
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) != 6 {
			continue
		}
		slots[found] = fold8(iface.HardwareAddr)
		found++
		if found == 2 {
			break
		}
	}
	if slots[0] > slots[1] {
		slots[0], slots[1] = slots[1], slots[0]
	}
	return uint16(slots[0])<<8 | uint16(slots[1])
}

// fold8 accumulates bytes into an 8-bit digest, shifting odd-indexed bytes
// by 8 before the wrapping add.
func fold8(data []byte) uint8 {
	var hash uint8
	for i, b := range data {
		hash += uint8(int(b) << ((i & 1) * 8))
	}
	return hash
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
