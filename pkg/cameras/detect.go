package cameras

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackjack/webcam"
)

// Product-name fragments reported by the kernel for the supported cameras.
const (
	zedNameFragment   = "ZED"
	wristNameFragment = "U20CAM"
)

const byIDDir = "/dev/v4l/by-id"

// Detect probes the attached video devices and reports which supported
// products are present. Detection is per product family: multiple units of
// the same family beyond the dual-wrist pair are not distinguished.
func Detect() (Presence, error) {
	devices, err := webcam.ListDevices()
	if err != nil {
		return Presence{}, err
	}
	p := classify(devices)
	if !p.ZED || !p.Wrist {
		byID := byIDPresence()
		p.ZED = p.ZED || byID.ZED
		p.Wrist = p.Wrist || byID.Wrist
		p.RightWrist = p.RightWrist || byID.RightWrist
	}
	return p, nil
}

// byIDPresence scans /dev/v4l/by-id, whose entry names carry the full USB
// product string even when the kernel card name is truncated.
func byIDPresence() Presence {
	entries, err := os.ReadDir(byIDDir)
	if err != nil {
		return Presence{}
	}
	var p Presence
	for _, e := range entries {
		name := e.Name()
		// Each camera exposes several nodes; index0 is the capture node.
		if !strings.Contains(name, "-index0") {
			continue
		}
		switch {
		case strings.Contains(name, zedNameFragment):
			p.ZED = true
		case strings.Contains(name, wristNameFragment):
			p.Wrist = true
			target, err := filepath.EvalSymlinks(filepath.Join(byIDDir, name))
			if err == nil && target == RightWristDevice {
				p.RightWrist = true
			}
		}
	}
	return p
}

// classify is the pure half of Detect, split out for tests.
func classify(devices map[string]string) Presence {
	var p Presence
	for path, name := range devices {
		switch {
		case strings.Contains(name, zedNameFragment):
			// The bridge's own loopback devices carry a ZED label too;
			// only a real capture device counts.
			if !isLoopbackPath(path) {
				p.ZED = true
			}
		case strings.Contains(name, wristNameFragment):
			p.Wrist = true
			if path == RightWristDevice {
				p.RightWrist = true
			}
		}
	}
	return p
}

// FindZEDDevice returns the capture device path of the physical ZED, or
// ErrNoCameraAvailable when none is attached.
func FindZEDDevice() (string, error) {
	devices, err := webcam.ListDevices()
	if err != nil {
		return "", err
	}
	var matches []string
	for path, name := range devices {
		if strings.Contains(name, zedNameFragment) && !isLoopbackPath(path) {
			matches = append(matches, path)
		}
	}
	if len(matches) == 0 {
		return "", ErrNoCameraAvailable
	}
	// A UVC camera exposes several nodes; the lowest-numbered one is the
	// capture node.
	sort.Strings(matches)
	return matches[0], nil
}

func isLoopbackPath(path string) bool {
	switch path {
	case ZEDLeftDevice, ZEDRightDevice, ZEDDepthDevice:
		return true
	}
	return false
}
