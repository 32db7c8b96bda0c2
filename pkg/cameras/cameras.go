// Package cameras detects which supported camera products are attached and
// selects a camera configuration for the current run.
//
// Two product families are supported: the ZED stereo depth camera and U20CAM
// wrist cameras. Detection is presence/absence per family; the best
// configuration is chosen by fixed priority and rendered into the camera
// map consumed by the LeRobot CLI.
package cameras

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoCameraAvailable is returned when no supported camera product is
// detected. Callers must abort the dependent operation.
var ErrNoCameraAvailable = errors.New("no supported camera available")

// Mode tags which configuration template was selected.
type Mode string

const (
	ModeFull      Mode = "full"       // ZED + wrist cameras
	ModeZEDOnly   Mode = "zed-only"   // ZED without wrist cameras
	ModeWristOnly Mode = "wrist-only" // wrist cameras without ZED
)

// View is one named video source handed to LeRobot.
type View struct {
	Name   string
	Device string
	Width  int
	Height int
	FPS    int
}

// Setup is the configuration chosen for a run.
type Setup struct {
	Mode        Mode
	Description string
	Views       []View
}

// Wrist camera device paths. U20CAMs enumerate first, so they land on the
// low video numbers.
const (
	WristDevice      = "/dev/video0"
	RightWristDevice = "/dev/video2"
)

// Virtual devices published by the ZED bridge (pkg/zedbridge).
const (
	ZEDLeftDevice  = "/dev/video10"
	ZEDRightDevice = "/dev/video11"
	ZEDDepthDevice = "/dev/video12"
)

const (
	frameWidth  = 1280
	frameHeight = 720
	frameRate   = 30
)

// Presence reports which camera products are currently attached.
type Presence struct {
	ZED        bool
	Wrist      bool
	RightWrist bool // second U20CAM, dual-wrist rigs only
}

func wristView(name, device string) View {
	return View{Name: name, Device: device, Width: frameWidth, Height: frameHeight, FPS: frameRate}
}

func zedViews() []View {
	return []View{
		{Name: "zed_left", Device: ZEDLeftDevice, Width: frameWidth, Height: frameHeight, FPS: frameRate},
		{Name: "zed_right", Device: ZEDRightDevice, Width: frameWidth, Height: frameHeight, FPS: frameRate},
		{Name: "zed_depth", Device: ZEDDepthDevice, Width: frameWidth, Height: frameHeight, FPS: frameRate},
	}
}

// Select maps product presence to one of the fixed configuration templates,
// by descending priority: both products > ZED only > wrist only > none.
func Select(p Presence) (*Setup, error) {
	switch {
	case p.ZED && p.Wrist:
		views := []View{wristView("wrist", WristDevice)}
		if p.RightWrist {
			views[0].Name = "left_wrist"
			views = append(views, wristView("right_wrist", RightWristDevice))
		}
		views = append(views, zedViews()...)
		return &Setup{
			Mode:        ModeFull,
			Description: "ZED stereo depth plus wrist close-up",
			Views:       views,
		}, nil

	case p.ZED:
		return &Setup{
			Mode:        ModeZEDOnly,
			Description: "ZED stereo depth only (no wrist camera detected)",
			Views:       zedViews(),
		}, nil

	case p.Wrist:
		views := []View{wristView("wrist", WristDevice)}
		if p.RightWrist {
			views[0].Name = "left_wrist"
			views = append(views, wristView("right_wrist", RightWristDevice))
		}
		return &Setup{
			Mode:        ModeWristOnly,
			Description: "wrist camera only (no ZED detected)",
			Views:       views,
		}, nil

	default:
		return nil, ErrNoCameraAvailable
	}
}

// ConfigString renders the setup in the camera map syntax of the LeRobot
// CLI:
//
//	{ wrist: {type: opencv, index_or_path: /dev/video0, width: 1280, height: 720, fps: 30}, ... }
func (s *Setup) ConfigString() string {
	entries := make([]string, 0, len(s.Views))
	for _, v := range s.Views {
		entries = append(entries, fmt.Sprintf(
			"%s: {type: opencv, index_or_path: %s, width: %d, height: %d, fps: %d}",
			v.Name, v.Device, v.Width, v.Height, v.FPS))
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

// Names returns the view names in stable order, for status display.
func (s *Setup) Names() []string {
	names := make([]string, 0, len(s.Views))
	for _, v := range s.Views {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	return names
}
