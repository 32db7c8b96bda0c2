package cameras

import (
	"errors"
	"strings"
	"testing"
)

func TestSelect_PriorityTable(t *testing.T) {
	tests := []struct {
		name     string
		presence Presence
		wantMode Mode
	}{
		{"both products", Presence{ZED: true, Wrist: true}, ModeFull},
		{"zed only", Presence{ZED: true}, ModeZEDOnly},
		{"wrist only", Presence{Wrist: true}, ModeWristOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup, err := Select(tt.presence)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if setup.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", setup.Mode, tt.wantMode)
			}
		})
	}
}

func TestSelect_NoneAvailable(t *testing.T) {
	_, err := Select(Presence{})
	if !errors.Is(err, ErrNoCameraAvailable) {
		t.Fatalf("Select error = %v, want ErrNoCameraAvailable", err)
	}
}

func TestSelect_FullModeViews(t *testing.T) {
	setup, err := Select(Presence{ZED: true, Wrist: true})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	want := map[string]string{
		"wrist":     WristDevice,
		"zed_left":  ZEDLeftDevice,
		"zed_right": ZEDRightDevice,
		"zed_depth": ZEDDepthDevice,
	}
	if len(setup.Views) != len(want) {
		t.Fatalf("got %d views, want %d", len(setup.Views), len(want))
	}
	for _, v := range setup.Views {
		if want[v.Name] != v.Device {
			t.Errorf("view %s device = %s, want %s", v.Name, v.Device, want[v.Name])
		}
		if v.Width != 1280 || v.Height != 720 || v.FPS != 30 {
			t.Errorf("view %s = %dx%d@%d, want 1280x720@30", v.Name, v.Width, v.Height, v.FPS)
		}
	}
}

func TestSelect_DualWrist(t *testing.T) {
	setup, err := Select(Presence{Wrist: true, RightWrist: true})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	names := setup.Names()
	if len(names) != 2 || names[0] != "left_wrist" || names[1] != "right_wrist" {
		t.Errorf("views = %v, want [left_wrist right_wrist]", names)
	}
}

func TestSetup_ConfigString(t *testing.T) {
	setup := &Setup{
		Mode: ModeWristOnly,
		Views: []View{
			{Name: "wrist", Device: "/dev/video0", Width: 1280, Height: 720, FPS: 30},
		},
	}
	got := setup.ConfigString()
	want := "{ wrist: {type: opencv, index_or_path: /dev/video0, width: 1280, height: 720, fps: 30} }"
	if got != want {
		t.Errorf("ConfigString() = %q, want %q", got, want)
	}
}

func TestSetup_ConfigStringMultiple(t *testing.T) {
	setup, err := Select(Presence{ZED: true, Wrist: true})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	got := setup.ConfigString()
	for _, name := range []string{"wrist:", "zed_left:", "zed_right:", "zed_depth:"} {
		if !strings.Contains(got, name) {
			t.Errorf("ConfigString() missing %q: %s", name, got)
		}
	}
	if strings.Count(got, "type: opencv") != 4 {
		t.Errorf("ConfigString() should declare 4 opencv entries: %s", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		devices map[string]string
		want    Presence
	}{
		{
			name: "zed and wrist",
			devices: map[string]string{
				"/dev/video0": "U20CAM-720P: U20CAM-720P",
				"/dev/video4": "ZED 2i: ZED 2i",
			},
			want: Presence{ZED: true, Wrist: true},
		},
		{
			name: "dual wrist",
			devices: map[string]string{
				"/dev/video0": "U20CAM-720P: U20CAM-720P",
				"/dev/video2": "U20CAM-720P: U20CAM-720P",
			},
			want: Presence{Wrist: true, RightWrist: true},
		},
		{
			name: "loopback devices do not count as a ZED",
			devices: map[string]string{
				"/dev/video10": "ZED_Left",
				"/dev/video11": "ZED_Right",
				"/dev/video12": "ZED_Depth",
			},
			want: Presence{},
		},
		{
			name:    "unsupported camera",
			devices: map[string]string{"/dev/video0": "Integrated Webcam"},
			want:    Presence{},
		},
		{
			name: "empty",
			want: Presence{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.devices); got != tt.want {
				t.Errorf("classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
