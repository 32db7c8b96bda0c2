package zedbridge

import (
	"context"
	"fmt"

	"github.com/blackjack/webcam"
)

// Frames is one synchronized grab from the stereo camera. Left and Right are
// BGR24 at the bridge resolution; Depth is per-pixel distance in millimeters
// and is nil for sources that cannot compute depth.
type Frames struct {
	Left  []byte
	Right []byte
	Depth []uint16
}

// Source produces frames for the bridge. Grab blocks until a new frame set
// is available or ctx is done.
type Source interface {
	Grab(ctx context.Context) (*Frames, error)
	Close() error
}

// UVCSource reads the ZED's side-by-side stereo stream over plain UVC and
// splits it into left and right views. No SDK is involved, so no depth is
// produced; runs that need the depth modality use the SDK helper source.
type UVCSource struct {
	cam    *webcam.Webcam
	width  int
	height int
}

// fourcc codes are little-endian uint32s of the four ASCII bytes.
const fourccYUYV = webcam.PixelFormat(0x56595559)

// OpenUVC opens the ZED capture device. width and height are per-eye; the
// device itself streams both eyes side by side at double width.
func OpenUVC(device string, width, height, fps int) (*UVCSource, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	_, w, h, err := cam.SetImageFormat(fourccYUYV, uint32(width*2), uint32(height))
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("set image format on %s: %w", device, err)
	}
	if int(w) != width*2 || int(h) != height {
		cam.Close()
		return nil, fmt.Errorf("%s negotiated %dx%d, want %dx%d side-by-side",
			device, w, h, width*2, height)
	}
	if err := cam.SetFramerate(float32(fps)); err != nil {
		cam.Close()
		return nil, fmt.Errorf("set framerate on %s: %w", device, err)
	}
	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("start streaming on %s: %w", device, err)
	}

	return &UVCSource{cam: cam, width: width, height: height}, nil
}

func (s *UVCSource) Grab(ctx context.Context) (*Frames, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.cam.WaitForFrame(1); err != nil {
			if _, timeout := err.(*webcam.Timeout); timeout {
				continue
			}
			return nil, fmt.Errorf("wait for frame: %w", err)
		}
		raw, err := s.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		if len(raw) != s.width*2*s.height*2 { // YUYV is 2 bytes per pixel
			continue
		}
		bgr := yuyvToBGR(raw, s.width*2, s.height)
		left, right := splitSideBySide(bgr, s.width*2, s.height)
		return &Frames{Left: left, Right: right}, nil
	}
}

// Modalities reports what plain UVC can deliver: the two color views.
// Depth needs the vendor SDK, which publishes through its own source.
func (s *UVCSource) Modalities() []Modality {
	return []Modality{Left, Right}
}

func (s *UVCSource) Close() error {
	return s.cam.Close()
}
