// Package zedbridge republishes frames from the ZED stereo depth camera as
// v4l2 loopback devices, so that any OpenCV-style frame grabber (the LeRobot
// recorder included) sees them as ordinary cameras.
//
// Per modality the bridge creates a named pipe, starts an ffmpeg process
// that transcodes raw BGR24 from the pipe onto the loopback device, and runs
// a writer that pushes the most recently grabbed frame at the target rate.
// Frame hand-off and encoding are the pipe's and ffmpeg's problem; nothing
// here buffers beyond the latest frame.
package zedbridge

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Modality names one published view.
type Modality string

const (
	Left  Modality = "left"
	Right Modality = "right"
	Depth Modality = "depth"
)

// Default loopback video numbers per modality, matching the camera
// templates in pkg/cameras.
var DefaultVideoNr = map[Modality]int{
	Left:  10,
	Right: 11,
	Depth: 12,
}

var cardLabels = map[Modality]string{
	Left:  "ZED_Left",
	Right: "ZED_Right",
	Depth: "ZED_Depth",
}

// Options configures a bridge run.
type Options struct {
	Width      int
	Height     int
	FPS        int
	Modalities []Modality
	VideoNr    map[Modality]int // defaults to DefaultVideoNr
	Range      DepthRange       // defaults to SurgicalRange
	PipeDir    string           // defaults to os.TempDir()
	FFmpegPath string           // defaults to "ffmpeg"
	Warnf      func(format string, args ...any)
}

func (o *Options) fill() {
	if o.Width == 0 {
		o.Width = 1280
	}
	if o.Height == 0 {
		o.Height = 720
	}
	if o.FPS == 0 {
		o.FPS = 30
	}
	if len(o.Modalities) == 0 {
		o.Modalities = []Modality{Left, Right, Depth}
	}
	if o.VideoNr == nil {
		o.VideoNr = DefaultVideoNr
	}
	if o.Range == (DepthRange{}) {
		o.Range = SurgicalRange
	}
	if o.PipeDir == "" {
		o.PipeDir = os.TempDir()
	}
	if o.FFmpegPath == "" {
		o.FFmpegPath = "ffmpeg"
	}
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
}

// Bridge is a running set of modality publishers. It is a scoped resource:
// Start claims the pipes, processes and goroutines, and Close releases all
// of them on every exit path. Close is idempotent.
type Bridge struct {
	opts   Options
	src    Source
	cancel context.CancelFunc
	wg     sync.WaitGroup
	pipes  []string
	ffmpeg []*exec.Cmd
	mu     sync.Mutex
	latest *Frames
	closed sync.Once
}

// ffmpegArgs builds the republisher invocation for one modality pipe.
func ffmpegArgs(pipe, device string, width, height, fps int) []string {
	return []string{
		"-f", "rawvideo",
		"-pixel_format", "bgr24",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprint(fps),
		"-i", pipe,
		"-f", "v4l2",
		"-pix_fmt", "yuyv422",
		device,
	}
}

// ModalityReporter is implemented by sources that cannot produce every
// modality. Requested modalities the source does not offer are skipped with
// a warning instead of publishing a dead device.
type ModalityReporter interface {
	Modalities() []Modality
}

// Start brings up the bridge: loopback devices, pipes, ffmpeg republishers,
// one writer per modality, and the grab loop feeding them. The returned
// bridge must be Closed.
func Start(ctx context.Context, src Source, opts Options) (*Bridge, error) {
	opts.fill()

	if mr, ok := src.(ModalityReporter); ok {
		available := mr.Modalities()
		kept := make([]Modality, 0, len(opts.Modalities))
		for _, m := range opts.Modalities {
			if slices.Contains(available, m) {
				kept = append(kept, m)
			} else {
				opts.Warnf("source cannot produce %s, skipping that virtual camera", m)
			}
		}
		opts.Modalities = kept
	}
	if len(opts.Modalities) == 0 {
		return nil, fmt.Errorf("no producible modalities requested")
	}

	nrs := make([]int, 0, len(opts.Modalities))
	labels := make([]string, 0, len(opts.Modalities))
	for _, m := range opts.Modalities {
		nr, ok := opts.VideoNr[m]
		if !ok {
			return nil, fmt.Errorf("no video number for modality %s", m)
		}
		nrs = append(nrs, nr)
		labels = append(labels, cardLabels[m])
	}
	if err := ensureLoopbackDevices(nrs, labels); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	b := &Bridge{opts: opts, src: src, cancel: cancel}

	for _, m := range opts.Modalities {
		pipe := filepath.Join(opts.PipeDir, fmt.Sprintf("zed_%s.pipe", m))
		_ = os.Remove(pipe)
		if err := unix.Mkfifo(pipe, 0o600); err != nil {
			b.Close()
			return nil, fmt.Errorf("mkfifo %s: %w", pipe, err)
		}
		b.pipes = append(b.pipes, pipe)

		device := devicePath(opts.VideoNr[m])
		cmd := exec.CommandContext(ctx, opts.FFmpegPath,
			ffmpegArgs(pipe, device, opts.Width, opts.Height, opts.FPS)...)
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Start(); err != nil {
			b.Close()
			return nil, fmt.Errorf("start ffmpeg for %s: %w", m, err)
		}
		b.ffmpeg = append(b.ffmpeg, cmd)

		// Surface republisher death instead of letting the writer block
		// on a pipe nobody reads. A device index already claimed by
		// another process shows up here as an immediate ffmpeg exit.
		mod, proc := m, cmd
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := proc.Wait(); err != nil && ctx.Err() == nil {
				opts.Warnf("ffmpeg republisher for %s exited: %v (is %s claimed by another process?)",
					mod, err, devicePath(opts.VideoNr[mod]))
			}
		}()

		b.wg.Add(1)
		go b.writeLoop(ctx, mod, pipe)
	}

	b.wg.Add(1)
	go b.grabLoop(ctx)

	return b, nil
}

// Modalities reports the modalities the bridge actually publishes, after
// unproducible ones have been filtered out.
func (b *Bridge) Modalities() []Modality {
	return slices.Clone(b.opts.Modalities)
}

// Devices maps each published modality to its loopback device path.
func (b *Bridge) Devices() map[Modality]string {
	out := make(map[Modality]string, len(b.opts.Modalities))
	for _, m := range b.opts.Modalities {
		out[m] = devicePath(b.opts.VideoNr[m])
	}
	return out
}

// grabLoop pulls frames from the source and keeps only the newest set.
func (b *Bridge) grabLoop(ctx context.Context) {
	defer b.wg.Done()
	for {
		frames, err := b.src.Grab(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.opts.Warnf("frame grab failed: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}
		b.mu.Lock()
		b.latest = frames
		b.mu.Unlock()
	}
}

// writeLoop pushes the last converted frame for one modality into its pipe
// at the target rate. If the producer stalls the previous frame repeats, so
// downstream consumers always see a live device.
func (b *Bridge) writeLoop(ctx context.Context, m Modality, pipe string) {
	defer b.wg.Done()

	f, err := openPipeWriter(ctx, pipe)
	if err != nil {
		if ctx.Err() == nil {
			b.opts.Warnf("open pipe for %s: %v", m, err)
		}
		return
	}
	defer f.Close()

	frameBytes := b.opts.Width * b.opts.Height * 3
	ticker := time.NewTicker(time.Second / time.Duration(b.opts.FPS))
	defer ticker.Stop()

	var frame []byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if next := b.convert(m); next != nil {
			frame = next
		}
		if frame == nil {
			continue // nothing grabbed yet
		}
		if len(frame) != frameBytes {
			b.opts.Warnf("dropping mis-shaped %s frame: %d bytes, want %d", m, len(frame), frameBytes)
			frame = nil
			continue
		}
		if _, err := f.Write(frame); err != nil {
			if ctx.Err() == nil {
				b.opts.Warnf("write %s frame: %v", m, err)
			}
			return
		}
	}
}

// openPipeWriter opens the write side of a fifo without blocking forever
// when the reader never shows up: nonblocking opens are retried until ffmpeg
// opens its end or ctx is done.
func openPipeWriter(ctx context.Context, pipe string) (*os.File, error) {
	for {
		f, err := os.OpenFile(pipe, os.O_WRONLY|unix.O_NONBLOCK, 0)
		if err == nil {
			// Back to blocking writes so the pipe paces the writer.
			if err := unix.SetNonblock(int(f.Fd()), false); err != nil {
				f.Close()
				return nil, err
			}
			return f, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// convert extracts one modality's BGR frame from the latest grab, or nil
// when the modality is not (yet) available.
func (b *Bridge) convert(m Modality) []byte {
	b.mu.Lock()
	frames := b.latest
	b.mu.Unlock()
	if frames == nil {
		return nil
	}
	switch m {
	case Left:
		return frames.Left
	case Right:
		return frames.Right
	case Depth:
		if frames.Depth == nil {
			return nil
		}
		return colorizeDepth(frames.Depth, b.opts.Range)
	}
	return nil
}

// Close tears the bridge down: stops the loops, kills the republishers,
// removes the pipes and attempts to unload the loopback module. Safe to
// call multiple times and from any exit path.
func (b *Bridge) Close() error {
	b.closed.Do(func() {
		b.cancel()
		for _, cmd := range b.ffmpeg {
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		}
		b.wg.Wait()
		for _, pipe := range b.pipes {
			_ = os.Remove(pipe)
		}
		if b.src != nil {
			_ = b.src.Close()
		}
		unloadLoopbackModule()
	})
	return nil
}
