package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/lesurgeon/lesurgeon/pkg/cameras"
	"github.com/lesurgeon/lesurgeon/pkg/zedbridge"
)

type BridgeCommand struct {
	FPS      int `long:"fps" default:"30" description:"Virtual camera frame rate"`
	DepthMin int `long:"depth-min" default:"200" description:"Near depth clipping bound in mm"`
	DepthMax int `long:"depth-max" default:"500" description:"Far depth clipping bound in mm"`
}

// Execute runs the bridge on its own, for debugging the virtual cameras
// without touching the arms. Ctrl+C tears everything down.
func (c *BridgeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBridge(ctx, c.FPS, c.DepthMin, c.DepthMax)
	if err != nil {
		fatalf("ZED bridge failed: %v", err)
	}
	defer b.Close()

	fmt.Println(successStyle.Render("ZED virtual cameras up:"))
	devices := b.Devices()
	for _, m := range []zedbridge.Modality{zedbridge.Left, zedbridge.Right, zedbridge.Depth} {
		if dev, ok := devices[m]; ok {
			fmt.Printf("  %-5s → %s\n", m, dev)
		}
	}
	fmt.Println(dimStyle.Render("Press Ctrl+C to stop"))

	<-ctx.Done()
	return nil
}

// openBridge finds the physical ZED and starts the virtual camera bridge
// against it.
func openBridge(ctx context.Context, fps, depthMin, depthMax int) (*zedbridge.Bridge, error) {
	device, err := cameras.FindZEDDevice()
	if err != nil {
		return nil, fmt.Errorf("locate ZED capture device: %w", err)
	}

	if fps <= 0 {
		fps = 30
	}
	src, err := zedbridge.OpenUVC(device, 1280, 720, fps)
	if err != nil {
		return nil, fmt.Errorf("open ZED stream: %w", err)
	}

	opts := zedbridge.Options{FPS: fps, Warnf: warnf}
	if depthMin > 0 && depthMax > depthMin {
		opts.Range = zedbridge.DepthRange{NearMM: uint16(depthMin), FarMM: uint16(depthMax)}
	}
	b, err := zedbridge.Start(ctx, src, opts)
	if err != nil {
		src.Close()
		return nil, err
	}
	return b, nil
}
