package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/lesurgeon/lesurgeon/pkg/lerobot"
)

type ReplayCommand struct {
	Dataset string `long:"dataset" description:"HF dataset repo id (default from lesurgeon.env)"`
	Episode int    `long:"episode" default:"0" description:"Episode index to replay"`
}

// Execute replays a recorded episode on the follower arm. Only the follower
// is needed; the leader stays passive.
func (c *ReplayCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, _ := fillRunDefaults(c.Dataset, "-")

	cfg := loadConfigOrDefault()
	res := resolveArms(ctx, cfg)

	rig := buildRig(res, nil)
	return lerobot.Run(ctx, lerobot.ReplayTool, rig.ReplayArgs(dataset, c.Episode))
}

type VisualizeCommand struct {
	Dataset string `long:"dataset" description:"HF dataset repo id (default from lesurgeon.env)"`
	Episode int    `long:"episode" default:"0" description:"Episode index to visualize"`
}

// Execute opens the LeRobot dataset visualizer. No hardware involved.
func (c *VisualizeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, _ := fillRunDefaults(c.Dataset, "-")
	return lerobot.Run(ctx, lerobot.DatasetVizTool, lerobot.VisualizeArgs(dataset, c.Episode))
}
