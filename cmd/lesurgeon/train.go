package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/lesurgeon/lesurgeon/pkg/hub"
	"github.com/lesurgeon/lesurgeon/pkg/lerobot"
)

type TrainCommand struct {
	Dataset   string `long:"dataset" description:"HF dataset repo id (default from lesurgeon.env)"`
	Policy    string `long:"policy" default:"act" choice:"act" choice:"diffusion" description:"Policy architecture"`
	OutputDir string `long:"output-dir" default:"outputs/train" description:"Checkpoint directory"`
	JobName   string `long:"job-name" description:"Run name for logs and W&B"`
	Device    string `long:"device" default:"cuda" description:"Training device"`
	NoWandB   bool   `long:"no-wandb" description:"Disable Weights & Biases logging"`
}

// Execute forwards to lerobot-train. Training needs no hardware attached,
// so no port or camera resolution happens here.
func (c *TrainCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, _ := fillRunDefaults(c.Dataset, "-")

	wandb := !c.NoWandB
	if wandb {
		env, err := hub.LoadEnv(hub.DefaultEnvFile)
		if err == nil && env.Get(hub.KeyWandB) == "" {
			warnf("No %s in %s; W&B logging disabled.", hub.KeyWandB, hub.DefaultEnvFile)
			wandb = false
		}
	}

	return lerobot.Run(ctx, lerobot.TrainTool, lerobot.TrainArgs(lerobot.TrainOptions{
		Dataset:     dataset,
		Policy:      c.Policy,
		OutputDir:   c.OutputDir,
		JobName:     c.JobName,
		Device:      c.Device,
		WandBEnable: wandb,
	}))
}
