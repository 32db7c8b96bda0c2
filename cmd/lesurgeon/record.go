package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/lesurgeon/lesurgeon/pkg/cameras"
	"github.com/lesurgeon/lesurgeon/pkg/hub"
	"github.com/lesurgeon/lesurgeon/pkg/lerobot"
)

type RecordCommand struct {
	Dataset     string `long:"dataset" description:"HF dataset repo id (default from lesurgeon.env)"`
	Task        string `long:"task" description:"Task description stored with each episode"`
	NumEpisodes int    `long:"episodes" default:"10" description:"Number of episodes to record"`
	EpisodeSecs int    `long:"episode-secs" default:"60" description:"Per-episode recording time"`
	ResetSecs   int    `long:"reset-secs" default:"15" description:"Environment reset time between episodes"`
	Resume      bool   `long:"resume" description:"Append to an existing dataset"`
	NoBridge    bool   `long:"no-bridge" description:"Skip the ZED virtual camera bridge"`
	DepthMin    int    `long:"depth-min" default:"200" description:"Near depth clipping bound in mm"`
	DepthMax    int    `long:"depth-max" default:"500" description:"Far depth clipping bound in mm"`
}

func (c *RecordCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, task := fillRunDefaults(c.Dataset, c.Task)

	cfg := loadConfigOrDefault()
	res := resolveArms(ctx, cfg)
	setup := detectCameras()
	fmt.Printf("Cameras: %s\n", setup.Description)

	if !c.NoBridge && setup.Mode != cameras.ModeWristOnly {
		bridge := startZEDBridge(ctx, c.DepthMin, c.DepthMax)
		if bridge != nil {
			defer bridge.Close()
		}
	}

	rig := buildRig(res, setup)
	return lerobot.Run(ctx, lerobot.RecordTool, rig.RecordArgs(lerobot.RecordOptions{
		Dataset:     dataset,
		Task:        task,
		NumEpisodes: c.NumEpisodes,
		EpisodeSecs: c.EpisodeSecs,
		ResetSecs:   c.ResetSecs,
		Resume:      c.Resume,
	}))
}

type InferenceCommand struct {
	Policy   string `long:"policy" required:"true" description:"Path or HF repo id of the trained policy"`
	Dataset  string `long:"dataset" description:"Eval dataset repo id (default: eval_ + DATASET_REPO)"`
	Task     string `long:"task" description:"Task description"`
	Episodes int    `long:"episodes" default:"5" description:"Number of eval rollouts"`
	DepthMin int    `long:"depth-min" default:"200" description:"Near depth clipping bound in mm"`
	DepthMax int    `long:"depth-max" default:"500" description:"Far depth clipping bound in mm"`
}

func (c *InferenceCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, task := fillRunDefaults(c.Dataset, c.Task)
	if c.Dataset == "" {
		dataset = evalDatasetName(dataset)
	}

	cfg := loadConfigOrDefault()
	res := resolveArms(ctx, cfg)
	setup := detectCameras()

	bridge := startZEDBridge(ctx, c.DepthMin, c.DepthMax)
	if bridge != nil {
		defer bridge.Close()
	}

	rig := buildRig(res, setup)
	return lerobot.Run(ctx, lerobot.RecordTool, rig.RecordArgs(lerobot.RecordOptions{
		Dataset:     dataset,
		Task:        task,
		NumEpisodes: c.Episodes,
		PolicyPath:  c.Policy,
	}))
}

// evalDatasetName derives the eval dataset id from the training dataset id,
// keeping the user prefix: user/name -> user/eval_name.
func evalDatasetName(dataset string) string {
	for i, r := range dataset {
		if r == '/' {
			return dataset[:i+1] + "eval_" + dataset[i+1:]
		}
	}
	return "eval_" + dataset
}

// fillRunDefaults backfills dataset and task from lesurgeon.env, failing
// closed when neither the flag nor the file provides a dataset.
func fillRunDefaults(dataset, task string) (string, string) {
	env, err := hub.LoadEnv(hub.DefaultEnvFile)
	if err != nil {
		fatalf("Error reading %s: %v", hub.DefaultEnvFile, err)
	}
	if dataset == "" {
		dataset = env.Get(hub.KeyDataset)
	}
	if task == "" {
		task = env.Get(hub.KeyTask)
	}
	if dataset == "" {
		fatalf("No dataset configured. Pass --dataset or set %s via 'lesurgeon auth'.", hub.KeyDataset)
	}
	if task == "" {
		task = "Surgical manipulation task"
	}
	return dataset, task
}
