package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/lesurgeon/lesurgeon/pkg/hub"
)

type UploadCommand struct {
	Repo string `long:"repo" required:"true" description:"Target HF repo id"`
	Path string `long:"path" default:"." description:"Local directory to upload"`
}

// Execute pushes a local model checkpoint or dataset directory to the Hub.
// Network transfer, auth and resumption are the HF CLI's business.
func (c *UploadCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := hub.WhoAmI(ctx); err != nil {
		fatalf("Not authenticated: %v\nRun 'hf auth login' first.", err)
	}

	return hub.Upload(ctx, c.Repo, c.Path)
}
