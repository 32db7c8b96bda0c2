package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/lesurgeon/lesurgeon/pkg/hub"
)

type AuthCommand struct {
	Dataset string `long:"dataset" description:"Default dataset repo id to store"`
	Task    string `long:"task" description:"Default task description to store"`
	WandB   string `long:"wandb" description:"Weights & Biases entity to store"`
}

// Execute verifies Hugging Face authentication and records run defaults in
// lesurgeon.env. Login itself stays with the HF CLI; we only check and
// persist.
func (c *AuthCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("LeSurgeon Auth"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	user, err := hub.WhoAmI(context.Background())
	if err != nil {
		fatalf("Hugging Face authentication check failed: %v\nRun 'hf auth login' and retry.", err)
	}
	fmt.Printf("Authenticated as %s\n", successStyle.Render(user))

	env, err := hub.LoadEnv(hub.DefaultEnvFile)
	if err != nil {
		fatalf("Error reading %s: %v", hub.DefaultEnvFile, err)
	}
	env.Set(hub.KeyUser, user)

	dataset := c.Dataset
	task := c.Task
	if dataset == "" && env.Get(hub.KeyDataset) == "" {
		promptRunDefaults(user, &dataset, &task)
	}
	if dataset != "" {
		env.Set(hub.KeyDataset, dataset)
	}
	if task != "" {
		env.Set(hub.KeyTask, task)
	}
	if c.WandB != "" {
		env.Set(hub.KeyWandB, c.WandB)
	}

	if err := env.Save(); err != nil {
		fatalf("Error saving %s: %v", hub.DefaultEnvFile, err)
	}

	fmt.Println()
	fmt.Printf("Defaults saved to %s\n", hub.DefaultEnvFile)
	return nil
}

func promptRunDefaults(user string, dataset, task *string) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default dataset repo id").
				Placeholder(user+"/surgical-demo").
				Value(dataset),
			huh.NewInput().
				Title("Default task description").
				Placeholder("Pass the needle through the tissue").
				Value(task),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		return
	}
}
