package hub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNotAuthenticated is returned when the Hugging Face CLI reports no
// logged-in user. Remediation is manual: `hf auth login`.
var ErrNotAuthenticated = errors.New("not authenticated with Hugging Face")

// hfTool is the Hugging Face CLI binary.
const hfTool = "hf"

// WhoAmI asks the Hugging Face CLI for the logged-in username. Empty or
// failed output means the operator has to (re)authenticate.
func WhoAmI(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, hfTool, "auth", "whoami").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	user := firstField(string(out))
	if user == "" {
		return "", ErrNotAuthenticated
	}
	return user, nil
}

// firstField extracts the username from whoami output, which prints the
// username on its own line ahead of org details.
func firstField(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return strings.Fields(line)[0]
		}
	}
	return ""
}

// Upload pushes a local model or dataset directory to the Hub via the HF
// CLI, with stdio attached so progress is visible.
func Upload(ctx context.Context, repo, localPath string) error {
	cmd := exec.CommandContext(ctx, hfTool, "upload", repo, localPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hf upload: %w", err)
	}
	return nil
}
