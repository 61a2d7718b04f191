// Package vcs reports version-control status for an opened directory.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type Provider interface {
	Status(ctx context.Context, path string) (*Status, error)
}

// Status is sent to the view as-is.
type Status struct {
	Path          string   `json:"path"`
	Repository    bool     `json:"repository"`
	Branch        string   `json:"branch,omitempty"`
	CurrentCommit string   `json:"commit,omitempty"`
	Clean         bool     `json:"clean"`
	Modified      []string `json:"modified,omitempty"`
	Added         []string `json:"added,omitempty"`
	Deleted       []string `json:"deleted,omitempty"`
	Renamed       []string `json:"renamed,omitempty"`
	Untracked     []string `json:"untracked,omitempty"`
}

// Git shells out to the git binary.
type Git struct {
	binary string
}

func NewGit(binary string) *Git {
	if binary == "" {
		binary = "git"
	}
	return &Git{binary: binary}
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.binary, append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Status returns a non-repository status, not an error, for plain directories.
func (g *Git) Status(ctx context.Context, path string) (*Status, error) {
	if _, err := exec.LookPath(g.binary); err != nil {
		return nil, fmt.Errorf("git binary %q not available: %w", g.binary, err)
	}

	inside, err := g.run(ctx, path, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(inside) != "true" {
		return &Status{Path: path, Clean: true}, nil
	}

	branch, err := g.run(ctx, path, "branch", "--show-current")
	if err != nil {
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}

	porcelain, err := g.run(ctx, path, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	status := ParsePorcelain(porcelain)
	status.Path = path
	status.Repository = true
	status.Branch = strings.TrimSpace(branch)

	// A repository without commits has no HEAD yet.
	if commit, err := g.run(ctx, path, "rev-parse", "HEAD"); err == nil {
		status.CurrentCommit = strings.TrimSpace(commit)
	}

	return status, nil
}

// ParsePorcelain reads `git status --porcelain` (v1) output.
func ParsePorcelain(out string) *Status {
	status := &Status{}

	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}

		code := line[:2]
		file := strings.TrimSpace(line[3:])

		switch {
		case code == "??":
			status.Untracked = append(status.Untracked, file)
		case strings.Contains(code, "R"):
			if _, to, ok := strings.Cut(file, " -> "); ok {
				file = to
			}
			status.Renamed = append(status.Renamed, file)
		case strings.Contains(code, "A"):
			status.Added = append(status.Added, file)
		case strings.Contains(code, "D"):
			status.Deleted = append(status.Deleted, file)
		case strings.Contains(code, "M"):
			status.Modified = append(status.Modified, file)
		}
	}

	status.Clean = len(status.Modified) == 0 && len(status.Added) == 0 &&
		len(status.Deleted) == 0 && len(status.Renamed) == 0 && len(status.Untracked) == 0
	return status
}
