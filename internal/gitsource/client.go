// Package gitsource fetches a documentation tree from a remote Git
// repository into a temporary workspace so it can be normalized like a
// local directory.
package gitsource

import (
	"log/slog"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
)

// Client clones documentation repositories under a workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a client rooted at workspaceDir. An empty workspaceDir
// makes Clone use a fresh directory under the system temp dir.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// Clone fetches url (optionally a single branch) and returns the checkout
// path. An existing checkout at the target path is removed first so the
// result always reflects the remote head.
func (c *Client) Clone(url, branch string) (string, error) {
	dir := c.workspaceDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "docnorm-src-*")
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryFileSystem, "create workspace directory")
		}
		dir = tmp
	}

	repoPath := filepath.Join(dir, repoDirName(url))
	slog.Debug("Cloning repository", logfields.URL(url), logfields.Branch(branch), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", errors.Wrap(err, errors.CategoryFileSystem, "remove existing checkout")
	}

	opts := &gogit.CloneOptions{URL: url, Depth: 1}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		opts.SingleBranch = true
	}

	repository, err := gogit.PlainClone(repoPath, false, opts)
	if err != nil {
		return "", errors.Wrapf(err, errors.CategoryGit, "clone %s", url)
	}
	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned",
			logfields.URL(url),
			slog.String("commit", shortHash(ref.Hash().String())),
			logfields.Path(repoPath))
	} else {
		slog.Info("Repository cloned", logfields.URL(url), logfields.Path(repoPath))
	}
	return repoPath, nil
}

// Cleanup removes the checkout produced by Clone. Only safe to call with
// paths returned by this client.
func (c *Client) Cleanup(repoPath string) error {
	if repoPath == "" {
		return nil
	}
	if err := os.RemoveAll(repoPath); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "remove checkout")
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

// repoDirName derives a stable directory name from the repository URL.
func repoDirName(url string) string {
	base := filepath.Base(url)
	if ext := filepath.Ext(base); ext == ".git" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "repo"
	}
	return base
}
