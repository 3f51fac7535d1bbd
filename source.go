package pydock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"go.uber.org/zap"
)

// TagSource yields the tag names of an upstream repository.
type TagSource interface {
	// Prepare makes the source ready to list tags (e.g. clones on first use).
	Prepare(ctx context.Context) error

	// Tags returns short tag names ("v3.9.1"), in source order.
	Tags(ctx context.Context) ([]string, error)
}

// NewTagSource returns the TagSource for mode.
func NewTagSource(mode SourceMode, url, cloneDir string, log *zap.Logger) TagSource {
	switch mode {
	case ModeRemote:
		return &RemoteSource{URL: url, Log: log}
	default:
		return &CloneSource{URL: url, Dir: cloneDir, Log: log}
	}
}

// * remote listing

// RemoteSource lists tags with a single ls-remote style request.
type RemoteSource struct {
	URL string
	Log *zap.Logger
}

// Prepare is a no-op: nothing is kept locally.
func (s *RemoteSource) Prepare(context.Context) error {
	return nil
}

// Tags lists refs/tags/* on the remote; peeled "^{}" entries are dropped.
func (s *RemoteSource) Tags(ctx context.Context) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{s.URL},
	})

	logger(s.Log).Debug("listing remote tags", zap.String("url", s.URL))

	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.URL, err)
	}

	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if name, ok := tagName(ref.Name()); ok {
			out = append(out, name)
		}
	}

	return out, nil
}

// * persistent clone

// CloneSource keeps a bare clone in Dir and refreshes its tags on Prepare.
type CloneSource struct {
	URL string
	Dir string
	Log *zap.Logger

	repo *git.Repository
}

// Prepare opens the clone in Dir, or creates it when absent, then fetches all tags.
func (s *CloneSource) Prepare(ctx context.Context) error {
	log := logger(s.Log).With(zap.String("url", s.URL), zap.String("dir", s.Dir))

	repo, err := git.PlainOpen(s.Dir)
	switch {
	case err == nil:
		log.Info("fetching tags into existing clone")
		err = repo.FetchContext(ctx, &git.FetchOptions{
			RemoteName: git.DefaultRemoteName,
			RemoteURL:  s.URL,
			Tags:       git.AllTags,
			Force:      true,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("fetch %s: %w", s.URL, err)
		}

	case errors.Is(err, git.ErrRepositoryNotExists):
		log.Info("cloning repository")
		repo, err = git.PlainCloneContext(ctx, s.Dir, true, &git.CloneOptions{
			URL:  s.URL,
			Tags: git.AllTags,
		})
		if err != nil {
			return fmt.Errorf("clone %s: %w", s.URL, err)
		}

	default:
		return fmt.Errorf("open clone %s: %w", s.Dir, err)
	}

	s.repo = repo
	return nil
}

// Tags reads tag refs from the clone, preparing it first if needed.
func (s *CloneSource) Tags(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		if err := s.Prepare(ctx); err != nil {
			return nil, err
		}
	}

	iter, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("read tags in %s: %w", s.Dir, err)
	}
	defer iter.Close()

	var out []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if name, ok := tagName(ref.Name()); ok {
			out = append(out, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags in %s: %w", s.Dir, err)
	}

	return out, nil
}

// tagName returns the short name of a tag ref, skipping peeled entries.
func tagName(n plumbing.ReferenceName) (string, bool) {
	if !n.IsTag() {
		return "", false
	}

	short := n.Short()
	if strings.HasSuffix(short, "^{}") {
		return "", false
	}

	return short, true
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}

	return l
}
