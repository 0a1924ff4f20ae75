// Package gitdiff implements analysis.CommitDiffProvider against a real
// git repository via pkg/gitlib. It plays the role of the original's
// bettergit abstraction: commit mining, date-bucket sampling, and
// pairwise tree diffing, collapsed into the bin→diff map the co-change
// core consumes.
package gitdiff

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/gitlib"
)

// DateGrouping selects how consecutive commits collapse into a single
// bin. This is entirely the provider's concern; the co-change core only
// ever sees the resulting opaque bin keys.
type DateGrouping int

const (
	None DateGrouping = iota
	Daily
	Weekly
	Monthly
)

// Group returns the canonical bin timestamp for t under this grouping.
func (g DateGrouping) Group(t time.Time) time.Time {
	t = t.UTC()

	switch g {
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Weekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := int(day.Weekday()+6) % 7 // days since Monday

		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

// FileFilter decides whether a path participates in mining. A path must
// match Include and must not match Exclude.
type FileFilter struct {
	Include *regexp.Regexp
	Exclude *regexp.Regexp
}

// AcceptAll returns a filter that matches every path.
func AcceptAll() FileFilter {
	return FileFilter{Include: regexp.MustCompile(`.*`), Exclude: regexp.MustCompile(`a^`)}
}

func (f FileFilter) matches(path string) bool {
	if f.Exclude != nil && f.Exclude.MatchString(path) {
		return false
	}

	if f.Include == nil {
		return true
	}

	return f.Include.MatchString(path)
}

// Options configures one mining run.
type Options struct {
	Branch  string
	Since   time.Time
	Until   time.Time
	Binning DateGrouping
	Files   FileFilter
}

// Provider mines a git repository for grouped commit diffs. It
// implements analysis.CommitDiffProvider.
type Provider struct {
	repo *gitlib.Repository
	opts Options
}

// New constructs a Provider over an already-open repository.
func New(repo *gitlib.Repository, opts Options) *Provider {
	if opts.Files.Include == nil && opts.Files.Exclude == nil {
		opts.Files = AcceptAll()
	}

	return &Provider{repo: repo, opts: opts}
}

// MineDiffs implements analysis.CommitDiffProvider: it walks the
// configured branch, samples one representative commit per bin under
// the configured DateGrouping, and diffs each sampled commit against
// its predecessor.
func (p *Provider) MineDiffs(ctx context.Context) (map[cochange.Bin]cochange.DiffRecord, error) {
	commits, err := p.mineCommits(ctx)
	if err != nil {
		return nil, err
	}

	sampled := sampleCommits(commits, p.opts.Binning)

	return p.diffs(sampled)
}

type sampledCommit struct {
	commit *gitlib.Commit
	group  time.Time
}

// mineCommits walks the configured branch in oldest-first order,
// keeping only commits within [since, until] (both ends inclusive; a
// zero bound is ignored).
func (p *Provider) mineCommits(ctx context.Context) ([]*gitlib.Commit, error) {
	head, err := p.resolveBranch()
	if err != nil {
		return nil, err
	}

	walk, err := p.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cochange.ErrPipelineFailure, err)
	}
	defer walk.Free()

	walk.Sorting(git2go.SortReverse | git2go.SortTime | git2go.SortTopological)

	if pushErr := walk.Push(head); pushErr != nil {
		return nil, fmt.Errorf("%w: %w", cochange.ErrPipelineFailure, pushErr)
	}

	var commits []*gitlib.Commit

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		hash, nextErr := walk.Next()
		if nextErr != nil {
			break
		}

		commit, lookupErr := p.repo.LookupCommit(ctx, hash)
		if lookupErr != nil {
			continue
		}

		when := commit.Author().When
		if !p.opts.Since.IsZero() && when.Before(p.opts.Since) {
			commit.Free()
			continue
		}

		if !p.opts.Until.IsZero() && when.After(p.opts.Until) {
			commit.Free()
			continue
		}

		commits = append(commits, commit)
	}

	return commits, nil
}

func (p *Provider) resolveBranch() (gitlib.Hash, error) {
	if p.opts.Branch == "" {
		h, err := p.repo.Head()
		if err != nil {
			return gitlib.Hash{}, fmt.Errorf("%w: %w", cochange.ErrBranchNotFound, err)
		}

		return h, nil
	}

	h, err := p.repo.LookupBranch(p.opts.Branch)
	if err != nil {
		return gitlib.Hash{}, fmt.Errorf("%w: %w", cochange.ErrBranchNotFound, err)
	}

	return h, nil
}

// sampleCommits keeps the last commit of each DateGrouping bucket, in
// chronological order, mirroring the original's dedup-by-group sampling.
func sampleCommits(commits []*gitlib.Commit, binning DateGrouping) []sampledCommit {
	tagged := make([]sampledCommit, len(commits))
	for i, c := range commits {
		tagged[i] = sampledCommit{commit: c, group: binning.Group(c.Author().When)}
	}

	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].group.Before(tagged[j].group) })

	out := tagged[:0:0]

	for i, t := range tagged {
		if i+1 < len(tagged) && tagged[i+1].group.Equal(t.group) {
			continue
		}

		out = append(out, t)
	}

	return out
}

// diffs computes the pairwise tree diff between consecutive sampled
// commits and keys the result by the child commit's bin.
func (p *Provider) diffs(sampled []sampledCommit) (map[cochange.Bin]cochange.DiffRecord, error) {
	result := make(map[cochange.Bin]cochange.DiffRecord)

	for i := 0; i+1 < len(sampled); i++ {
		parent := sampled[i].commit
		child := sampled[i+1].commit

		parentTree, err := parent.Tree()
		if err != nil {
			continue
		}

		childTree, err := child.Tree()
		if err != nil {
			parentTree.Free()
			continue
		}

		changes, err := gitlib.TreeDiff(p.repo, parentTree, childTree)

		parentTree.Free()
		childTree.Free()

		if err != nil {
			continue
		}

		rec := cochange.DiffRecord{
			Parent: commitMeta(parent),
			Child:  commitMeta(child),
		}

		for _, change := range changes {
			if change.Action != gitlib.Insert && change.From.Name != "" && p.opts.Files.matches(change.From.Name) {
				rec.OldFiles = append(rec.OldFiles, change.From.Name)
			}

			if change.Action != gitlib.Delete && change.To.Name != "" && p.opts.Files.matches(change.To.Name) {
				rec.NewFiles = append(rec.NewFiles, change.To.Name)
			}
		}

		result[cochange.Bin(sampled[i+1].group)] = rec
	}

	return result, nil
}

func commitMeta(c *gitlib.Commit) cochange.CommitMeta {
	sig := c.Author()

	return cochange.CommitMeta{
		Hash:    c.Hash().String(),
		Author:  sig.Name,
		Message: c.Message(),
		When:    sig.When,
	}
}
