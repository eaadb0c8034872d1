// Package fetch materializes git sources on disk.
//
// GitHub-style URLs go through the cache: the repository is mirrored bare
// into db/{owner}-{repo}, the requested reference is resolved against the
// mirror, and a working tree for that commit is created once under
// checkouts/{owner}-{repo}-{commit}. Other URLs are cloned into a temporary
// directory that the caller releases with Result.Close.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/sirupsen/logrus"

	"github.com/samhoang/skilo/internal/cache"
	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/logger"
	"github.com/samhoang/skilo/internal/source"
)

var mirrorRefSpecs = []config.RefSpec{
	"+refs/heads/*:refs/heads/*",
	"+refs/tags/*:refs/tags/*",
}

// Result describes a fetched source. Exactly one of CheckoutDir and TempDir
// is set. Root is that directory, joined with the requested subdirectory.
type Result struct {
	Root        string
	CheckoutDir string
	TempDir     string
	FromCache   bool
	Commit      string
}

// ShortCommit returns the abbreviated commit id
func (r *Result) ShortCommit() string {
	if len(r.Commit) > 7 {
		return r.Commit[:7]
	}
	return r.Commit
}

// Close removes the temporary clone. Cached checkouts are left in place.
func (r *Result) Close() error {
	if r == nil || r.TempDir == "" {
		return nil
	}
	err := os.RemoveAll(r.TempDir)
	r.TempDir = ""
	return err
}

// Fetcher fetches git sources through the cache
type Fetcher struct {
	store *cache.Store

	// ownerRepo keys a URL into the cache; replaced in tests
	ownerRepo func(url string) (owner, repo string, ok bool)
	// sshURL derives the SSH retry URL; replaced in tests
	sshURL func(url string) (string, bool)

	cloneMirror func(ctx context.Context, url, dest string) (*git.Repository, error)
	fetchMirror func(ctx context.Context, repo *git.Repository, url string) error
}

// New creates a Fetcher over the given cache configuration
func New(cfg cache.Config) *Fetcher {
	return &Fetcher{
		store:     cache.NewStore(cfg),
		ownerRepo: source.OwnerRepo,
		sshURL:    source.SSHURL,

		cloneMirror: cloneMirror,
		fetchMirror: fetchMirror,
	}
}

// Store returns the underlying cache store
func (f *Fetcher) Store() *cache.Store {
	return f.store
}

// Fetch resolves a git descriptor to a directory on disk
func (f *Fetcher) Fetch(ctx context.Context, src source.Descriptor) (*Result, error) {
	if src.Kind != source.KindGit {
		return nil, skiloerrors.NewGitf("not a git source: %s", src.DisplayName())
	}

	if owner, repo, ok := f.ownerRepo(src.URL); ok {
		return f.fetchCached(ctx, src, owner, repo)
	}
	return f.fetchTemp(ctx, src)
}

func (f *Fetcher) fetchCached(ctx context.Context, src source.Descriptor, owner, repo string) (*Result, error) {
	log := logger.G(ctx).WithFields(logrus.Fields{"owner": owner, "repo": repo})

	if err := f.store.EnsureDirs(); err != nil {
		return nil, skiloerrors.NewIo(f.store.Config().DBDir, err)
	}

	mirror, err := f.openOrCloneMirror(ctx, log, src.URL, owner, repo)
	if err != nil {
		return nil, err
	}

	hash, err := resolveReference(mirror, src.Reference())
	if err != nil {
		return nil, err
	}
	commit := hash.String()
	log = log.WithField("commit", commit)

	checkoutPath := f.store.CheckoutPath(owner, repo, commit)
	if f.store.HasCheckout(owner, repo, commit) {
		log.Debug("reusing checkout")
	} else {
		log.WithField("path", checkoutPath).Debug("creating checkout")
		if err := checkoutFromMirror(ctx, f.store.DBPath(owner, repo), hash, checkoutPath); err != nil {
			return nil, err
		}
	}

	root, err := resolveRoot(checkoutPath, src)
	if err != nil {
		return nil, err
	}

	return &Result{
		Root:        root,
		CheckoutDir: checkoutPath,
		FromCache:   true,
		Commit:      commit,
	}, nil
}

func (f *Fetcher) openOrCloneMirror(ctx context.Context, log *logrus.Entry, url, owner, repo string) (*git.Repository, error) {
	dbPath := f.store.DBPath(owner, repo)

	if f.store.HasDB(owner, repo) {
		mirror, err := git.PlainOpen(dbPath)
		if err == nil {
			if f.store.IsOffline() {
				log.Debug("offline, using cached mirror as is")
				return mirror, nil
			}

			log.Debug("fetching mirror updates")
			err = f.fetchMirror(ctx, mirror, url)
			if errors.Is(err, skiloerrors.ErrAuthenticationFailed) {
				if sshURL, ok := f.sshURL(url); ok {
					log.WithField("url", sshURL).Warn("HTTPS auth failed, retrying fetch with SSH")
					err = f.fetchMirror(ctx, mirror, sshURL)
				}
			}
			if err != nil {
				return nil, err
			}
			return mirror, nil
		}

		// leftover from an interrupted clone
		log.WithError(err).Debug("cached mirror unreadable, recloning")
		if f.store.IsOffline() {
			return nil, skiloerrors.NewNetwork(fmt.Sprintf("Cached repository is unreadable and offline mode is enabled: %v", err))
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return nil, skiloerrors.NewIo(dbPath, err)
		}
	} else if f.store.IsOffline() {
		return nil, skiloerrors.NewNetwork("Repository not in cache and offline mode is enabled")
	}

	log.WithField("path", dbPath).Debug("cloning mirror")
	mirror, err := f.cloneMirror(ctx, url, dbPath)
	if errors.Is(err, skiloerrors.ErrAuthenticationFailed) {
		if sshURL, ok := f.sshURL(url); ok {
			log.WithField("url", sshURL).Warn("HTTPS auth failed, retrying clone with SSH")
			_ = os.RemoveAll(dbPath)
			mirror, err = f.cloneMirror(ctx, sshURL, dbPath)
		}
	}
	if err != nil {
		_ = os.RemoveAll(dbPath)
		return nil, err
	}
	return mirror, nil
}

func cloneMirror(ctx context.Context, url, dest string) (*git.Repository, error) {
	repo, err := git.PlainCloneContext(ctx, dest, true, &git.CloneOptions{
		URL:    url,
		Auth:   authFor(url),
		Mirror: true,
		Tags:   git.AllTags,
	})
	if err != nil {
		return nil, Classify(err, url)
	}
	return repo, nil
}

func fetchMirror(ctx context.Context, repo *git.Repository, url string) error {
	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		RemoteURL:  url,
		RefSpecs:   mirrorRefSpecs,
		Auth:       authFor(url),
		Tags:       git.AllTags,
		Force:      true,
	})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return Classify(err, url)
}

// resolveReference maps a branch, tag, ref name or commit id to a commit.
// Without a reference HEAD is used, then main, then master.
func resolveReference(repo *git.Repository, ref string) (plumbing.Hash, error) {
	if ref == "" {
		return resolveHead(repo)
	}

	// local branches live under refs/heads in a mirror
	candidates := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(ref),
		plumbing.NewTagReferenceName(ref),
		plumbing.ReferenceName(ref),
	}
	for _, name := range candidates {
		if r, err := repo.Reference(name, true); err == nil {
			return peelToCommit(repo, r.Hash())
		}
	}

	if isHex(ref) && len(ref) >= 4 {
		if hash, err := repo.ResolveRevision(plumbing.Revision(ref)); err == nil {
			return peelToCommit(repo, *hash)
		}
	}

	return plumbing.ZeroHash, skiloerrors.NewGitf("Reference '%s' not found", ref)
}

func resolveHead(repo *git.Repository) (plumbing.Hash, error) {
	var lastErr error
	for _, name := range []plumbing.ReferenceName{plumbing.HEAD, "refs/heads/main", "refs/heads/master"} {
		r, err := repo.Reference(name, true)
		if err == nil {
			return peelToCommit(repo, r.Hash())
		}
		lastErr = err
	}
	return plumbing.ZeroHash, skiloerrors.NewGitf("Failed to find HEAD: %v", lastErr)
}

// peelToCommit follows annotated tags down to the commit they point at
func peelToCommit(repo *git.Repository, hash plumbing.Hash) (plumbing.Hash, error) {
	if tag, err := repo.TagObject(hash); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, skiloerrors.NewGitf("Tag %s does not point to a commit: %v", tag.Name, err)
		}
		return commit.Hash, nil
	}
	if _, err := repo.CommitObject(hash); err != nil {
		return plumbing.ZeroHash, skiloerrors.NewGitf("Commit not found: %s", hash)
	}
	return hash, nil
}

// checkoutFromMirror clones the local mirror into dest and checks out hash
// with a detached HEAD. A failed attempt leaves nothing behind so the next
// run starts clean.
func checkoutFromMirror(ctx context.Context, mirrorPath string, hash plumbing.Hash, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return skiloerrors.NewIo(dest, err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(dest)
		}
	}()

	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:        mirrorPath,
		NoCheckout: true,
		Tags:       git.AllTags,
	})
	if err != nil {
		return skiloerrors.NewGitf("Failed to checkout: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return skiloerrors.NewGitf("Failed to open checkout: %v", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return skiloerrors.NewGitf("Failed to checkout tree: %v", err)
	}
	return nil
}

// fetchTemp clones a non-keyable URL into a temporary directory. Shallow
// clones are only used when no reference was requested.
func (f *Fetcher) fetchTemp(ctx context.Context, src source.Descriptor) (*Result, error) {
	log := logger.G(ctx).WithField("url", src.URL)

	if f.store.IsOffline() {
		return nil, skiloerrors.NewNetwork("Cannot fetch non-cached repository in offline mode")
	}

	tempDir, err := os.MkdirTemp("", "skilo-")
	if err != nil {
		return nil, skiloerrors.NewIo(os.TempDir(), err)
	}
	result := &Result{TempDir: tempDir}

	opts := &git.CloneOptions{
		URL:  src.URL,
		Auth: authFor(src.URL),
	}
	switch {
	case src.Branch != "":
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		opts.SingleBranch = true
	case src.Tag != "":
		opts.ReferenceName = plumbing.NewTagReferenceName(src.Tag)
		opts.SingleBranch = true
	default:
		opts.Depth = 1
	}

	log.WithField("path", tempDir).Debug("cloning into temporary directory")
	repo, err := git.PlainCloneContext(ctx, tempDir, false, opts)
	if err != nil {
		_ = result.Close()
		return nil, Classify(err, src.URL)
	}

	if head, err := repo.Head(); err == nil {
		result.Commit = head.Hash().String()
	}

	root, err := resolveRoot(tempDir, src)
	if err != nil {
		_ = result.Close()
		return nil, err
	}
	result.Root = root
	return result, nil
}

func resolveRoot(dir string, src source.Descriptor) (string, error) {
	if src.Subdir == "" {
		return dir, nil
	}
	root := filepath.Join(dir, filepath.FromSlash(src.Subdir))
	if _, err := os.Stat(root); err != nil {
		return "", skiloerrors.NewInvalidSource(src.URL, fmt.Sprintf("Subdirectory '%s' not found in repository", src.Subdir))
	}
	return root, nil
}

// authFor returns SSH agent auth for SSH URLs. HTTPS uses anonymous access;
// an authentication failure there triggers the SSH retry.
func authFor(url string) transport.AuthMethod {
	ep, err := transport.NewEndpoint(url)
	if err != nil || ep.Protocol != "ssh" {
		return nil
	}
	user := ep.User
	if user == "" {
		user = "git"
	}
	auth, err := ssh.NewSSHAgentAuth(user)
	if err != nil {
		return nil
	}
	return auth
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return s != ""
}
