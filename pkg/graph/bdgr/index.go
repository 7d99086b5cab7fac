// Package bdgr implements the graph.Index interface on a badger
// key value store.
package bdgr

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	badger "github.com/dgraph-io/badger/v4"
	jsoniter "github.com/json-iterator/go"
)

const (
	userPref      = "u:"
	repoPref      = "r:"
	ownedPref     = "o:"
	contribByUser = "cu:"
	contribByRepo = "cr:"
	resourcePref  = "res:"
	branchPref    = "br:"
	versionPref   = "ver:"
	headPref      = "head:"
	nextPref      = "next:"
	keySep        = ":"
	presentMarker = "1"
)

func makeBadgerDb(dir string) (*badger.DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return badger.Open(opts)
}

// New creates a badger based asset graph index rooted at baseDir
func New(baseDir string) graph.Index {
	return &index{
		baseDir: baseDir,
	}
}

type index struct {
	baseDir string
	db      *badger.DB
	init    sync.Once
	close   sync.Once
}

func (x *index) Initialize() error {
	var err error
	x.init.Do(func() {
		var db *badger.DB
		db, err = makeBadgerDb(x.baseDir)
		if err != nil {
			return
		}
		x.db = db
	})
	return err
}

func (x *index) Close() error {
	var err error
	x.close.Do(func() {
		if x.db != nil {
			err = x.db.Close()
			if err == nil {
				x.db = nil
			}
		}
	})
	return err
}

func badgerRewriteError(err, notFound error) error {
	switch err {
	case badger.ErrKeyNotFound:
		return notFound
	case badger.ErrEmptyKey:
		return graph.NameIsRequired
	default:
		return err
	}
}

func badgerRewriteVersionError(item *badger.Item, err error) (graph.VersionRef, error) {
	if err != nil {
		return graph.VersionRef{}, badgerRewriteError(err, graph.VersionNotFound)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return graph.VersionRef{}, badgerRewriteError(err, graph.VersionNotFound)
	}
	var result graph.VersionRef
	if e := jsoniter.Unmarshal(data, &result); e != nil {
		return graph.VersionRef{}, fmt.Errorf("json unmarshal failed: %v", e)
	}
	return result, nil
}

func userKey(username string) []byte {
	return []byte(userPref + username)
}

func repoKey(repo string) []byte {
	return []byte(repoPref + repo)
}

func ownedKey(username, repo string) []byte {
	return []byte(ownedPref + username + keySep + repo)
}

func contribUserKey(username, repo string) []byte {
	return []byte(contribByUser + username + keySep + repo)
}

func contribRepoKey(repo, username string) []byte {
	return []byte(contribByRepo + repo + keySep + username)
}

func resourceKey(repo, resource string) []byte {
	return []byte(resourcePref + repo + keySep + resource)
}

func branchKey(key model.BranchKey) []byte {
	return []byte(branchPref + key.Repository + keySep + key.Resource + keySep + key.Branch)
}

func versionKey(repo, resource, version string) []byte {
	return []byte(versionPref + repo + keySep + resource + keySep + version)
}

func headKey(key model.BranchKey) []byte {
	return []byte(headPref + key.Repository + keySep + key.Resource + keySep + key.Branch)
}

func nextKey(repo, resource, version string) []byte {
	return []byte(nextPref + repo + keySep + resource + keySep + version)
}

func (x *index) has(key []byte) (bool, error) {
	found := false
	verr := x.db.View(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		found = true
		return nil
	})
	return found, verr
}

func (x *index) listKeys(pref []byte) ([]string, error) {
	var result []string
	verr := x.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		for it.Seek(pref); it.ValidForPrefix(pref); it.Next() {
			item := it.Item()
			result = append(result, string(item.Key()[len(pref):]))
		}
		it.Close()
		return nil
	})
	if verr != nil {
		return nil, verr
	}
	return result, nil
}

func (x *index) EnsureUser(ctx context.Context, username string) error {
	if username == "" {
		return graph.NameIsRequired
	}
	return x.db.Update(func(tx *badger.Txn) error {
		return tx.Set(userKey(username), []byte(presentMarker))
	})
}

func (x *index) HasUser(ctx context.Context, username string) (bool, error) {
	return x.has(userKey(username))
}

func (x *index) CreateRepository(ctx context.Context, repo, owner string) error {
	if repo == "" || owner == "" {
		return graph.NameIsRequired
	}
	return x.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(userKey(owner)); err != nil {
			return badgerRewriteError(err, graph.UserNotFound)
		}
		_, err := tx.Get(repoKey(repo))
		if err == nil {
			return graph.RepoAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		data, err := jsoniter.Marshal(graph.RepoRef{
			Name:      repo,
			Owner:     owner,
			Timestamp: model.GetVersionTimeStamp().String(),
		})
		if err != nil {
			return err
		}
		if err := tx.Set(repoKey(repo), data); err != nil {
			return err
		}
		return tx.Set(ownedKey(owner, repo), []byte(presentMarker))
	})
}

func (x *index) GetRepository(ctx context.Context, repo string) (graph.RepoRef, error) {
	var ref graph.RepoRef
	verr := x.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(repoKey(repo))
		if err != nil {
			return badgerRewriteError(err, graph.RepoNotFound)
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return jsoniter.Unmarshal(data, &ref)
	})
	if verr != nil {
		return graph.RepoRef{}, verr
	}
	return ref, nil
}

func (x *index) HasRepository(ctx context.Context, repo string) (bool, error) {
	return x.has(repoKey(repo))
}

func (x *index) AddContributor(ctx context.Context, repo, username string) error {
	return x.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(repoKey(repo)); err != nil {
			return badgerRewriteError(err, graph.RepoNotFound)
		}
		if _, err := tx.Get(userKey(username)); err != nil {
			return badgerRewriteError(err, graph.UserNotFound)
		}
		if err := tx.Set(contribUserKey(username, repo), []byte(presentMarker)); err != nil {
			return err
		}
		return tx.Set(contribRepoKey(repo, username), []byte(presentMarker))
	})
}

func (x *index) HasAccess(ctx context.Context, repo, username string) (bool, error) {
	ref, err := x.GetRepository(ctx, repo)
	if err != nil {
		return false, err
	}
	if ref.Owner == username {
		return true, nil
	}
	return x.has(contribRepoKey(repo, username))
}

func (x *index) ListRepositoriesOwned(ctx context.Context, username string) ([]string, error) {
	return x.listKeys([]byte(ownedPref + username + keySep))
}

func (x *index) ListRepositoriesContributed(ctx context.Context, username string) ([]string, error) {
	return x.listKeys([]byte(contribByUser + username + keySep))
}

func (x *index) CreateResource(ctx context.Context, repo, resource string) error {
	return x.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(repoKey(repo)); err != nil {
			return badgerRewriteError(err, graph.RepoNotFound)
		}
		_, err := tx.Get(resourceKey(repo, resource))
		if err == nil {
			return graph.ResourceAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return tx.Set(resourceKey(repo, resource), []byte(presentMarker))
	})
}

func (x *index) HasResource(ctx context.Context, repo, resource string) (bool, error) {
	return x.has(resourceKey(repo, resource))
}

func (x *index) ListResources(ctx context.Context, repo string) ([]string, error) {
	return x.listKeys([]byte(resourcePref + repo + keySep))
}

func (x *index) CreateBranch(ctx context.Context, key model.BranchKey) error {
	return x.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(resourceKey(key.Repository, key.Resource)); err != nil {
			return badgerRewriteError(err, graph.ResourceNotFound)
		}
		_, err := tx.Get(branchKey(key))
		if err == nil {
			return graph.BranchAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return tx.Set(branchKey(key), []byte(presentMarker))
	})
}

func (x *index) HasBranch(ctx context.Context, key model.BranchKey) (bool, error) {
	return x.has(branchKey(key))
}

func (x *index) ListBranches(ctx context.Context, repo, resource string) ([]string, error) {
	return x.listKeys([]byte(branchPref + repo + keySep + resource + keySep))
}

func (x *index) HasVersion(ctx context.Context, repo, resource, version string) (bool, error) {
	return x.has(versionKey(repo, resource, version))
}

func (x *index) GetVersion(ctx context.Context, repo, resource, version string) (graph.VersionRef, error) {
	var ref graph.VersionRef
	verr := x.db.View(func(tx *badger.Txn) error {
		item, err := badgerRewriteVersionError(tx.Get(versionKey(repo, resource, version)))
		if err != nil {
			return err
		}
		ref = item
		return nil
	})
	if verr != nil {
		return graph.VersionRef{}, verr
	}
	return ref, nil
}

// findTail walks the successor links from the branch head.
// The returned tail is empty for a branch with no versions yet.
func (x *index) findTail(key model.BranchKey) (string, error) {
	tail := ""
	verr := x.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(headKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		cur, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		for {
			next, err := tx.Get(nextKey(key.Repository, key.Resource, string(cur)))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					break
				}
				return err
			}
			cur, err = next.ValueCopy(nil)
			if err != nil {
				return err
			}
		}
		tail = string(cur)
		return nil
	})
	return tail, verr
}

// AppendVersion creates the version vertex and links it at the tail
// of the branch chain. The tail lookup and the link write run in
// separate transactions: concurrent appends to the same branch may
// both observe the same tail, and the later link overwrite orphans
// the earlier version.
func (x *index) AppendVersion(ctx context.Context, key model.BranchKey, ref graph.VersionRef) error {
	uerr := x.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(branchKey(key)); err != nil {
			return badgerRewriteError(err, graph.BranchNotFound)
		}
		vk := versionKey(key.Repository, key.Resource, ref.Name)
		_, err := tx.Get(vk)
		if err == nil {
			return graph.VersionAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		data, err := jsoniter.Marshal(ref)
		if err != nil {
			return err
		}
		return tx.Set(vk, data)
	})
	if uerr != nil {
		return uerr
	}

	tail, err := x.findTail(key)
	if err != nil {
		return err
	}
	return x.db.Update(func(tx *badger.Txn) error {
		if tail == "" {
			return tx.Set(headKey(key), []byte(ref.Name))
		}
		return tx.Set(nextKey(key.Repository, key.Resource, tail), []byte(ref.Name))
	})
}

func (x *index) ListVersions(ctx context.Context, key model.BranchKey) ([]graph.VersionRef, error) {
	var refs []graph.VersionRef
	verr := x.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(headKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				if _, berr := tx.Get(branchKey(key)); berr != nil {
					return badgerRewriteError(berr, graph.BranchNotFound)
				}
				return nil
			}
			return err
		}
		cur, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		for {
			ref, err := badgerRewriteVersionError(tx.Get(versionKey(key.Repository, key.Resource, string(cur))))
			if err != nil {
				return err
			}
			refs = append(refs, ref)
			next, err := tx.Get(nextKey(key.Repository, key.Resource, string(cur)))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					return nil
				}
				return err
			}
			cur, err = next.ValueCopy(nil)
			if err != nil {
				return err
			}
		}
	})
	if verr != nil {
		return nil, verr
	}
	return refs, nil
}

func (x *index) LatestVersion(ctx context.Context, key model.BranchKey) (graph.VersionRef, error) {
	tail, err := x.findTail(key)
	if err != nil {
		return graph.VersionRef{}, err
	}
	if tail == "" {
		return graph.VersionRef{}, graph.VersionNotFound
	}
	return x.GetVersion(ctx, key.Repository, key.Resource, tail)
}

// DeleteVersion unlinks a version from the branch chain and removes
// its vertex. Used to roll back a failed multi store write.
func (x *index) DeleteVersion(ctx context.Context, key model.BranchKey, version string) error {
	return x.db.Update(func(tx *badger.Txn) error {
		vk := versionKey(key.Repository, key.Resource, version)
		if _, err := tx.Get(vk); err != nil {
			return badgerRewriteError(err, graph.VersionNotFound)
		}

		successor := ""
		if next, err := tx.Get(nextKey(key.Repository, key.Resource, version)); err == nil {
			b, verr := next.ValueCopy(nil)
			if verr != nil {
				return verr
			}
			successor = string(b)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		// fix up whichever link points at the version
		if item, err := tx.Get(headKey(key)); err == nil {
			head, verr := item.ValueCopy(nil)
			if verr != nil {
				return verr
			}
			if string(head) == version {
				if successor == "" {
					if derr := tx.Delete(headKey(key)); derr != nil {
						return derr
					}
				} else if serr := tx.Set(headKey(key), []byte(successor)); serr != nil {
					return serr
				}
			} else {
				cur := string(head)
				for cur != "" {
					next, nerr := tx.Get(nextKey(key.Repository, key.Resource, cur))
					if nerr != nil {
						if nerr == badger.ErrKeyNotFound {
							break
						}
						return nerr
					}
					b, verr := next.ValueCopy(nil)
					if verr != nil {
						return verr
					}
					if string(b) == version {
						if successor == "" {
							if derr := tx.Delete(nextKey(key.Repository, key.Resource, cur)); derr != nil {
								return derr
							}
						} else if serr := tx.Set(nextKey(key.Repository, key.Resource, cur), []byte(successor)); serr != nil {
							return serr
						}
						break
					}
					cur = string(b)
				}
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := tx.Delete(nextKey(key.Repository, key.Resource, version)); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		return tx.Delete(vk)
	})
}
