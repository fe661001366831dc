package tree

import (
	"fmt"
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

type saver interface {
	Commit(db *iavl.MutableTree, version int64) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

// MTree is the versioned store every sub-store commits into
type MTree interface {
	Commit(...saver) ([]byte, int64, error)
	MutableTree() *iavl.MutableTree
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	DeleteVersion(version int64) error
	DeleteVersionsRange(fromVersion, toVersion int64) error
	AvailableVersions() []int
	Version() int64
	Hash() []byte
}

// NewMutableTree loads the tree at height, or an empty tree starting from initialVersion when height is zero
func NewMutableTree(height uint64, db dbm.DB, cacheSize int, initialVersion uint64) (MTree, error) {
	tree, err := iavl.NewMutableTreeWithOpts(db, cacheSize, &iavl.Options{InitialVersion: initialVersion})
	if err != nil {
		return nil, err
	}

	m := &mutableTree{tree: tree}
	if height == 0 {
		m.lastImmutable = iavl.NewImmutableTree(db, cacheSize)
		return m, nil
	}

	if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}
	if m.lastImmutable, err = tree.GetImmutable(int64(height)); err != nil {
		return nil, err
	}

	return m, nil
}

// NewImmutableTree returns the read-only tree of version height
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}
	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, err
	}
	return tree.GetImmutable(int64(height))
}

type mutableTree struct {
	tree          *iavl.MutableTree
	lastImmutable *iavl.ImmutableTree

	lock sync.RWMutex
}

func (t *mutableTree) MutableTree() *iavl.MutableTree {
	return t.tree
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.lastImmutable
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.GetImmutable(version)
}

// Commit writes every saver into the tree, saves a new version and hands the savers the new read-only tree
func (t *mutableTree) Commit(savers ...saver) ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, db := range savers {
		if err := db.Commit(t.tree, t.tree.Version()+1); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err := t.tree.SaveVersion()
	if err != nil {
		return hash, version, err
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		return hash, version, fmt.Errorf("can't load committed version %d: %w", version, err)
	}
	t.lastImmutable = immutable
	for _, db := range savers {
		db.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersion(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}
	return t.tree.DeleteVersion(version)
}

// DeleteVersionsRange removes the existing versions in [fromVersion, toVersion)
func (t *mutableTree) DeleteVersionsRange(fromVersion, toVersion int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	existing := make([]int64, 0, toVersion-fromVersion)
	for v := fromVersion; v < toVersion; v++ {
		if t.tree.VersionExists(v) {
			existing = append(existing, v)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return t.tree.DeleteVersions(existing...)
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}
