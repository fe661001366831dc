package tree

import (
	"testing"

	"github.com/cosmos/iavl"
	db "github.com/tendermint/tm-db"
)

type kvSaver struct {
	key, value []byte
	immutable  *iavl.ImmutableTree
}

func (s *kvSaver) Commit(tree *iavl.MutableTree, _ int64) error {
	tree.Set(s.key, s.value)
	return nil
}

func (s *kvSaver) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	s.immutable = immutableTree
}

func TestCommitSavesVersions(t *testing.T) {
	memDB := db.NewMemDB()
	mtree, err := NewMutableTree(0, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, value := mtree.GetLastImmutable().Get([]byte("k")); value != nil {
		t.Fatalf("empty tree has value %x", value)
	}

	s := &kvSaver{key: []byte("k"), value: []byte("v1")}
	_, version, err := mtree.Commit(s)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Fatalf("version %d, want 1", version)
	}
	if _, value := s.immutable.Get([]byte("k")); string(value) != "v1" {
		t.Fatalf("saver got %q", value)
	}

	s.value = []byte("v2")
	if _, _, err := mtree.Commit(s); err != nil {
		t.Fatal(err)
	}
	if err := mtree.DeleteVersion(1); err != nil {
		t.Fatal(err)
	}
	if versions := mtree.AvailableVersions(); len(versions) != 1 || versions[0] != 2 {
		t.Fatalf("versions %v", versions)
	}

	reloaded, err := NewMutableTree(2, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, value := reloaded.GetLastImmutable().Get([]byte("k")); string(value) != "v2" {
		t.Fatalf("reloaded value %q", value)
	}

	immutable, err := NewImmutableTree(2, memDB)
	if err != nil {
		t.Fatal(err)
	}
	if immutable.Version() != 2 {
		t.Fatalf("immutable version %d", immutable.Version())
	}
}
