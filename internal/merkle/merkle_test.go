package merkle

import (
	"testing"

	"github.com/craffles/raffle-backend/internal/pda"
)

func testLeaves(t *testing.T, n int) []Hash {
	t.Helper()
	logRef, err := pda.New()
	if err != nil {
		t.Fatalf("pda.New: %v", err)
	}
	owner, err := pda.New()
	if err != nil {
		t.Fatalf("pda.New: %v", err)
	}
	leaves := make([]Hash, n)
	for i := range leaves {
		leaves[i] = Leaf(logRef, uint64(i), owner, []byte("certificate"))
	}
	return leaves
}

func TestRoot(t *testing.T) {
	t.Run("empty log commits to zero", func(t *testing.T) {
		if root := Root(nil); root != (Hash{}) {
			t.Errorf("expected zero root, got %s", root)
		}
	})

	t.Run("single leaf is its own root", func(t *testing.T) {
		leaves := testLeaves(t, 1)
		if root := Root(leaves); root != leaves[0] {
			t.Errorf("expected root %s, got %s", leaves[0], root)
		}
	})

	t.Run("root changes on every append", func(t *testing.T) {
		leaves := testLeaves(t, 9)
		seen := make(map[Hash]bool)
		for i := 1; i <= len(leaves); i++ {
			root := Root(leaves[:i])
			if seen[root] {
				t.Fatalf("duplicate root after %d leaves", i)
			}
			seen[root] = true
		}
	})

	t.Run("odd node is promoted, not duplicated", func(t *testing.T) {
		leaves := testLeaves(t, 3)
		// If the trailing leaf were duplicated, the 3-leaf root would
		// equal the root of [a, b, c, c].
		duplicated := Root([]Hash{leaves[0], leaves[1], leaves[2], leaves[2]})
		if Root(leaves) == duplicated {
			t.Error("3-leaf root matches the duplicated-leaf construction")
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		leaves := testLeaves(t, 4)
		before := leaves[0]
		Root(leaves)
		if leaves[0] != before {
			t.Error("Root mutated the caller's slice")
		}
	})
}

func TestLeafDomains(t *testing.T) {
	logRef, err := pda.New()
	if err != nil {
		t.Fatalf("pda.New: %v", err)
	}
	other, err := pda.New()
	if err != nil {
		t.Fatalf("pda.New: %v", err)
	}
	owner, err := pda.New()
	if err != nil {
		t.Fatalf("pda.New: %v", err)
	}

	base := Leaf(logRef, 0, owner, []byte("payload"))
	if base == Leaf(other, 0, owner, []byte("payload")) {
		t.Error("leaf hash ignores the log reference")
	}
	if base == Leaf(logRef, 1, owner, []byte("payload")) {
		t.Error("leaf hash ignores the index")
	}
	if base == Leaf(logRef, 0, other, []byte("payload")) {
		t.Error("leaf hash ignores the owner")
	}
	if base == Leaf(logRef, 0, owner, []byte("different")) {
		t.Error("leaf hash ignores the payload")
	}
}

func TestParseHash(t *testing.T) {
	leaves := testLeaves(t, 1)
	parsed, err := ParseHash(leaves[0].String())
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if parsed != leaves[0] {
		t.Errorf("round trip mismatch")
	}
	if _, err := ParseHash("zz"); err == nil {
		t.Error("expected an error for invalid input")
	}
}
