package assoweb

import (
	"errors"
	"testing"
)

func TestMoveRankedSwapsNeighbors(t *testing.T) {
	rows := []rankedRow{{id: 10, rank: 0}, {id: 20, rank: 1}, {id: 30, rank: 2}}

	updates, err := moveRanked(rows, 20, MoveUp)
	if err != nil {
		t.Fatalf("moveRanked failed: %v", err)
	}
	if updates[20] != 0 || updates[10] != 1 {
		t.Errorf("updates = %v, want 20->0 and 10->1", updates)
	}
	if _, touched := updates[30]; touched {
		t.Errorf("row 30 should be untouched, got %v", updates)
	}
}

func TestMoveRankedBoundaryIsNoOp(t *testing.T) {
	rows := []rankedRow{{id: 10, rank: 0}, {id: 20, rank: 1}}

	updates, err := moveRanked(rows, 10, MoveUp)
	if err != nil {
		t.Fatalf("moveRanked failed: %v", err)
	}
	if updates != nil {
		t.Errorf("moving the first row up should change nothing, got %v", updates)
	}

	updates, err = moveRanked(rows, 20, MoveDown)
	if err != nil {
		t.Fatalf("moveRanked failed: %v", err)
	}
	if updates != nil {
		t.Errorf("moving the last row down should change nothing, got %v", updates)
	}
}

func TestMoveRankedUnknownID(t *testing.T) {
	rows := []rankedRow{{id: 10, rank: 0}}
	if _, err := moveRanked(rows, 99, MoveDown); !errors.Is(err, ErrNotRanked) {
		t.Fatalf("err = %v, want ErrNotRanked", err)
	}
}

// The sequence of moves must always leave a dense 0..n-1 ordering.
func TestMoveCategoryKeepsOrderingDense(t *testing.T) {
	s := setupTestStore(t)

	var ids []int64
	for _, name := range []string{"A", "B", "C", "D"} {
		c, err := s.CreateCategory(name, true)
		if err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		ids = append(ids, c.ID)
	}

	moves := []struct {
		id  int64
		dir MoveDirection
	}{
		{ids[3], MoveUp},
		{ids[0], MoveDown},
		{ids[2], MoveUp},
		{ids[0], MoveUp}, // boundary no-op after the shuffle settles
		{ids[1], MoveDown},
	}
	for _, m := range moves {
		if err := s.MoveCategory(m.id, m.dir); err != nil {
			t.Fatalf("MoveCategory(%d) failed: %v", m.id, err)
		}
		cats, err := s.ListCategories(false)
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(cats) != 4 {
			t.Fatalf("len = %d, want 4", len(cats))
		}
		for i, c := range cats {
			if c.Order != i {
				t.Fatalf("after move %+v: position %d has order %d, want %d (%+v)", m, i, c.Order, i, cats)
			}
		}
	}
}

func TestMoveMenuEntryStaysInItsPosition(t *testing.T) {
	s := setupTestStore(t)

	m1, err := s.CreateMenuEntry(MenuEntry{Text: "One", URL: "/1/", Position: MenuMain})
	if err != nil {
		t.Fatalf("CreateMenuEntry failed: %v", err)
	}
	m2, err := s.CreateMenuEntry(MenuEntry{Text: "Two", URL: "/2/", Position: MenuMain})
	if err != nil {
		t.Fatalf("CreateMenuEntry failed: %v", err)
	}
	sec, err := s.CreateMenuEntry(MenuEntry{Text: "Legal", URL: "/legal/", Position: MenuSecondary})
	if err != nil {
		t.Fatalf("CreateMenuEntry failed: %v", err)
	}

	if err := s.MoveMenuEntry(m2.ID, MoveUp); err != nil {
		t.Fatalf("MoveMenuEntry failed: %v", err)
	}

	main, err := s.ListMenuEntries(MenuMain)
	if err != nil {
		t.Fatalf("ListMenuEntries failed: %v", err)
	}
	if main[0].ID != m2.ID || main[1].ID != m1.ID {
		t.Errorf("main order = %d,%d, want %d,%d", main[0].ID, main[1].ID, m2.ID, m1.ID)
	}

	// The secondary menu's ordering is a separate scope and must be untouched.
	secondary, err := s.ListMenuEntries(MenuSecondary)
	if err != nil {
		t.Fatalf("ListMenuEntries failed: %v", err)
	}
	if len(secondary) != 1 || secondary[0].ID != sec.ID || secondary[0].Order != 0 {
		t.Errorf("secondary = %+v, want untouched single entry at 0", secondary)
	}
}

func TestMoveUnknownRowFails(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.CreateCategory("Only", true); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if err := s.MoveCategory(999, MoveUp); !errors.Is(err, ErrNotRanked) {
		t.Fatalf("err = %v, want ErrNotRanked", err)
	}
}
