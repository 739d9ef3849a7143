package assoweb

import (
	"database/sql"
	"errors"
	"fmt"
)

// MoveDirection shifts an orderable item one rank up or down within its scope.
type MoveDirection int

const (
	MoveUp   MoveDirection = -1
	MoveDown MoveDirection = +1
)

// ErrNotRanked is returned when a move is attempted on an item that is not
// part of the ordering scope. That is a programmer error, not a user-facing
// condition.
var ErrNotRanked = errors.New("assoweb: item is not in its ordering scope")

type rankedRow struct {
	id   int64
	rank int
}

// moveRanked computes the order changes needed to shift the item one rank in
// the given direction. rows must be sorted by their current order. The result
// maps item ids to their new order values; it is nil when the move is a
// boundary no-op. Every id between the old and new rank shifts by one, so a
// dense 0..N-1 ordering stays a permutation of 0..N-1.
func moveRanked(rows []rankedRow, id int64, dir MoveDirection) (map[int64]int, error) {
	cur := -1
	for i, r := range rows {
		if r.id == id {
			cur = i
			break
		}
	}
	if cur == -1 {
		return nil, fmt.Errorf("%w: id %d", ErrNotRanked, id)
	}

	target := cur + int(dir)
	if target < 0 {
		target = 0
	}
	if target > len(rows)-1 {
		target = len(rows) - 1
	}
	if target == cur {
		return nil, nil
	}

	changes := map[int64]int{id: target}
	if dir == MoveDown {
		for i := cur + 1; i <= target; i++ {
			changes[rows[i].id] = i - 1
		}
	} else {
		for i := target; i < cur; i++ {
			changes[rows[i].id] = i + 1
		}
	}
	return changes, nil
}

// move applies moveRanked to one table scope in a single transaction.
// where may be empty for tables with a single scope.
func (s *Store) move(table, where string, args []any, id int64, dir MoveDirection) error {
	if id == 0 {
		return ErrNotRanked
	}
	return s.inTx(func(tx *sql.Tx) error {
		query := `SELECT id, ord FROM ` + table
		if where != "" {
			query += ` WHERE ` + where
		}
		query += ` ORDER BY ord, id`
		rows, err := tx.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		var ranked []rankedRow
		for rows.Next() {
			var r rankedRow
			if err := rows.Scan(&r.id, &r.rank); err != nil {
				return err
			}
			ranked = append(ranked, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		changes, err := moveRanked(ranked, id, dir)
		if err != nil {
			return err
		}
		for rid, ord := range changes {
			if _, err := tx.Exec(`UPDATE `+table+` SET ord = ? WHERE id = ?`, ord, rid); err != nil {
				return err
			}
		}
		return nil
	})
}

// MoveCategory shifts a category one rank.
func (s *Store) MoveCategory(id int64, dir MoveDirection) error {
	return s.move("categories", "", nil, id, dir)
}

// MoveMenuEntry shifts a menu entry one rank within its position scope.
func (s *Store) MoveMenuEntry(id int64, dir MoveDirection) error {
	if id == 0 {
		return ErrNotRanked
	}
	var pos int
	err := s.db.QueryRow(`SELECT position FROM menu_entries WHERE id = ?`, id).Scan(&pos)
	if err != nil {
		return err
	}
	return s.move("menu_entries", "position = ?", []any{pos}, id, dir)
}

// MoveBlock shifts a block one rank.
func (s *Store) MoveBlock(id int64, dir MoveDirection) error {
	return s.move("blocks", "", nil, id, dir)
}

// MoveAlbum shifts an album one rank.
func (s *Store) MoveAlbum(id int64, dir MoveDirection) error {
	return s.move("albums", "", nil, id, dir)
}

// MoveFeatured shifts a featured card one rank.
func (s *Store) MoveFeatured(id int64, dir MoveDirection) error {
	return s.move("featured", "", nil, id, dir)
}
