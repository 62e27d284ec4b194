package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatColumns is the fixed width of the seat grid (A1..A5, B1..B5, ...).
const SeatColumns = 5

const DefaultTotalSeats = 20

// maxRowLetters bounds row labels to ZZZ, well past any real bus.
const maxRowLetters = 3

// SeatLabel returns the label of the zero-based seat index.
func SeatLabel(index int) string {
	return rowLabel(index/SeatColumns) + strconv.Itoa(index%SeatColumns+1)
}

// rowLabel is bijective base-26: 0->A, 25->Z, 26->AA.
func rowLabel(row int) string {
	label := ""
	for row >= 0 {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
	}
	return label
}

// SeatLabels lists every label for a schedule with total seats, in grid order.
func SeatLabels(total int) []string {
	out := make([]string, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, SeatLabel(i))
	}
	return out
}

// SeatIndex parses a label back to its zero-based index.
func SeatIndex(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(label) || i > maxRowLetters {
		return 0, false
	}
	col, err := strconv.Atoi(label[i:])
	if err != nil || col < 1 || col > SeatColumns || label[i] == '0' {
		return 0, false
	}
	row := 0
	for _, r := range label[:i] {
		row = row*26 + int(r-'A'+1)
	}
	return (row-1)*SeatColumns + col - 1, true
}

// SeatInGrid reports whether label exists on a grid of total seats.
func SeatInGrid(label string, total int) bool {
	idx, ok := SeatIndex(label)
	return ok && idx >= 0 && idx < total
}

// ValidateSeats checks that seats are unique and exist on the grid.
// total <= 0 skips the grid check (schedule unknown).
func ValidateSeats(seats []string, total int) error {
	if len(seats) == 0 {
		return ValidationError{Field: "nomor_kursi", Msg: "nomor kursi wajib diisi"}
	}
	seen := map[string]bool{}
	for _, s := range seats {
		if seen[s] {
			return ValidationError{Field: "nomor_kursi", Msg: fmt.Sprintf("kursi %s dipilih lebih dari sekali", s)}
		}
		seen[s] = true
		if _, ok := SeatIndex(s); !ok {
			return ValidationError{Field: "nomor_kursi", Msg: fmt.Sprintf("format kursi %s tidak valid", s)}
		}
		if total > 0 && !SeatInGrid(s, total) {
			return ValidationError{Field: "nomor_kursi", Msg: fmt.Sprintf("kursi %s tidak ada pada jadwal ini", s)}
		}
	}
	return nil
}
