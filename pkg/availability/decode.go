package availability

import "strconv"

// Decode expands an encoded availability string into the explicit set of
// available index vectors.
//
// The encoding is a sequence of integers separated by four control bytes. A
// mutable cursor holds the combination under construction and a depth pointer
// selects the slot being written; every parsed integer lands at the current
// depth before its terminating control byte is applied. Emission snapshots
// cursor[:depth+1], so slots left over from deeper writes are never visible.
//
//   - ':' fixes the integer and descends one dimension (depth+1).
//   - ',' emits the cursor and keeps the depth, so the following integer
//     reuses every higher-order dimension and replaces only the innermost:
//     "0:0,1 " is {[0,0],[0,1]}. A comma directly preceded by another comma
//     emits nothing.
//   - ' ' emits the cursor and resets depth to zero, closing one full
//     root-to-leaf group: "0:0,1 1:0,1 " is the full 2x2 grid.
//   - '-' opens a range at the current depth. When the next integer N
//     arrives, every value from the remembered bound up to but excluding N
//     is written and emitted in turn; N then stays in the cursor unemitted,
//     serving as the start of a chained range ("0-3-6 " covers 0 through 5)
//     or as a plain list element ("0-3,5 " is {[0],[1],[2],[5]}), and the
//     control byte terminating N suppresses its own emission. An inverted
//     or empty range expands to nothing.
//
// Empty and non-numeric spans parse as 0, and trailing digits without a
// terminating control byte are dropped. Decode never fails: existing
// encoders rely on malformed input degrading instead of erroring. Equal
// inputs always produce set-equal results.
func Decode(encoded string) *Set {
	set := &Set{members: make(map[string]IndexVector)}

	var (
		cursor IndexVector
		depth  int
		span   int // start of the numeric span being scanned
		lower  int // pending range lower bound
		ranged bool
	)

	write := func(n int) {
		for len(cursor) <= depth {
			cursor = append(cursor, 0)
		}
		cursor[depth] = n
	}

	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if !isControl(c) {
			continue
		}

		n := parseSpan(encoded[span:i])
		span = i + 1

		expanded := false
		if ranged {
			for v := lower; v < n; v++ {
				write(v)
				set.add(cursor[:depth+1])
			}
			ranged = false
			expanded = true
		}
		write(n)

		switch c {
		case '-':
			lower = n
			ranged = true
		case ':':
			depth++
		case ' ':
			if !expanded {
				set.add(cursor[:depth+1])
			}
			depth = 0
		case ',':
			if !expanded && (i == 0 || encoded[i-1] != ',') {
				set.add(cursor[:depth+1])
			}
		}
	}

	return set
}

func isControl(c byte) bool {
	return c == ' ' || c == ':' || c == ',' || c == '-'
}

// parseSpan converts one numeric span to its value. Anything that is not a
// plain run of ASCII digits, including spans that overflow int, degrades
// to 0.
func parseSpan(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
