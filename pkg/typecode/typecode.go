package typecode

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/budova/aptgraph/pkg/lot"
)

// Alphabet supplies the ordinal letter of a type code. I, O, V and Z are
// omitted.
const Alphabet = "ABCDEFGHJKLMNPQRSTUWXY"

// OverflowPolicy decides what happens when a cohort outgrows Alphabet.
type OverflowPolicy string

const (
	// OverflowFail rejects the whole assignment.
	OverflowFail OverflowPolicy = "fail"
	// OverflowNumbered wraps the alphabet and appends the wrap count.
	OverflowNumbered OverflowPolicy = "numbered"
)

var (
	ErrCohortOverflow = errors.New("type-code cohort exceeds alphabet")
	ErrBadNumber      = errors.New("unit number has no integer suffix")
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// SuffixNumber strips everything but digits and dots from a unit number
// and parses the rest as an integer: "A-12" gives 12.
func SuffixNumber(number string) (int, error) {
	digits := nonNumeric.ReplaceAllString(number, "")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, number)
	}
	return n, nil
}

// Cohort is the residential lots of one floor sharing a living-room count,
// in ranking order.
type Cohort struct {
	Level       string     `json:"level"`
	LivingRooms int        `json:"living_rooms"`
	Lots        []*lot.Lot `json:"-"`
}

// Cohorts groups residential lots by floor, then by living-room count, and
// sorts each group by numeric suffix. Groups keep first-appearance order.
// Equal suffixes keep input order.
func Cohorts(lots []*lot.Lot) ([]Cohort, error) {
	type key struct {
		level string
		rooms int
	}
	index := make(map[key]int)
	var cohorts []Cohort
	levelOrder := make(map[string]int)

	for _, l := range lots {
		if !l.IsResidential() {
			continue
		}
		level := l.LevelName()
		if _, ok := levelOrder[level]; !ok {
			levelOrder[level] = len(levelOrder)
		}
		k := key{level, l.LivingRoomCount()}
		i, ok := index[k]
		if !ok {
			i = len(cohorts)
			index[k] = i
			cohorts = append(cohorts, Cohort{Level: k.level, LivingRooms: k.rooms})
		}
		cohorts[i].Lots = append(cohorts[i].Lots, l)
	}

	// Floors first, room counts within a floor in first-seen order.
	sort.SliceStable(cohorts, func(a, b int) bool {
		return levelOrder[cohorts[a].Level] < levelOrder[cohorts[b].Level]
	})

	for ci := range cohorts {
		members := cohorts[ci].Lots
		keys := make(map[*lot.Lot]int, len(members))
		for _, l := range members {
			n, err := SuffixNumber(l.Number)
			if err != nil {
				return nil, err
			}
			keys[l] = n
		}
		sort.SliceStable(members, func(a, b int) bool {
			return keys[members[a]] < keys[members[b]]
		})
	}
	return cohorts, nil
}

// Code builds the type code for a lot ranked rank (zero-based) in a cohort.
func Code(livingRooms, rank int, policy OverflowPolicy) (string, error) {
	size := len(Alphabet)
	if rank < size {
		return fmt.Sprintf("%d%c", livingRooms, Alphabet[rank]), nil
	}
	if policy != OverflowNumbered {
		return "", fmt.Errorf("%w: rank %d of %d letters", ErrCohortOverflow, rank+1, size)
	}
	return fmt.Sprintf("%d%c%d", livingRooms, Alphabet[rank%size], rank/size), nil
}

// Assign returns the type code of every lot keyed by lot number. Apartments
// get "{living rooms}{letter}" ranked within their cohort; every other lot
// gets its own number.
func Assign(lots []*lot.Lot, policy OverflowPolicy) (map[string]string, error) {
	codes := make(map[string]string, len(lots))
	for _, l := range lots {
		if !l.IsResidential() {
			codes[l.Number] = l.Number
		}
	}

	cohorts, err := Cohorts(lots)
	if err != nil {
		return nil, err
	}
	for _, c := range cohorts {
		for rank, l := range c.Lots {
			code, err := Code(c.LivingRooms, rank, policy)
			if err != nil {
				return nil, fmt.Errorf("level %q, %d living rooms, %d lots: %w",
					c.Level, c.LivingRooms, len(c.Lots), err)
			}
			codes[l.Number] = code
		}
	}
	return codes, nil
}
