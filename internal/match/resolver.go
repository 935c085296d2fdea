package match

// Group is one resolved plant time series: at most one record per year,
// blank where no year had a usable match.
type Group struct {
	SeedID string
	ByYear []string
}

// GroupTable maps seed records to their resolved time series. Rows are in
// seed order; columns parallel Years.
type GroupTable struct {
	Years  []int
	Groups []Group
}

// Assignment binds one record to its synthetic plant ID.
type Assignment struct {
	PlantIDFerc1 int
	RecordID     string
}

// ResolveGroup applies the mutual-agreement constraint to the record at
// index seed. The forward set is the seed's own non-sentinel best matches;
// the reverse set is every record whose own best-match row points at the
// seed in any year. The grouping is accepted only when the two sets are
// exactly equal: best in one direction is not enough, an ambiguous or
// one-sided association is rejected and the seed stays unclustered.
//
// A group needs at least two member records. A record whose only agreed
// match is itself has no time series to report.
func (bt *BestMatchTable) ResolveGroup(seed int) ([]string, bool) {
	forward := make(map[int]bool)
	members := 0
	for _, v := range bt.Best[seed] {
		if v != NoMatch {
			forward[v] = true
			members++
		}
	}
	if members < 2 {
		return nil, false
	}

	reverse := make(map[int]bool)
	for r, row := range bt.Best {
		for _, v := range row {
			if v == seed {
				reverse[r] = true
				break
			}
		}
	}

	if len(forward) != len(reverse) {
		return nil, false
	}
	for r := range reverse {
		if !forward[r] {
			return nil, false
		}
	}

	byYear := make([]string, len(bt.Years))
	for c, v := range bt.Best[seed] {
		if v != NoMatch {
			byYear[c] = bt.RecordIDs[v]
		}
	}
	return byYear, true
}

// Dedupe collapses seeds that resolved to an identical record set into a
// single group, keeping the first occurrence. Group identity is the member
// set, not the seed that found it.
func (gt *GroupTable) Dedupe() *GroupTable {
	out := &GroupTable{Years: gt.Years}
	seen := make(map[string]bool, len(gt.Groups))
	for _, g := range gt.Groups {
		key := ""
		for _, id := range g.ByYear {
			key += id + "\x00"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Groups = append(out.Groups, g)
	}
	return out
}

// Assignments flattens the deduplicated groups into (plant ID, record ID)
// pairs. Plant IDs are sequential integers in group order; blank entries
// are dropped before assignment so every pair is a real record.
func (gt *GroupTable) Assignments() []Assignment {
	var out []Assignment
	for plantID, g := range gt.Groups {
		for _, id := range g.ByYear {
			if id == "" {
				continue
			}
			out = append(out, Assignment{PlantIDFerc1: plantID, RecordID: id})
		}
	}
	return out
}
