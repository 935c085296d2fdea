package match

import (
	"reflect"
	"testing"
)

func TestResolveGroupMutualAgreement(t *testing.T) {
	// Two plants, two years each: 0-1 form one series, 2-3 the other.
	records := recs(2010, 2011, 2010, 2011)
	sim := simMatrix(4, 0.75, map[[2]int]float64{
		{0, 1}: 0.90,
		{2, 3}: 0.85,
	})
	bt := BestByYear(records, sim)

	group, ok := bt.ResolveGroup(0)
	if !ok {
		t.Fatal("expected seed 0 to resolve")
	}
	want := []string{records[0].RecordID, records[1].RecordID}
	if !reflect.DeepEqual(group, want) {
		t.Errorf("group = %v, want %v", group, want)
	}

	// Every accepted group must satisfy the consistency law: restricted to
	// the group's years, each member's own row reproduces the same member
	// set, and no outside record points into it.
	for _, seed := range []int{0, 1} {
		forward := map[int]bool{}
		for _, v := range bt.Row(seed) {
			if v != NoMatch {
				forward[v] = true
			}
		}
		reverse := map[int]bool{}
		for r, row := range bt.Best {
			for _, v := range row {
				if v == seed {
					reverse[r] = true
				}
			}
		}
		if !reflect.DeepEqual(forward, reverse) {
			t.Errorf("seed %d: forward %v != reverse %v", seed, forward, reverse)
		}
	}
}

func TestResolveGroupRejectsOneSidedMatch(t *testing.T) {
	// Seed 0's best match in 2011 is record 1, but record 1 prefers record
	// 2 back in 2010. No group may form for the seed.
	records := recs(2010, 2011, 2010)
	sim := simMatrix(3, 0.75, map[[2]int]float64{
		{0, 1}: 0.80,
		{1, 2}: 0.90,
		{0, 2}: 0.30,
	})
	bt := BestByYear(records, sim)

	if _, ok := bt.ResolveGroup(0); ok {
		t.Error("one-sided association must not resolve into a group")
	}
}

func TestResolveGroupRejectsSingletons(t *testing.T) {
	// Three records with nothing in common: each is its own best match and
	// nothing else. None of them yields a time series.
	records := recs(2010, 2011, 2012)
	bt := BestByYear(records, simMatrix(3, 0.75, map[[2]int]float64{
		{0, 1}: 0.2,
		{0, 2}: 0.1,
		{1, 2}: 0.3,
	}))

	for seed := range records {
		if _, ok := bt.ResolveGroup(seed); ok {
			t.Errorf("seed %d resolved, want unclustered", seed)
		}
	}
}

func TestGroupTableDedupe(t *testing.T) {
	gt := &GroupTable{
		Years: []int{2010, 2011},
		Groups: []Group{
			{SeedID: "a", ByYear: []string{"a", "b"}},
			{SeedID: "b", ByYear: []string{"a", "b"}},
			{SeedID: "c", ByYear: []string{"c", ""}},
		},
	}

	deduped := gt.Dedupe()
	if len(deduped.Groups) != 2 {
		t.Fatalf("Dedupe() kept %d groups, want 2", len(deduped.Groups))
	}
	if deduped.Groups[0].SeedID != "a" {
		t.Errorf("dedupe must keep the first-occurring seed, got %s", deduped.Groups[0].SeedID)
	}
}

func TestGroupTableAssignments(t *testing.T) {
	gt := &GroupTable{
		Years: []int{2010, 2011, 2012},
		Groups: []Group{
			{SeedID: "a", ByYear: []string{"a", "b", ""}},
			{SeedID: "c", ByYear: []string{"", "c", "d"}},
		},
	}

	got := gt.Assignments()
	want := []Assignment{
		{PlantIDFerc1: 0, RecordID: "a"},
		{PlantIDFerc1: 0, RecordID: "b"},
		{PlantIDFerc1: 1, RecordID: "c"},
		{PlantIDFerc1: 1, RecordID: "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assignments() = %v, want %v", got, want)
	}
}
