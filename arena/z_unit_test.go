// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arena_test

import (
	"testing"

	"github.com/zintix-labs/wagerlab/arena"
	"github.com/zintix-labs/wagerlab/spec"
)

func fixtureArenas(t *testing.T) *arena.Arenas {
	t.Helper()
	winners := [5]uint8{3, 2, 3, 2, 2}
	rd := &spec.RoundData{
		Round: 8765,
		Competitors: [5][4]uint8{
			{6, 11, 4, 3},
			{14, 15, 2, 9},
			{10, 16, 18, 20},
			{1, 12, 13, 5},
			{8, 19, 17, 7},
		},
		OpeningOdds: [5][5]uint32{
			{1, 11, 3, 2, 4},
			{1, 13, 2, 5, 13},
			{1, 13, 2, 5, 2},
			{1, 2, 8, 5, 5},
			{1, 13, 3, 2, 4},
		},
		CurrentOdds: [5][5]uint32{
			{1, 11, 3, 2, 3},
			{1, 13, 2, 7, 13},
			{1, 13, 2, 4, 2},
			{1, 2, 10, 6, 6},
			{1, 13, 4, 2, 4},
		},
		Winners: &winners,
	}
	if err := rd.Valid(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return arena.New(rd, &rd.CurrentOdds)
}

func TestArenaBasics(t *testing.T) {
	as := fixtureArenas(t)

	a0 := &as[0]
	if a0.Name() != "Shipwreck" {
		t.Fatalf("arena 0 name: got %q", a0.Name())
	}
	if a0.IDs() != [4]uint8{6, 11, 4, 3} {
		t.Fatalf("arena 0 ids: got %v", a0.IDs())
	}
	if !a0.IsNegative() || a0.Ratio() >= 0 {
		t.Fatalf("arena 0 must be negative with ratio < 0, got ratio %v", a0.Ratio())
	}
	if a0.Winner != 3 || !a0.Competitors[2].IsWinner {
		t.Fatalf("arena 0 winner mismatch: %+v", a0)
	}
}

func TestArenasByID(t *testing.T) {
	as := fixtureArenas(t)

	c := as.ByID(1)
	if c == nil || c.Name() != "Dan" {
		t.Fatalf("competitor 1: got %+v", c)
	}
	if c.ArenaID != 3 || c.Index != 1 {
		t.Fatalf("Dan placement: got arena %d index %d", c.ArenaID, c.Index)
	}
	if got := c.Image(); got != "http://images.neopets.com/pirates/fc/fc_pirate_1.gif" {
		t.Fatalf("image url: got %q", got)
	}
	if as.ByID(99) != nil {
		t.Fatalf("unknown id must return nil")
	}
}

func TestArenasFromBinary(t *testing.T) {
	as := fixtureArenas(t)

	picked := as.FromBinary(0x12480)
	if len(picked) != 4 {
		t.Fatalf("expected 4 competitors, got %d", len(picked))
	}
	wantNames := []string{"Orvinn", "Sproggie", "Franchisco", "Dan"}
	for i, c := range picked {
		if c.Name() != wantNames[i] {
			t.Fatalf("pick %d: got %q, want %q", i, c.Name(), wantNames[i])
		}
	}
}

func TestArenasBestAndPositives(t *testing.T) {
	as := fixtureArenas(t)

	best := as.Best()
	wantOrder := []string{"Lagoon", "Hidden", "Harpoon", "Shipwreck", "Treasure"}
	for i, a := range best {
		if a.Name() != wantOrder[i] {
			t.Fatalf("best order %d: got %q, want %q", i, a.Name(), wantOrder[i])
		}
	}

	pos := as.Positives()
	if len(pos) != 2 || pos[0].Name() != "Lagoon" || pos[1].Name() != "Hidden" {
		t.Fatalf("positives: got %v", pos)
	}
	for _, a := range pos {
		if a.Ratio() <= 0 {
			t.Fatalf("positive arena %q must have positive ratio", a.Name())
		}
	}
}

func TestArenaBestSort(t *testing.T) {
	as := fixtureArenas(t)

	best := as[1].Best()
	for i := 1; i < len(best); i++ {
		if best[i-1].CurrentOdds > best[i].CurrentOdds {
			t.Fatalf("competitors not sorted by odds: %v", best)
		}
	}
	if best[0].CurrentOdds != 2 {
		t.Fatalf("lowest odds first: got %d", best[0].CurrentOdds)
	}
}
