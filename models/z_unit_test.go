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

package models_test

import (
	"math"
	"testing"

	"github.com/zintix-labs/wagerlab/arena"
	"github.com/zintix-labs/wagerlab/models"
	"github.com/zintix-labs/wagerlab/spec"
)

func fixtureRound(t *testing.T) *spec.RoundData {
	t.Helper()
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
	}
	if err := rd.Valid(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return rd
}

func TestOriginalProbabilities(t *testing.T) {
	rd := fixtureRound(t)
	probs := models.OriginalProbabilities(rd)
	for a := 0; a < spec.ArenaCount; a++ {
		if probs[a][0] != 1.0 {
			t.Fatalf("arena %d placeholder column: got %v, want 1.0", a, probs[a][0])
		}
		sum := 0.0
		for p := 1; p <= spec.CompetitorsPerArena; p++ {
			v := probs[a][p]
			if v <= 0 || v >= 1 {
				t.Fatalf("arena %d position %d probability %v out of (0,1)", a, p, v)
			}
			sum += v
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("arena %d probabilities sum to %v, want 1.0", a, sum)
		}
	}
	// Lower opening odds must not estimate a lower win probability.
	for a := 0; a < spec.ArenaCount; a++ {
		for p := 1; p <= spec.CompetitorsPerArena; p++ {
			for q := p + 1; q <= spec.CompetitorsPerArena; q++ {
				if rd.OpeningOdds[a][p] < rd.OpeningOdds[a][q] && probs[a][p] < probs[a][q] {
					t.Fatalf("arena %d: odds %d beat odds %d but prob %v < %v",
						a, rd.OpeningOdds[a][p], rd.OpeningOdds[a][q], probs[a][p], probs[a][q])
				}
			}
		}
	}
}

func TestLogitProbabilities(t *testing.T) {
	rd := fixtureRound(t)
	as := arena.New(rd, &rd.CurrentOdds)
	probs := models.LogitProbabilities(as)
	for a := 0; a < spec.ArenaCount; a++ {
		if probs[a][0] != 1.0 {
			t.Fatalf("arena %d placeholder column: got %v, want 1.0", a, probs[a][0])
		}
		sum := 0.0
		for p := 1; p <= spec.CompetitorsPerArena; p++ {
			v := probs[a][p]
			if v <= 0 || v >= 1 {
				t.Fatalf("arena %d position %d probability %v out of (0,1)", a, p, v)
			}
			sum += v
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("arena %d probabilities sum to %v, want 1.0", a, sum)
		}
	}
}
