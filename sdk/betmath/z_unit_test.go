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

package betmath

import (
	"math"
	"testing"
)

// uniformProbs returns a matrix where every competitor wins with p=0.25.
func uniformProbs() *[ArenaCount][ArenaCount]float64 {
	var m [ArenaCount][ArenaCount]float64
	for a := 0; a < ArenaCount; a++ {
		m[a][0] = 1.0
		for p := 1; p <= PositionsPerArena; p++ {
			m[a][p] = 0.25
		}
	}
	return &m
}

func flatOdds(v uint32) *[ArenaCount][ArenaCount]uint32 {
	var m [ArenaCount][ArenaCount]uint32
	for a := 0; a < ArenaCount; a++ {
		m[a][0] = 1
		for p := 1; p <= PositionsPerArena; p++ {
			m[a][p] = v
		}
	}
	return &m
}

func TestCompetitorBinary(t *testing.T) {
	if got := CompetitorBinary(0, 1); got != 0x80000 {
		t.Fatalf("arena 0 pos 1: got %#x, want 0x80000", got)
	}
	if got := CompetitorBinary(4, 4); got != 0x1 {
		t.Fatalf("arena 4 pos 4: got %#x, want 0x1", got)
	}
	if got := CompetitorBinary(2, 0); got != 0 {
		t.Fatalf("pos 0 must map to 0, got %#x", got)
	}
	if got := CompetitorBinary(5, 1); got != 0 {
		t.Fatalf("out-of-range arena must map to 0, got %#x", got)
	}
}

func TestSelectionBinaryRoundTrip(t *testing.T) {
	if got := (Selection{1, 0, 0, 0, 0}).Binary(); got != 0x80000 {
		t.Fatalf("selection [1,0,0,0,0]: got %#x, want 0x80000", got)
	}
	if got := SelectionFromBinary(0x80000); got != (Selection{1, 0, 0, 0, 0}) {
		t.Fatalf("binary 0x80000: got %v, want [1 0 0 0 0]", got)
	}
	// Every valid selection must survive the round trip.
	var s Selection
	for i := 0; i < 3125; i++ {
		n := i
		for a := 0; a < ArenaCount; a++ {
			s[a] = uint8(n % 5)
			n /= 5
		}
		if i == 0 {
			continue
		}
		if got := SelectionFromBinary(s.Binary()); got != s {
			t.Fatalf("round trip broke for %v: got %v", s, got)
		}
	}
}

func TestPattern(t *testing.T) {
	// Unselected arenas become full nibbles, selected ones a single bit.
	got := (Selection{2, 0, 0, 0, 0}).Pattern()
	if got != 0x4FFFF {
		t.Fatalf("pattern for [2,0,0,0,0]: got %#x, want 0x4FFFF", got)
	}
	if !Doable(got) {
		t.Fatalf("pattern %#x should be doable", got)
	}
	if Doable(0xF0FFF) {
		t.Fatalf("mask with an empty arena nibble must not be doable")
	}
}

func TestMakeRoundTableCompleteness(t *testing.T) {
	table := MakeRoundTable(uniformProbs(), flatOdds(2))
	if len(table.Bins) != TableSize {
		t.Fatalf("expected %d entries, got %d", TableSize, len(table.Bins))
	}
	seen := make(map[uint32]bool, TableSize)
	for _, bin := range table.Bins {
		if bin == 0 {
			t.Fatalf("all-zero mask must not be enumerated")
		}
		if seen[bin] {
			t.Fatalf("duplicate mask %#x", bin)
		}
		seen[bin] = true
	}
}

func TestMakeRoundTableValues(t *testing.T) {
	table := MakeRoundTable(uniformProbs(), flatOdds(13))
	for i, bin := range table.Bins {
		picks := 0
		for a := 0; a < ArenaCount; a++ {
			if bin&ArenaMasks[a] != 0 {
				picks++
			}
		}
		wantProb := math.Pow(0.25, float64(picks))
		wantOdds := uint32(1)
		for j := 0; j < picks; j++ {
			wantOdds *= 13
		}
		if math.Abs(table.Probs[i]-wantProb) > 1e-12 {
			t.Fatalf("entry %d prob: got %v, want %v", i, table.Probs[i], wantProb)
		}
		if table.Odds[i] != wantOdds {
			t.Fatalf("entry %d odds: got %d, want %d", i, table.Odds[i], wantOdds)
		}
		if got := table.ERs[i]; math.Abs(got-wantProb*float64(wantOdds)) > 1e-9 {
			t.Fatalf("entry %d er: got %v", i, got)
		}
		wantStake := (uint32(MaxTotalPayout) + wantOdds - 1) / wantOdds
		if table.MaxStakes[i] != wantStake {
			t.Fatalf("entry %d max stake: got %d, want %d", i, table.MaxStakes[i], wantStake)
		}
	}
}

func TestExpandBetsEmpty(t *testing.T) {
	res := ExpandBets(nil)
	if len(res) != 1 || res[Wildcard] != 0 {
		t.Fatalf("empty bet list must reduce to {Wildcard: 0}, got %v", res)
	}
}

// regionsAccepting returns the region keys of res that accept the given
// concrete winner combination.
func regionsAccepting(res map[uint32]uint32, winners Selection) []uint32 {
	bin := winners.Binary()
	var hits []uint32
	for key := range res {
		if key&bin == bin {
			hits = append(hits, key)
		}
	}
	return hits
}

func TestExpandBetsPartitionInvariant(t *testing.T) {
	bets := []WeightedBet{
		{Pattern: (Selection{1, 0, 0, 0, 0}).Pattern(), Winnings: 2},
		{Pattern: (Selection{1, 2, 0, 0, 0}).Pattern(), Winnings: 6},
		{Pattern: (Selection{0, 2, 3, 0, 0}).Pattern(), Winnings: 9},
		{Pattern: (Selection{4, 0, 0, 1, 2}).Pattern(), Winnings: 24},
		{Pattern: (Selection{1, 2, 0, 0, 0}).Pattern(), Winnings: 6}, // duplicate, must merge
	}
	res := ExpandBets(bets)

	var winners Selection
	for i := 0; i < 1024; i++ {
		n := i
		for a := 0; a < ArenaCount; a++ {
			winners[a] = uint8(n%4) + 1
			n /= 4
		}
		hits := regionsAccepting(res, winners)
		if len(hits) != 1 {
			t.Fatalf("winners %v matched %d regions, want exactly 1 (%v)", winners, len(hits), hits)
		}
	}
	for key := range res {
		if !Doable(key) {
			t.Fatalf("region %#x is not doable", key)
		}
	}
}

func TestExpandBetsPayouts(t *testing.T) {
	// Two overlapping bets: the joint region must pay the sum.
	bets := []WeightedBet{
		{Pattern: (Selection{1, 0, 0, 0, 0}).Pattern(), Winnings: 2},
		{Pattern: (Selection{1, 1, 0, 0, 0}).Pattern(), Winnings: 5},
	}
	res := ExpandBets(bets)
	winBoth := (Selection{1, 1, 1, 1, 1}).Binary()
	winFirst := (Selection{1, 2, 1, 1, 1}).Binary()
	winNone := (Selection{2, 1, 1, 1, 1}).Binary()
	check := func(winners uint32, want uint32) {
		t.Helper()
		for key, payout := range res {
			if key&winners == winners {
				if payout != want {
					t.Fatalf("winners %#x: got payout %d, want %d", winners, payout, want)
				}
				return
			}
		}
		t.Fatalf("winners %#x matched no region", winners)
	}
	check(winBoth, 7)
	check(winFirst, 2)
	check(winNone, 0)
}

func TestBuildChancesSingleBet(t *testing.T) {
	probs := uniformProbs()
	probs[0] = [ArenaCount]float64{1.0, 0.4, 0.2, 0.2, 0.2}
	bets := []WeightedBet{{Pattern: (Selection{1, 0, 0, 0, 0}).Pattern(), Winnings: 2}}

	chances := BuildChances(bets, probs)
	if len(chances) != 2 {
		t.Fatalf("expected 2 chance rows, got %d", len(chances))
	}
	if chances[0].Value != 0 || math.Abs(chances[0].Probability-0.6) > 1e-9 {
		t.Fatalf("bust row: got %+v, want value 0 prob 0.6", chances[0])
	}
	if chances[1].Value != 2 || math.Abs(chances[1].Probability-0.4) > 1e-9 {
		t.Fatalf("win row: got %+v, want value 2 prob 0.4", chances[1])
	}
	if math.Abs(chances[0].Cumulative-0.6) > 1e-9 || math.Abs(chances[1].Cumulative-1.0) > 1e-9 {
		t.Fatalf("cumulative: got %v %v", chances[0].Cumulative, chances[1].Cumulative)
	}
	if math.Abs(chances[0].Tail-1.0) > 1e-9 || math.Abs(chances[1].Tail-0.4) > 1e-9 {
		t.Fatalf("tail: got %v %v", chances[0].Tail, chances[1].Tail)
	}
}

func TestBuildChancesEmpty(t *testing.T) {
	chances := BuildChances(nil, uniformProbs())
	if len(chances) != 1 {
		t.Fatalf("expected the single certain-bust row, got %d rows", len(chances))
	}
	c := chances[0]
	if c.Value != 0 || math.Abs(c.Probability-1.0) > 1e-9 || math.Abs(c.Cumulative-1.0) > 1e-9 || math.Abs(c.Tail-1.0) > 1e-9 {
		t.Fatalf("certain-bust row mismatch: %+v", c)
	}
}

func TestBuildChancesNormalization(t *testing.T) {
	bets := []WeightedBet{
		{Pattern: (Selection{1, 2, 3, 0, 0}).Pattern(), Winnings: 12},
		{Pattern: (Selection{0, 2, 0, 4, 0}).Pattern(), Winnings: 8},
		{Pattern: (Selection{3, 0, 0, 0, 1}).Pattern(), Winnings: 4},
	}
	chances := BuildChances(bets, uniformProbs())
	sum := 0.0
	prevCum := 0.0
	prevTail := 1.0 + 1e-12
	var prevValue uint32
	for i, c := range chances {
		sum += c.Probability
		if i > 0 && c.Value <= prevValue {
			t.Fatalf("chance values not strictly ascending at %d", i)
		}
		if c.Cumulative < prevCum {
			t.Fatalf("cumulative decreased at %d", i)
		}
		if c.Tail > prevTail {
			t.Fatalf("tail increased at %d", i)
		}
		prevValue, prevCum, prevTail = c.Value, c.Cumulative, c.Tail
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1.0", sum)
	}
	if math.Abs(chances[len(chances)-1].Cumulative-1.0) > 1e-9 {
		t.Fatalf("last cumulative %v, want 1.0", chances[len(chances)-1].Cumulative)
	}
	if math.Abs(chances[0].Tail-1.0) > 1e-9 {
		t.Fatalf("first tail %v, want 1.0", chances[0].Tail)
	}
}

func TestSummarize(t *testing.T) {
	probs := uniformProbs()
	probs[0] = [ArenaCount]float64{1.0, 0.4, 0.2, 0.2, 0.2}
	bets := []WeightedBet{
		{Pattern: (Selection{1, 0, 0, 0, 0}).Pattern(), Winnings: 2},
		{Pattern: (Selection{2, 0, 0, 0, 0}).Pattern(), Winnings: 5},
	}
	chances := BuildChances(bets, probs)
	s := Summarize(chances, 2)
	if s.Bust == nil || math.Abs(s.Bust.Probability-0.4) > 1e-9 {
		t.Fatalf("bust: got %+v, want prob 0.4", s.Bust)
	}
	if s.Best.Value != 5 {
		t.Fatalf("best: got value %d, want 5", s.Best.Value)
	}
	if s.MostLikely.Value != 2 || math.Abs(s.MostLikely.Probability-0.4) > 1e-9 {
		t.Fatalf("most likely: got %+v", s.MostLikely)
	}
	// No payout falls strictly between 0 and the bet count here.
	if s.PartialRate != 0 {
		t.Fatalf("partial rate: got %v, want 0", s.PartialRate)
	}
}

func TestSummarizeGuaranteedCoverage(t *testing.T) {
	// All four competitors of one arena: no bust row can exist.
	var bets []WeightedBet
	for p := uint8(1); p <= PositionsPerArena; p++ {
		bets = append(bets, WeightedBet{Pattern: (Selection{p, 0, 0, 0, 0}).Pattern(), Winnings: uint32(p) * 3})
	}
	chances := BuildChances(bets, uniformProbs())
	s := Summarize(chances, len(bets))
	if s.Bust != nil {
		t.Fatalf("covering a whole arena must have no bust row, got %+v", s.Bust)
	}
}

func TestBetsHashRoundTrip(t *testing.T) {
	sels, err := DecodeBets("faa")
	if err != nil {
		t.Fatalf("decode faa: %v", err)
	}
	if len(sels) != 1 || sels[0] != (Selection{1, 0, 0, 0, 0}) {
		t.Fatalf("decode faa: got %v, want [[1 0 0 0 0]]", sels)
	}
	if got := EncodeBets(sels); got != "faa" {
		t.Fatalf("re-encode: got %q, want %q", got, "faa")
	}

	many := []Selection{
		{1, 2, 3, 4, 0},
		{0, 0, 1, 0, 2},
		{4, 4, 4, 4, 4},
	}
	got, err := DecodeBets(EncodeBets(many))
	if err != nil {
		t.Fatalf("round trip decode: %v", err)
	}
	if len(got) != len(many) {
		t.Fatalf("round trip length: got %d, want %d", len(got), len(many))
	}
	for i := range many {
		if got[i] != many[i] {
			t.Fatalf("round trip selection %d: got %v, want %v", i, got[i], many[i])
		}
	}
}

func TestBetsHashInvalid(t *testing.T) {
	if _, err := DecodeBets("fz"); err == nil {
		t.Fatalf("characters beyond 'y' must fail to decode")
	}
	if _, err := DecodeBets("fA"); err == nil {
		t.Fatalf("upper-case characters must fail to decode")
	}
}

func TestAmountsHashFixture(t *testing.T) {
	amounts := []int{50, 100, 150, 200, 250}
	const want = "AaYAbWAcUAdSAeQ"
	if got := EncodeAmounts(amounts); got != want {
		t.Fatalf("encode: got %q, want %q", got, want)
	}
	got, err := DecodeAmounts(want)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range amounts {
		if got[i] != amounts[i] {
			t.Fatalf("decode index %d: got %d, want %d", i, got[i], amounts[i])
		}
	}
}

func TestAmountsHashEdges(t *testing.T) {
	// Unset stakes encode as raw 0 and come back as 0.
	got, err := DecodeAmounts(EncodeAmounts([]int{0, BetAmountMin, BetAmountMax}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0] != 0 {
		t.Fatalf("unset stake: got %d, want 0", got[0])
	}
	if got[1] != BetAmountMin {
		t.Fatalf("min stake: got %d, want %d", got[1], BetAmountMin)
	}
	// BetAmountMax wraps to raw 0 under the modulo, decoding as unset.
	if got[2] != 0 {
		t.Fatalf("max stake wraps: got %d, want 0", got[2])
	}

	if _, err := DecodeAmounts("Aa"); err == nil {
		t.Fatalf("length not a multiple of 3 must fail")
	}
	if _, err := DecodeAmounts("Aa!"); err == nil {
		t.Fatalf("out-of-alphabet byte must fail")
	}
}
