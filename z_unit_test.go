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

package wagerlab_test

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/zintix-labs/wagerlab"
	"github.com/zintix-labs/wagerlab/sdk/betmath"
	"github.com/zintix-labs/wagerlab/spec"
)

const round8765JSON = `{"foods":[[5,20,24,21,18,7,34,29,38,8],[26,24,20,36,33,40,5,13,8,25],[5,29,22,31,40,27,30,4,8,19],[35,19,36,5,12,37,6,3,29,30],[28,24,36,17,18,9,1,33,19,3]],"round":8765,"start":"2023-05-05T23:14:57+00:00","changes":[{"t":"2023-05-06T00:17:30+00:00","new":7,"old":5,"arena":1,"pirate":3},{"t":"2023-05-06T00:21:43+00:00","new":10,"old":8,"arena":3,"pirate":2}],"pirates":[[6,11,4,3],[14,15,2,9],[10,16,18,20],[1,12,13,5],[8,19,17,7]],"winners":[3,2,3,2,2],"timestamp":"2023-05-06T23:14:20+00:00","lastChange":"2023-05-06T19:21:01+00:00","currentOdds":[[1,11,3,2,3],[1,13,2,7,13],[1,13,2,4,2],[1,2,10,6,6],[1,13,4,2,4]],"openingOdds":[[1,11,3,2,4],[1,13,2,5,13],[1,13,2,5,2],[1,2,8,5,5],[1,13,3,2,4]]}`

const round7956URL = `https://neofood.club/#round=7956&pirates=[[2,8,14,11],[20,7,6,10],[19,4,12,15],[3,1,5,13],[17,16,18,9]]&openingOdds=[[1,2,13,3,5],[1,4,2,4,5],[1,3,13,7,2],[1,13,2,3,3],[1,8,2,4,12]]&currentOdds=[[1,2,13,3,5],[1,4,2,4,6],[1,3,13,7,2],[1,13,2,3,3],[1,8,2,4,12]]&foods=[[26,25,4,9,21,1,33,11,7,10],[12,9,14,35,25,6,21,19,40,37],[17,30,21,39,37,15,29,40,31,10],[10,18,35,9,34,23,27,32,28,12],[11,20,9,33,7,14,4,23,31,26]]&winners=[1,3,4,2,4]&timestamp=2021-02-16T23:47:37+00:00`

func testRound(t *testing.T, amount int) *wagerlab.Round {
	t.Helper()
	r, err := wagerlab.FromJSON([]byte(round8765JSON), wagerlab.Options{BetAmount: amount})
	if err != nil {
		t.Fatalf("build round: %v", err)
	}
	return r
}

func TestRoundBasics(t *testing.T) {
	r := testRound(t, 0)
	if r.Number() != 8765 {
		t.Fatalf("round number: got %d", r.Number())
	}
	if !r.IsOver() {
		t.Fatalf("round 8765 is over")
	}
	if got := r.WinnersBinary(); got != 0x24244 {
		t.Fatalf("winners binary: got 0x%05X, want 0x24244", got)
	}
	if r.MaxBets() != spec.BetCapDefault {
		t.Fatalf("max bets: got %d", r.MaxBets())
	}
	winners := r.WinningCompetitors()
	if len(winners) != spec.ArenaCount {
		t.Fatalf("winning competitors: got %d", len(winners))
	}
	if winners[1].ID != 15 || winners[1].Name() != "Gooblah" {
		t.Fatalf("lagoon winner: got %d (%s)", winners[1].ID, winners[1].Name())
	}
}

func TestArenaOrdering(t *testing.T) {
	r := testRound(t, 0)
	pos := r.PositiveArenas()
	if len(pos) != 2 || pos[0].Name() != "Lagoon" || pos[1].Name() != "Hidden" {
		names := make([]string, len(pos))
		for i, a := range pos {
			names[i] = a.Name()
		}
		t.Fatalf("positives: got %v, want [Lagoon Hidden]", names)
	}
	best := r.Arenas.Best()
	want := []string{"Lagoon", "Hidden", "Harpoon", "Shipwreck", "Treasure"}
	for i, a := range best {
		if a.Name() != want[i] {
			t.Fatalf("best order at %d: got %s, want %s", i, a.Name(), want[i])
		}
	}
}

func TestMakeAllBets(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.MakeAllBets()
	if err != nil {
		t.Fatalf("make all bets: %v", err)
	}
	if b.Len() != betmath.TableSize {
		t.Fatalf("all bets: got %d, want %d", b.Len(), betmath.TableSize)
	}
	sum := 0.0
	for _, c := range b.Chances {
		sum += c.Probability
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("chance probabilities sum to %v", sum)
	}
}

func TestMakeBustproofBets(t *testing.T) {
	r := testRound(t, 8000)
	b, err := r.MakeBustproofBets()
	if err != nil {
		t.Fatalf("make bustproof bets: %v", err)
	}

	bins := slices.Clone(b.Binaries)
	slices.Sort(bins)
	wantBins := []uint32{4096, 8192, 16400, 16416, 16448, 16512, 32768}
	if !slices.Equal(bins, wantBins) {
		t.Fatalf("bustproof binaries: got %v, want %v", bins, wantBins)
	}

	amounts := b.Amounts()
	slices.Sort(amounts)
	wantAmounts := []int{1600, 2461, 2461, 2666, 2666, 4571, 8000}
	if !slices.Equal(amounts, wantAmounts) {
		t.Fatalf("bustproof amounts: got %v, want %v", amounts, wantAmounts)
	}

	if !b.IsBustproof() {
		t.Fatalf("bustproof set reports a bust level: %+v", b.Chances[0])
	}
	if !b.IsGuaranteedWin() {
		t.Fatalf("equalized bustproof stakes must guarantee a profit")
	}
	if got := r.WinUnits(b); got != 20 {
		t.Fatalf("win units: got %d, want 20", got)
	}
	if got := r.WinPayout(b); got != 32000 {
		t.Fatalf("win payout: got %d, want 32000", got)
	}
}

func TestMakeMaxTERBets(t *testing.T) {
	r := testRound(t, 8000)
	b, err := r.MakeMaxTERBets()
	if err != nil {
		t.Fatalf("make max ter bets: %v", err)
	}
	if b.Len() != r.MaxBets() {
		t.Fatalf("bet count: got %d, want %d", b.Len(), r.MaxBets())
	}
	if amts := b.Amounts(); len(amts) != b.Len() {
		t.Fatalf("amounts not filled: %v", amts)
	}
	if ne := b.NetExpected(); ne <= 56316 {
		t.Fatalf("net expected: got %v, want > 56316", ne)
	}
}

func TestMakeGambitBets(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.MakeWinningGambitBets()
	if err != nil {
		t.Fatalf("winning gambit: %v", err)
	}
	if !b.IsGambit() {
		t.Fatalf("winning gambit set is not a gambit")
	}
	if b.Len() != r.MaxBets() {
		t.Fatalf("gambit length: got %d", b.Len())
	}
	// 全子集裡聯合賠率最高的是五場全選本身，必定排第一。
	if b.Binaries[0] != 0x24244 {
		t.Fatalf("top gambit bet: got 0x%05X, want 0x24244", b.Binaries[0])
	}
	for _, bin := range b.Binaries {
		if bin&0x24244 != bin {
			t.Fatalf("gambit bet 0x%05X escapes the base binary", bin)
		}
	}

	if _, err := r.MakeGambitBets(0x4040); err == nil {
		t.Fatalf("partial binary must be rejected")
	}

	rd, err := spec.GetRoundDataByJSON([]byte(round8765JSON))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	rd.Winners = nil
	open, err := wagerlab.NewRound(rd, wagerlab.Options{})
	if err != nil {
		t.Fatalf("build open round: %v", err)
	}
	if _, err := open.MakeWinningGambitBets(); err == nil {
		t.Fatalf("winning gambit needs a finished round")
	}
}

func TestMakeBestGambitBets(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.MakeBestGambitBets()
	if err != nil {
		t.Fatalf("best gambit: %v", err)
	}
	if !b.IsGambit() || b.Len() != r.MaxBets() {
		t.Fatalf("best gambit: len %d, gambit %t", b.Len(), b.IsGambit())
	}
}

func TestMakeTenbetBets(t *testing.T) {
	r := testRound(t, 0)
	pinned := betmath.CompetitorBinary(1, 2) // Lagoon, position 2
	b, err := r.MakeTenbetBets(pinned)
	if err != nil {
		t.Fatalf("make tenbet bets: %v", err)
	}
	if b.Len() != r.MaxBets() {
		t.Fatalf("tenbet length: got %d", b.Len())
	}
	for _, bin := range b.Binaries {
		if bin&pinned != pinned {
			t.Fatalf("bet 0x%05X misses the pinned competitor", bin)
		}
	}
	if !b.IsTenbet() {
		t.Fatalf("ten bets sharing a competitor must report tenbet")
	}
	if b.CountTenbets() < 1 {
		t.Fatalf("count tenbets: got %d", b.CountTenbets())
	}

	if _, err := r.MakeTenbetBets(0); err == nil {
		t.Fatalf("zero pins must be rejected")
	}
	if _, err := r.MakeTenbetBets(0x88880); err == nil {
		t.Fatalf("four pins must be rejected")
	}
	if _, err := r.MakeTenbetBets(0xC000); err == nil {
		t.Fatalf("two pins in one arena must be rejected")
	}
}

func TestMakeCrazyAndRandomBets(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.MakeCrazyBets()
	if err != nil {
		t.Fatalf("make crazy bets: %v", err)
	}
	if !b.IsCrazy() || b.Len() != r.MaxBets() {
		t.Fatalf("crazy bets: len %d, crazy %t", b.Len(), b.IsCrazy())
	}

	b, err = r.MakeRandomBets()
	if err != nil {
		t.Fatalf("make random bets: %v", err)
	}
	if b.Len() != r.MaxBets() {
		t.Fatalf("random bets: got %d", b.Len())
	}
}

func TestMakeUnitsBets(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.MakeUnitsBets(20)
	if err != nil {
		t.Fatalf("make units bets: %v", err)
	}
	for _, o := range b.OddsValues() {
		if o < 20 {
			t.Fatalf("units bet pays %d, want >= 20", o)
		}
	}
	if _, err := r.MakeUnitsBets(1 << 30); err == nil {
		t.Fatalf("unreachable units target must be rejected")
	}
}

func TestCrazyHashRoundTrip(t *testing.T) {
	r := testRound(t, 0)
	const hash = "ltqvqwgimhqtvrnywrwvijwnn"
	b, err := r.NewBetsFromHash(hash, "")
	if err != nil {
		t.Fatalf("load crazy hash: %v", err)
	}
	if b.Len() != 10 || !b.IsCrazy() {
		t.Fatalf("crazy hash: len %d, crazy %t", b.Len(), b.IsCrazy())
	}
	if got := b.Hash(); got != hash {
		t.Fatalf("hash round trip: got %q, want %q", got, hash)
	}
}

func TestFromURLWinPayout(t *testing.T) {
	r, err := wagerlab.FromURL(round7956URL, wagerlab.Options{BetAmount: 8000})
	if err != nil {
		t.Fatalf("build round from url: %v", err)
	}
	b, err := r.NewBetsFromHash("aukacfukycuulacauutcbukdc", "")
	if err != nil {
		t.Fatalf("load bets hash: %v", err)
	}
	b.FillAmounts()
	if got := r.WinPayout(b); got != 192000 {
		t.Fatalf("win payout: got %d, want 192000", got)
	}
}

func TestMakeURL(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.NewBetsFromBinaries([]uint32{0x24244})
	if err != nil {
		t.Fatalf("build bets: %v", err)
	}
	url := r.MakeURL(b)
	if !strings.HasPrefix(url, "https://neofood.club/#round=8765&b=") {
		t.Fatalf("url: got %q", url)
	}
	if strings.Contains(url, "&a=") {
		t.Fatalf("no amounts, no &a=: %q", url)
	}
}

func TestReportRender(t *testing.T) {
	r := testRound(t, 8000)
	b, err := r.MakeBustproofBets()
	if err != nil {
		t.Fatalf("make bustproof bets: %v", err)
	}
	rep := r.Report(b)
	if rep.Round != 8765 || len(rep.Bets) != b.Len() {
		t.Fatalf("report shape: round %d, bets %d", rep.Round, len(rep.Bets))
	}
	if !rep.Bustproof {
		t.Fatalf("report must carry the bustproof flag")
	}
	table := rep.BetTable()
	if !strings.Contains(table, "Gooblah") {
		t.Fatalf("bet table misses the lagoon pick:\n%s", table)
	}
	if !strings.Contains(rep.StatsTable(), "Bustproof") {
		t.Fatalf("stats table misses the bustproof row")
	}

	var sb strings.Builder
	if err := (&wagerlab.YAMLBetReportRender{}).Write(&sb, rep); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	if !strings.Contains(sb.String(), "bustproof: true") {
		t.Fatalf("yaml render misses fields:\n%s", sb.String())
	}
}

func TestVerifier(t *testing.T) {
	r := testRound(t, 0)
	b, err := r.MakeBustproofBets()
	if err != nil {
		t.Fatalf("make bustproof bets: %v", err)
	}
	v, err := wagerlab.NewVerifierWithSeed(r, b, 20230506)
	if err != nil {
		t.Fatalf("build verifier: %v", err)
	}
	rep, err := v.VerifyMP(20000, 4, false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rep.Trials != 20000 || len(rep.Rows) != len(b.Chances) {
		t.Fatalf("report shape: trials %d, rows %d", rep.Trials, len(rep.Rows))
	}
	sum := 0.0
	for _, row := range rep.Rows {
		sum += row.Observed
	}
	// 每個可能的開獎結果都會落在某個理論獎金階層上。
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("observed frequencies sum to %v", sum)
	}
	if rep.MeanER <= 0 {
		t.Fatalf("mean ER: got %v", rep.MeanER)
	}
}

func TestBetsPredicates(t *testing.T) {
	r := testRound(t, 0)
	single, err := r.NewBetsFromBinaries([]uint32{0x24244})
	if err != nil {
		t.Fatalf("build bets: %v", err)
	}
	if single.IsGambit() {
		t.Fatalf("a single bet is not a gambit")
	}
	if !single.IsCrazy() {
		t.Fatalf("a full five arena bet is crazy")
	}
	if single.IsTenbet() {
		t.Fatalf("one bet is not a tenbet set")
	}

	// 五注分散在五個不同競技場：OR 起來雖是合法的五場全選，
	// 但最大的遮罩本身只有一個 bit，不是 gambit。
	spread, err := r.NewBetsFromBinaries([]uint32{0x80000, 0x8000, 0x800, 0x80, 0x8})
	if err != nil {
		t.Fatalf("build spread bets: %v", err)
	}
	if spread.IsGambit() {
		t.Fatalf("five single picks across five arenas are not a gambit")
	}

	empty, err := r.NewBets(nil)
	if err != nil {
		t.Fatalf("build empty bets: %v", err)
	}
	if !empty.IsEmpty() || empty.IsBustproof() || empty.IsCrazy() {
		t.Fatalf("empty bets must report no properties")
	}

	if _, err := r.NewBets([]int{betmath.TableSize}); err == nil {
		t.Fatalf("out of range index must be rejected")
	}
	if _, err := r.NewBetsFromBinaries([]uint32{0}); err == nil {
		t.Fatalf("zero binary must be rejected")
	}
}

func TestSingleArenaChances(t *testing.T) {
	r := testRound(t, 0)
	// 押滿 Lagoon 四名：每種開獎結果都恰中其中一注，分布不可能有獎金 0 的列。
	b, err := r.NewBetsFromBinaries([]uint32{0x8000, 0x4000, 0x2000, 0x1000})
	if err != nil {
		t.Fatalf("build bets: %v", err)
	}
	if !b.IsBustproof() {
		t.Fatalf("full arena coverage reports a bust level: %+v", b.Chances[0])
	}
	// Lagoon 現時賠率 13/2/7/13，獎金階層去重後剩三層。
	values := make([]uint32, len(b.Chances))
	sum := 0.0
	for i, c := range b.Chances {
		values[i] = c.Value
		sum += c.Probability
	}
	if !slices.Equal(values, []uint32{2, 7, 13}) {
		t.Fatalf("chance values: got %v, want [2 7 13]", values)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("chance probabilities sum to %v", sum)
	}
}

func TestGuaranteedWinEqualizedStakes(t *testing.T) {
	// Lagoon 四名賠率全壓成 2：賠率倒數和為 2，最差實得獎金低於注金總額，
	// 但每注中獎的實得 2000 仍高於最高單注注金 1000，依定義是穩賺。
	mod := &spec.Modifier{CustomOdds: map[uint8]uint32{14: 2, 15: 2, 2: 2, 9: 2}}
	r, err := wagerlab.FromJSON([]byte(round8765JSON), wagerlab.Options{Modifier: mod})
	if err != nil {
		t.Fatalf("build round: %v", err)
	}
	b, err := r.NewBetsFromBinaries([]uint32{0x8000, 0x4000, 0x2000, 0x1000})
	if err != nil {
		t.Fatalf("build bets: %v", err)
	}
	if err := b.SetAmounts([]int{1000, 1000, 1000, 1000}); err != nil {
		t.Fatalf("set amounts: %v", err)
	}
	if !b.IsBustproof() {
		t.Fatalf("full arena coverage must be bustproof")
	}
	if !b.IsGuaranteedWin() {
		t.Fatalf("equalized stakes with every win above the max stake must be a guaranteed win")
	}

	// 任何一注沒配注就不算穩賺。
	if err := b.SetAmounts([]int{1000, 1000, 1000, 0}); err != nil {
		t.Fatalf("set amounts: %v", err)
	}
	if b.IsGuaranteedWin() {
		t.Fatalf("an unset stake must break the guarantee")
	}

	if err := b.SetAmounts([]int{1000}); err == nil {
		t.Fatalf("stake count mismatch must be rejected")
	}
}
