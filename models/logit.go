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

package models

import (
	"math"

	"github.com/zintix-labs/wagerlab/arena"
	"github.com/zintix-labs/wagerlab/spec"
)

// LogitProbabilities 多項 logit 模型：每名參賽者的強度 =
// 截距 + 名次係數（名次 2..4 各有一組），softmax 後即場內勝率。
// 係數由歷史回合擬合而得，需不時更新。
func LogitProbabilities(as *arena.Arenas) Matrix {
	var probs Matrix
	for a := range as {
		probs[a][0] = 1.0

		var expStrength [spec.CompetitorsPerArena + 1]float64
		total := 0.0
		for i := range as[a].Competitors {
			c := &as[a].Competitors[i]
			strength := logitIntercepts[c.ID-1]
			switch c.Index {
			case 2:
				strength += logitIsPos2[c.ID-1]
			case 3:
				strength += logitIsPos3[c.ID-1]
			case 4:
				strength += logitIsPos4[c.ID-1]
			}
			expStrength[c.Index] = math.Exp(strength)
			total += expStrength[c.Index]
		}
		for p := 1; p <= spec.CompetitorsPerArena; p++ {
			probs[a][p] = expStrength[p] / total
		}
	}
	return probs
}

// 以下係數對應參賽者編號 1..20。

var logitIntercepts = [spec.CompetitorIDMax]float64{
	-0.5505653467394124,
	-2.3848388387111976,
	-3.478558254027841,
	-1.3890053586244873,
	-1.9176565939575803,
	-2.5675152075793033,
	-2.3143353273249554,
	-2.8313558799919383,
	-3.9019335823968233,
	-3.5882258128035347,
	-3.148241571143587,
	-2.169326502336402,
	-1.7062936735036478,
	-2.5503454346078662,
	0.0,
	-1.2578784592762349,
	-1.059757385133957,
	-2.1826351058662317,
	-0.5605783719468618,
	-1.6608180038196982,
}

var logitIsPos2 = [spec.CompetitorIDMax]float64{
	0.021158502802025428,
	0.03925417444943404,
	0.26431710202585473,
	0.31204429700932157,
	0.2958881513832007,
	0.35684570379893654,
	0.29791053710022725,
	-0.11960842734248468,
	0.14139644699383916,
	0.5322022445170629,
	0.5803122626887958,
	0.1789614080028699,
	0.35757006302708166,
	0.17338557991857295,
	0.09614330673313873,
	0.04440766774743298,
	0.005601266028481538,
	0.3639425702087654,
	0.2017361653921105,
	0.22341637538608014,
}

var logitIsPos3 = [spec.CompetitorIDMax]float64{
	0.2939627190206121,
	0.4130356702811393,
	0.6063865575638252,
	0.552110704899289,
	0.6067388559201926,
	0.535076605287585,
	0.6017889410092438,
	0.09687539841588022,
	0.5246865975316289,
	0.955721909292628,
	0.638887704243457,
	0.5345584917407379,
	0.6023746907980592,
	0.4677057109696638,
	0.41924324400559815,
	0.3342400003455908,
	0.1814355382118914,
	0.5712980298733475,
	0.5188904607014326,
	0.6170900411945157,
}

var logitIsPos4 = [spec.CompetitorIDMax]float64{
	0.47071198282107324,
	0.6068520106680823,
	0.8057835563581863,
	0.8603270179693671,
	0.8307141863013495,
	0.7744623469044476,
	0.7588736594904442,
	0.537381718645823,
	0.8503685148423967,
	1.0968633716245804,
	1.021466842781995,
	0.9041512251652759,
	0.9873876941901989,
	0.7178740178709884,
	0.542178134331314,
	0.6754851261575676,
	0.5015137805345499,
	0.8849107940325963,
	0.7538567262883,
	0.9079073224460276,
}
