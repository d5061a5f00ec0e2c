// Package ranker assembles the rerank function payloads understood by the
// vector database. Only the payloads live here; the ranking math itself runs
// inside the external service.
package ranker

import (
	"fmt"

	"github.com/paperdex/paperdex/internal/domain/search/options"
)

// Boost ranker constants: recent papers and highly cited papers get a fixed
// score multiplier.
const (
	RecencyYear       = 2022
	RecencyWeight     = 1.3
	CitationFloor     = 500
	CitationWeight    = 1.2
	functionReranking = "RERANK"
)

// Function is a single rerank function payload in the vector database's
// wire format.
type Function struct {
	Name            string         `json:"name"`
	InputFieldNames []string       `json:"inputFieldNames"`
	FunctionType    string         `json:"functionType"`
	Params          map[string]any `json:"params"`
}

// FromOptions assembles the rerank functions implied by the search options,
// in the order decay, boost tiers, boost ranker. Returns nil when no ranker
// toggle is enabled.
func FromOptions(o *options.Options) []Function {
	var functions []Function
	if o.UseTimeDecay() {
		functions = append(functions, Decay(o.TimeDecay()))
	}
	if o.UseBoost() {
		functions = append(functions, BoostTiers(o.Boost())...)
	}
	if o.UseBoostRanker() {
		functions = append(functions, BoostRanker()...)
	}
	return functions
}

// Decay builds an exponential time-decay reranker over the year field.
func Decay(p options.TimeDecay) Function {
	return Function{
		Name:            "time_decay_exp",
		InputFieldNames: []string{"year"},
		FunctionType:    functionReranking,
		Params: map[string]any{
			"reranker": "decay",
			"function": "exp",
			"origin":   p.Origin,
			"offset":   p.Offset,
			"decay":    p.Decay,
			"scale":    p.Scale,
		},
	}
}

// BoostTiers builds three boost rerankers over citation-count tiers:
// (t0, t1], (t1, t2], and above t2.
func BoostTiers(p options.Boost) []Function {
	t := p.CitationThresholds
	w := p.Weights
	return []Function{
		boost(fmt.Sprintf("boost_%d", t[0]),
			fmt.Sprintf("citationcount > %d and citationcount <= %d", t[0], t[1]), w[0]),
		boost(fmt.Sprintf("boost_%d", t[1]),
			fmt.Sprintf("citationcount > %d and citationcount <= %d", t[1], t[2]), w[1]),
		boost(fmt.Sprintf("boost_%d", t[2]),
			fmt.Sprintf("citationcount > %d", t[2]), w[2]),
	}
}

// BoostRanker builds the fixed recency and citation boost pair.
func BoostRanker() []Function {
	return []Function{
		boost("boost_ranker_recency",
			fmt.Sprintf("year >= %d", RecencyYear), RecencyWeight),
		boost("boost_ranker_citations",
			fmt.Sprintf("citationcount >= %d", CitationFloor), CitationWeight),
	}
}

func boost(name, filter string, weight float64) Function {
	return Function{
		Name:            name,
		InputFieldNames: []string{},
		FunctionType:    functionReranking,
		Params: map[string]any{
			"reranker": "boost",
			"filter":   filter,
			"weight":   weight,
		},
	}
}
