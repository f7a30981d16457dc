// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

// Unidentified is the district reported when nothing matched.
const Unidentified = "Não Identificado"

// Confidence is the trust level of a resolved district.
type Confidence string

// Confidence tiers, weakest last.
const (
	High   Confidence = "alta"
	Medium Confidence = "média"
	Low    Confidence = "baixa"
)

func (c Confidence) rank() int {
	switch c {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// Below reports whether c is a weaker tier than other.
func (c Confidence) Below(other Confidence) bool {
	return c.rank() < other.rank()
}

// Method names the strategy that produced a resolution.
type Method string

// Resolution methods, in chain order.
const (
	MethodOriginal     Method = "original"
	MethodAddress      Method = "address"
	MethodAlias        Method = "bairro"
	MethodSearch       Method = "nominatim_search"
	MethodReverse      Method = "nominatim_reverse"
	MethodUnidentified Method = "nao_identificado"
)

// Methods lists every method in the order summaries report them.
var Methods = []Method{
	MethodOriginal,
	MethodAddress,
	MethodAlias,
	MethodSearch,
	MethodReverse,
	MethodUnidentified,
}

// Step records one executed strategy of the chain.
type Step struct {
	Method     Method     `json:"method"`
	Matched    bool       `json:"matched"`
	Confidence Confidence `json:"confidence"`
}

// Resolution is the outcome of resolving one record.
type Resolution struct {
	District   string     `json:"district"`
	Confidence Confidence `json:"confidence"`
	Method     Method     `json:"method"`
	Steps      []Step     `json:"steps,omitempty"`
}

// Resolved reports whether a district was found.
func (r Resolution) Resolved() bool {
	return r.District != "" && r.District != Unidentified
}
