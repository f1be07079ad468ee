package types

type Direction string

type TradeType string

type MatchPolicy string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

const (
	TradeTypeScalp TradeType = "SCALP"
	TradeTypeSwing TradeType = "SWING"
	TradeTypeNone  TradeType = "NONE"
	TradeTypeSkip  TradeType = "SKIP"
)

const (
	// MatchPolicyExclusive never pairs an opening order with more than one
	// closing order.
	MatchPolicyExclusive MatchPolicy = "exclusive"
	// MatchPolicyReuse lets one opening order satisfy several closing orders
	// when no later entry on the same contract intervenes.
	MatchPolicyReuse MatchPolicy = "reuse"
)
