package domain

import "time"

// SkillType classifies what a grant modifies.
type SkillType string

const (
	SkillYieldBoost    SkillType = "yield_boost"
	SkillFeeDiscount   SkillType = "fee_discount"
	SkillLockReduction SkillType = "lock_reduction"
)

// Valid reports whether t is a known skill type.
func (t SkillType) Valid() bool {
	switch t {
	case SkillYieldBoost, SkillFeeDiscount, SkillLockReduction:
		return true
	}
	return false
}

// Rarity is the collectible-token tier backing a grant. Its multiplier is
// taken as the maximum across an account's active grants, never summed.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// MultiplierPct returns the rarity multiplier in percent (100 = 1.0x).
func (r Rarity) MultiplierPct() int64 {
	switch r {
	case RarityUncommon:
		return 110
	case RarityRare:
		return 120
	case RarityEpic:
		return 150
	case RarityLegendary:
		return 180
	default:
		return 100
	}
}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// SkillGrant is one externally-issued modifier tied to a collectible token.
// At most one active grant per (account, token) pair.
type SkillGrant struct {
	AccountID   string    `json:"account_id"`
	TokenID     string    `json:"token_id"`
	SkillType   SkillType `json:"skill_type"`
	MagnitudeBP int64     `json:"magnitude_bp"`
	Active      bool      `json:"active"`
	ActivatedAt time.Time `json:"activated_at"`
}

// SkillProfile is the derived per-account aggregate the reward math consumes.
type SkillProfile struct {
	AccountID       string `json:"account_id"`
	YieldBoostBP    int64  `json:"yield_boost_bp"`   // summed, clamped to MaxYieldBoostBP
	RarityPct       int64  `json:"rarity_pct"`       // max across active grants, 100 = none
	FeeDiscountBP   int64  `json:"fee_discount_bp"`  // summed, capped at Basis
	LockReductionBP int64  `json:"lock_reduction_bp"` // summed, capped at Basis
	ActiveGrants    int    `json:"active_grants"`
}

// GrantSet is an insertion-ordered set of active grants keyed by token ID:
// O(1) membership and remove, ordered iteration for deterministic rescans.
type GrantSet struct {
	order []string
	byID  map[string]SkillGrant
}

// NewGrantSet builds a set from grants already in activation order.
func NewGrantSet(grants ...SkillGrant) *GrantSet {
	s := &GrantSet{byID: make(map[string]SkillGrant, len(grants))}
	for _, g := range grants {
		s.Add(g)
	}
	return s
}

// Add inserts the grant, replacing any previous grant for the same token
// without disturbing its position.
func (s *GrantSet) Add(g SkillGrant) {
	if s.byID == nil {
		s.byID = make(map[string]SkillGrant)
	}
	if _, ok := s.byID[g.TokenID]; !ok {
		s.order = append(s.order, g.TokenID)
	}
	s.byID[g.TokenID] = g
}

// Remove deletes the grant for tokenID, reporting whether it was present.
func (s *GrantSet) Remove(tokenID string) bool {
	if _, ok := s.byID[tokenID]; !ok {
		return false
	}
	delete(s.byID, tokenID)
	for i, id := range s.order {
		if id == tokenID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the grant for tokenID.
func (s *GrantSet) Get(tokenID string) (SkillGrant, bool) {
	g, ok := s.byID[tokenID]
	return g, ok
}

// Contains reports membership for tokenID.
func (s *GrantSet) Contains(tokenID string) bool {
	_, ok := s.byID[tokenID]
	return ok
}

// Len returns the number of grants in the set.
func (s *GrantSet) Len() int { return len(s.order) }

// All returns the grants in insertion order.
func (s *GrantSet) All() []SkillGrant {
	out := make([]SkillGrant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// DeriveProfile recomputes the aggregate figures from the full grant set,
// with rarity looked up per token. Revocations must go through this full
// rescan: the rarity multiplier is a maximum, so removing the grant that
// held it requires finding the new maximum among the survivors.
func (s *GrantSet) DeriveProfile(accountID string, rarityOf func(tokenID string) Rarity) SkillProfile {
	p := SkillProfile{AccountID: accountID, RarityPct: RarityCommon.MultiplierPct()}
	for _, id := range s.order {
		g := s.byID[id]
		switch g.SkillType {
		case SkillYieldBoost:
			p.YieldBoostBP += g.MagnitudeBP
		case SkillFeeDiscount:
			p.FeeDiscountBP += g.MagnitudeBP
		case SkillLockReduction:
			p.LockReductionBP += g.MagnitudeBP
		}
		if pct := rarityOf(id).MultiplierPct(); pct > p.RarityPct {
			p.RarityPct = pct
		}
		p.ActiveGrants++
	}
	if p.YieldBoostBP > MaxYieldBoostBP {
		p.YieldBoostBP = MaxYieldBoostBP
	}
	if p.FeeDiscountBP > Basis {
		p.FeeDiscountBP = Basis
	}
	if p.LockReductionBP > Basis {
		p.LockReductionBP = Basis
	}
	return p
}
