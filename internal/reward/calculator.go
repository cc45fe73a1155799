// Package reward holds the pure yield math: deterministic conversion of
// (principal, lock tier, elapsed time, tenure, boost, rarity) into a payout
// amount. No stored state; every division truncates so rounding can never
// create value.
package reward

import (
	"time"

	"github.com/novakeep/stakevault/internal/domain"
)

// Per-hour yield rates scaled by domain.RateScale. Longer locks earn more.
const (
	RateFlexible = 9132  // ~8% APR
	Rate30       = 13698 // ~12% APR
	Rate90       = 20547 // ~18% APR
	Rate180      = 29680 // ~26% APR
	Rate365      = 41095 // ~36% APR
)

// Input carries everything the calculator needs for one deposit.
type Input struct {
	Principal   int64
	LockTier    domain.LockTier
	CreatedAt   time.Time
	LastClaimAt time.Time
	Now         time.Time

	// Boost composition, applied only when Boosted is set. BoostBP is
	// clamped to domain.MaxYieldBoostBP; RarityPct multiplies on top when
	// above 100.
	Boosted   bool
	BoostBP   int64
	RarityPct int64
}

// HourlyRate returns the tier's per-hour rate scaled by domain.RateScale.
func HourlyRate(tier domain.LockTier) int64 {
	switch tier {
	case domain.Tier30:
		return Rate30
	case domain.Tier90:
		return Rate90
	case domain.Tier180:
		return Rate180
	case domain.Tier365:
		return Rate365
	default:
		return RateFlexible
	}
}

// MaxAccrualHours returns the elapsed-hour count at which a deposit of the
// given tier reaches the ROI cap. The clamp bounds rate*hours at
// MaxROIBP*RateScale/Basis regardless of tier.
func MaxAccrualHours(tier domain.LockTier) int64 {
	rate := HourlyRate(tier)
	return int64(domain.MaxROIBP) * domain.RateScale / (domain.Basis * rate)
}

// TenureBonusBP returns the basis-point bonus for a deposit held since
// createdAt. Only the highest matched threshold applies.
func TenureBonusBP(createdAt, now time.Time) int64 {
	held := now.Sub(createdAt)
	switch {
	case held >= 365*24*time.Hour:
		return domain.TenureBonus365BP
	case held >= 180*24*time.Hour:
		return domain.TenureBonus180BP
	case held >= 90*24*time.Hour:
		return domain.TenureBonus90BP
	case held >= 30*24*time.Hour:
		return domain.TenureBonus30BP
	default:
		return 0
	}
}

// Calculate runs the reward formula for one deposit:
//
//  1. whole elapsed hours since last claim; zero hours accrues nothing
//  2. base = principal * tierRate * hours / RateScale, capped at
//     principal * MaxROI
//  3. tenure bonus on top of base, highest threshold only
//  4. boosted calls multiply by (Basis + cappedBoost) and then by the rarity
//     percent - this is the single place boost and rarity compose
func Calculate(in Input) int64 {
	if in.Principal <= 0 {
		return 0
	}
	hours := int64(in.Now.Sub(in.LastClaimAt) / time.Hour)
	if hours <= 0 {
		return 0
	}

	rate := HourlyRate(in.LockTier)
	if maxHours := MaxAccrualHours(in.LockTier); hours > maxHours {
		hours = maxHours
	}

	// rate*hours never exceeds MaxROIBP*RateScale/Basis after the clamp, so
	// splitting the principal at RateScale keeps every term inside int64 for
	// principals far beyond MaxStakeAmount.
	q, r := in.Principal/domain.RateScale, in.Principal%domain.RateScale
	base := q*rate*hours + r*rate*hours/domain.RateScale
	if roiCap := in.Principal * domain.MaxROIBP / domain.Basis; base > roiCap {
		base = roiCap
	}

	if bonus := TenureBonusBP(in.CreatedAt, in.Now); bonus > 0 {
		base += base * bonus / domain.Basis
	}

	if !in.Boosted {
		return base
	}

	boost := in.BoostBP
	if boost > domain.MaxYieldBoostBP {
		boost = domain.MaxYieldBoostBP
	}
	if boost < 0 {
		boost = 0
	}
	v := base * (domain.Basis + boost) / domain.Basis
	if in.RarityPct > 100 {
		v = v * in.RarityPct / 100
	}
	return v
}
