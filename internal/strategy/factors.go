package strategy

import (
	"fmt"

	"TrendScreener/internal/model"
)

// Rule thresholds.
const (
	NearHighRatio  = 0.90
	RSIBandLow     = 50.0
	RSIBandHigh    = 70.0
	BelowSMAPoints = -2
)

// scoreGoldenCross: +1 when the 50-day average is above the 200-day average.
func scoreGoldenCross(ind *model.IndicatorSet) model.RuleScore {
	if ind.SMA50 > ind.SMA200 {
		return model.RuleScore{Name: "Golden Cross", Points: 1, Passed: true,
			Commentary: fmt.Sprintf("SMA50 %.2f > SMA200 %.2f", ind.SMA50, ind.SMA200)}
	}
	return model.RuleScore{Name: "Golden Cross", Points: 0,
		Commentary: fmt.Sprintf("SMA50 %.2f <= SMA200 %.2f", ind.SMA50, ind.SMA200)}
}

// scoreNearHigh: +1 when price is within 10% of the 52-week high (Darvas proximity).
func scoreNearHigh(ind *model.IndicatorSet) model.RuleScore {
	threshold := ind.High52w * NearHighRatio
	if ind.Price >= threshold {
		return model.RuleScore{Name: "Near 52W High", Points: 1, Passed: true,
			Commentary: fmt.Sprintf("price %.2f >= %.2f", ind.Price, threshold)}
	}
	return model.RuleScore{Name: "Near 52W High", Points: 0,
		Commentary: fmt.Sprintf("price %.2f < %.2f", ind.Price, threshold)}
}

// scoreMomentum: +1 when RSI sits strictly inside (50, 70).
func scoreMomentum(ind *model.IndicatorSet) model.RuleScore {
	if ind.RSI14 > RSIBandLow && ind.RSI14 < RSIBandHigh {
		return model.RuleScore{Name: "RSI Momentum", Points: 1, Passed: true,
			Commentary: fmt.Sprintf("RSI=%.1f", ind.RSI14)}
	}
	comment := fmt.Sprintf("RSI=%.1f weak", ind.RSI14)
	if ind.RSI14 >= RSIBandHigh {
		comment = fmt.Sprintf("RSI=%.1f overbought", ind.RSI14)
	}
	return model.RuleScore{Name: "RSI Momentum", Points: 0, Commentary: comment}
}

// scoreLongTrend: +1 above the 200-day average, -2 at or below it.
func scoreLongTrend(ind *model.IndicatorSet) model.RuleScore {
	if ind.Price > ind.SMA200 {
		return model.RuleScore{Name: "Above SMA200", Points: 1, Passed: true,
			Commentary: fmt.Sprintf("price %.2f > %.2f", ind.Price, ind.SMA200)}
	}
	return model.RuleScore{Name: "Above SMA200", Points: BelowSMAPoints,
		Commentary: fmt.Sprintf("price %.2f <= %.2f", ind.Price, ind.SMA200)}
}

// Score applies all four rules and returns them with their sum.
func Score(ind *model.IndicatorSet) ([]model.RuleScore, int) {
	rules := []model.RuleScore{
		scoreGoldenCross(ind),
		scoreNearHigh(ind),
		scoreMomentum(ind),
		scoreLongTrend(ind),
	}
	total := 0
	for _, r := range rules {
		total += r.Points
	}
	return rules, total
}
