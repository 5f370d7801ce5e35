// Package indicator provides pure, stateless technical indicators over flat
// price series. Every function returns a slice of the same length as its
// input, left-padded with NaN for indices that lack sufficient history.
package indicator

import "math"

// nanSlice returns a slice of n NaNs.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA computes the simple moving average over the trailing period values.
// A non-positive period yields an all-NaN result.
func SMA(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}
	var sum float64
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average with smoothing k = 2/(period+1),
// seeded with the SMA of the first block of `period` consecutive non-NaN
// inputs. Once the input or the running EMA turns NaN after seeding, the
// output stays NaN for the rest of the series; there is no re-seeding.
func EMA(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	run := 0
	seeded := false
	for i, p := range prices {
		if seeded {
			if math.IsNaN(p) {
				break
			}
			out[i] = p*k + out[i-1]*(1-k)
			continue
		}
		if math.IsNaN(p) {
			run = 0
			continue
		}
		run++
		if run == period {
			var sum float64
			for j := i - period + 1; j <= i; j++ {
				sum += prices[j]
			}
			out[i] = sum / float64(period)
			seeded = true
		}
	}
	return out
}

// RSI computes the relative strength index using Wilder smoothing. The seed
// average gain/loss is the simple mean of the first `period` price changes;
// later values use avg = (avg*(period-1)+current)/period. When the average
// loss is zero the RSI is pinned at 100.
func RSI(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 || len(prices) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// MACDResult holds the three MACD series.
type MACDResult struct {
	MACDLine   []float64
	SignalLine []float64
	Histogram  []float64
}

// MACD computes the MACD line (EMA(short) - EMA(long)), its signal line
// (EMA of the MACD line over signalPeriod, NaN-aware), and the histogram.
// The configuration is invalid when short >= long or any period is
// non-positive; invalid configurations yield all-NaN output.
func MACD(prices []float64, short, long, signalPeriod int) MACDResult {
	n := len(prices)
	if short <= 0 || long <= 0 || signalPeriod <= 0 || short >= long {
		return MACDResult{
			MACDLine:   nanSlice(n),
			SignalLine: nanSlice(n),
			Histogram:  nanSlice(n),
		}
	}

	emaShort := EMA(prices, short)
	emaLong := EMA(prices, long)
	macdLine := make([]float64, n)
	for i := 0; i < n; i++ {
		macdLine[i] = emaShort[i] - emaLong[i] // NaN-propagating
	}

	signalLine := EMA(macdLine, signalPeriod)
	histogram := make([]float64, n)
	for i := 0; i < n; i++ {
		histogram[i] = macdLine[i] - signalLine[i]
	}
	return MACDResult{MACDLine: macdLine, SignalLine: signalLine, Histogram: histogram}
}

// BollingerResult holds the three Bollinger band series.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerBands computes the middle band (SMA) and upper/lower bands offset
// by multiplier times the population standard deviation of the trailing
// window.
func BollingerBands(prices []float64, period int, multiplier float64) BollingerResult {
	n := len(prices)
	middle := SMA(prices, period)
	upper := nanSlice(n)
	lower := nanSlice(n)
	if period <= 0 {
		return BollingerResult{Upper: upper, Middle: middle, Lower: lower}
	}
	for i := period - 1; i < n; i++ {
		if math.IsNaN(middle[i]) {
			continue
		}
		var varSum float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - middle[i]
			varSum += d * d
		}
		std := math.Sqrt(varSum / float64(period))
		upper[i] = middle[i] + multiplier*std
		lower[i] = middle[i] - multiplier*std
	}
	return BollingerResult{Upper: upper, Middle: middle, Lower: lower}
}
