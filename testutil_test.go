package ssa

import "math"

// expDist is a minimal exponential distribution used across this
// package's tests, implementing Distribution[float64] and
// RateDistribution[float64] directly from the closed-form exponential
// formulas rather than depending on an external stats package.
type expDist struct {
	rate float64
}

func (d expDist) Rate() float64 { return d.rate }

func (d expDist) Rand(rng Rand) float64 {
	return -math.Log(1-rng.Float64()) / d.rate
}

func (d expDist) PDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return d.rate * math.Exp(-d.rate*x)
}

func (d expDist) LogPDF(x float64) float64 {
	if x < 0 {
		return math.Inf(-1)
	}
	return math.Log(d.rate) - d.rate*x
}

func (d expDist) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-d.rate*x)
}

func (d expDist) CCDF(x float64) float64 {
	if x < 0 {
		return 1
	}
	return math.Exp(-d.rate * x)
}

func (d expDist) LogCCDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return -d.rate * x
}

func (d expDist) Quantile(p float64) float64 {
	return -math.Log(1-p) / d.rate
}

func (d expDist) CQuantile(p float64) float64 {
	return -math.Log(p) / d.rate
}

func (d expDist) InvLogCCDF(lp float64) float64 {
	return -lp / d.rate
}

func (d expDist) Truncated(lo, hi float64) Distribution[float64] {
	return truncatedExp{d: d, lo: lo}
}

// truncatedExp is exp shifted by the memoryless property: left-truncating
// an exponential at lo just shifts its zero point, since the
// exponential distribution has no memory of elapsed time.
type truncatedExp struct {
	d  expDist
	lo float64
}

func (t truncatedExp) Rate() float64 { return t.d.rate }
func (t truncatedExp) Rand(rng Rand) float64 {
	return t.lo + t.d.Rand(rng)
}
func (t truncatedExp) PDF(x float64) float64        { return t.d.PDF(x - t.lo) }
func (t truncatedExp) LogPDF(x float64) float64     { return t.d.LogPDF(x - t.lo) }
func (t truncatedExp) CDF(x float64) float64        { return t.d.CDF(x - t.lo) }
func (t truncatedExp) CCDF(x float64) float64       { return t.d.CCDF(x - t.lo) }
func (t truncatedExp) LogCCDF(x float64) float64    { return t.d.LogCCDF(x - t.lo) }
func (t truncatedExp) Quantile(p float64) float64   { return t.lo + t.d.Quantile(p) }
func (t truncatedExp) CQuantile(p float64) float64  { return t.lo + t.d.CQuantile(p) }
func (t truncatedExp) InvLogCCDF(lp float64) float64 { return t.lo + t.d.InvLogCCDF(lp) }
func (t truncatedExp) Truncated(lo, hi float64) Distribution[float64] {
	return truncatedExp{d: t.d, lo: lo}
}

// weibullDist is a Weibull(shape, scale) distribution, used to exercise
// NextReaction's non-memoryless residual-survival bookkeeping (unlike
// expDist, truncating it does not reduce to a simple shift).
type weibullDist struct {
	shape, scale float64
}

func (d weibullDist) Rand(rng Rand) float64 {
	u := rng.Float64()
	return d.Quantile(u)
}
func (d weibullDist) PDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	k, l := d.shape, d.scale
	return (k / l) * math.Pow(x/l, k-1) * math.Exp(-math.Pow(x/l, k))
}
func (d weibullDist) LogPDF(x float64) float64 {
	return math.Log(d.PDF(x))
}
func (d weibullDist) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow(x/d.scale, d.shape))
}
func (d weibullDist) CCDF(x float64) float64 {
	if x < 0 {
		return 1
	}
	return math.Exp(-math.Pow(x/d.scale, d.shape))
}
func (d weibullDist) LogCCDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return -math.Pow(x/d.scale, d.shape)
}
func (d weibullDist) Quantile(p float64) float64 {
	return d.scale * math.Pow(-math.Log(1-p), 1/d.shape)
}
func (d weibullDist) CQuantile(p float64) float64 {
	return d.scale * math.Pow(-math.Log(p), 1/d.shape)
}
func (d weibullDist) InvLogCCDF(lp float64) float64 {
	return d.scale * math.Pow(-lp, 1/d.shape)
}
func (d weibullDist) Truncated(lo, hi float64) Distribution[float64] {
	return weibullTruncated{d: d, lo: lo}
}

type weibullTruncated struct {
	d  weibullDist
	lo float64
}

func (t weibullTruncated) survivalAtLo() float64 { return t.d.CCDF(t.lo) }
func (t weibullTruncated) Rand(rng Rand) float64 {
	s0 := t.survivalAtLo()
	u := rng.Float64()
	return t.d.CQuantile(u * s0)
}
func (t weibullTruncated) PDF(x float64) float64 {
	if x < t.lo {
		return 0
	}
	return t.d.PDF(x) / t.survivalAtLo()
}
func (t weibullTruncated) LogPDF(x float64) float64 {
	return t.d.LogPDF(x) - t.d.LogCCDF(t.lo)
}
func (t weibullTruncated) CDF(x float64) float64 {
	if x < t.lo {
		return 0
	}
	return 1 - t.CCDF(x)
}
func (t weibullTruncated) CCDF(x float64) float64 {
	if x < t.lo {
		return 1
	}
	return t.d.CCDF(x) / t.survivalAtLo()
}
func (t weibullTruncated) LogCCDF(x float64) float64 {
	if x < t.lo {
		return 0
	}
	return t.d.LogCCDF(x) - t.d.LogCCDF(t.lo)
}
func (t weibullTruncated) Quantile(p float64) float64 {
	return t.d.CQuantile((1 - p) * t.survivalAtLo())
}
func (t weibullTruncated) CQuantile(p float64) float64 {
	return t.d.CQuantile(p * t.survivalAtLo())
}
func (t weibullTruncated) InvLogCCDF(lp float64) float64 {
	return t.d.InvLogCCDF(lp + t.d.LogCCDF(t.lo))
}
func (t weibullTruncated) Truncated(lo, hi float64) Distribution[float64] {
	return weibullTruncated{d: t.d, lo: lo}
}

// sequenceRand returns a fixed sequence of draws, then repeats the last
// one, for deterministic unit tests that need to control exactly what a
// sampler draws.
type sequenceRand struct {
	vals []float64
	i    int
}

func (r *sequenceRand) Float64() float64 {
	if r.i >= len(r.vals) {
		return r.vals[len(r.vals)-1]
	}
	v := r.vals[r.i]
	r.i++
	return v
}
