package glicko

import (
	"errors"
	"math"

	"github.com/okian/podium/internal/domain/model"
)

// Public scale <-> Glicko-2 scale conversion.
const (
	scale      = 173.7178
	baseRating = 1500.0
)

var errNotConverged = errors.New("iteration budget exhausted")

// state is a rating on the internal Glicko-2 scale.
type state struct {
	mu    float64
	phi   float64
	sigma float64
}

func toMu(rating float64) float64     { return (rating - baseRating) / scale }
func toPhi(deviation float64) float64 { return deviation / scale }

func (s state) public() model.RatingState {
	return model.RatingState{
		Rating:     s.mu*scale + baseRating,
		Deviation:  s.phi * scale,
		Volatility: s.sigma,
	}
}

func fromPublic(r model.RatingState) state {
	return state{mu: toMu(r.Rating), phi: toPhi(r.Deviation), sigma: r.Volatility}
}

func pow2(x float64) float64 { return x * x }

// g dampens the impact of an opponent with deviation phi.
func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*pow2(phi)/pow2(math.Pi))
}

// expected is the expected score against an opponent at mu with impact gj.
func expected(mu, muj, gj float64) float64 {
	return 1 / (1 + math.Exp(-gj*(mu-muj)))
}

// result is one game of a rating period seen from the rated competitor.
type result struct {
	opponent state
	score    float64
}

// volatility solves step 5 of the Glicko-2 paper with the Illinois method.
// Both the bracketing search and the regula falsi loop share maxIter.
func volatility(sigma, phi, v, delta, tau, eps float64, maxIter int) (float64, error) {
	a := math.Log(pow2(sigma))
	f := func(x float64) float64 {
		ex := math.Exp(x)
		return ex*(pow2(delta)-pow2(phi)-v-ex)/(2*pow2(pow2(phi)+v+ex)) - (x-a)/pow2(tau)
	}

	A := a
	var B float64
	if pow2(delta) > pow2(phi)+v {
		B = math.Log(pow2(delta) - pow2(phi) - v)
	} else {
		k := 1
		for ; f(a-float64(k)*tau) < 0; k++ {
			if k >= maxIter {
				return 0, errNotConverged
			}
		}
		B = a - float64(k)*tau
	}

	fA, fB := f(A), f(B)
	for i := 0; math.Abs(B-A) > eps; i++ {
		if i >= maxIter {
			return 0, errNotConverged
		}
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if math.IsNaN(fC) || math.IsInf(fC, 0) {
			return 0, errNotConverged
		}
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	return math.Exp(A / 2), nil
}

// WinProbability returns the chance that a beats b. Deviations of both sides
// widen the logistic curve, so uncertain ratings pull the result towards 0.5.
func WinProbability(a, b model.RatingState) float64 {
	sa, sb := fromPublic(a), fromPublic(b)
	phi := math.Sqrt(pow2(math.Abs(sa.phi)) + pow2(math.Abs(sb.phi)))
	p := expected(sa.mu, sb.mu, g(phi))
	return math.Max(0, math.Min(1, p))
}
