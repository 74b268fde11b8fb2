package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/fantasybakes/internal/domain/model"
	scoring "github.com/okian/fantasybakes/internal/domain/scoring"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalMatchesClosedForm(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rules := scoring.RuleSet{
		Survived:     rng.Float64() * 5,
		TechnicalWin: rng.Float64() * 5,
		StarBaker:    rng.Float64() * 5,
		Handshake:    rng.Float64() * 5,
		SoggyBottom:  -rng.Float64() * 5,
	}

	for i := 0; i < 1000; i++ {
		rec := model.ScoreRecord{
			Survived:         rng.Intn(2) == 1,
			TechnicalWin:     rng.Intn(2) == 1,
			StarBaker:        rng.Intn(2) == 1,
			Handshake:        rng.Intn(2) == 1,
			SoggyBottom:      rng.Intn(2) == 1,
			ManualAdjustment: (rng.Float64() - 0.5) * 20,
		}

		want := rec.ManualAdjustment
		if rec.Survived {
			want += rules.Survived
		}
		if rec.TechnicalWin {
			want += rules.TechnicalWin
		}
		if rec.StarBaker {
			want += rules.StarBaker
		}
		if rec.Handshake {
			want += rules.Handshake
		}
		if rec.SoggyBottom {
			want += rules.SoggyBottom
		}

		got := scoring.ComputeTotal(rec, rules)
		require.Equal(t, want, got, "record %+v", rec)
		require.Equal(t, got, scoring.ComputeTotal(rec, rules), "repeat call must be bit-identical")
	}
}
