package assessment

import "github.com/shopspring/decimal"

// Score fills every derived number on a: item nilai, section totals,
// subtotal, and total score when the caller did not supply one.
func Score(a *Assessment) {
	a.KepribadianTotal = scoreItems(a.Kepribadian)
	a.PrestasiTotal = scoreItems(a.Prestasi)

	a.Subtotal = a.KepribadianTotal.
		Add(a.PrestasiTotal).
		Add(a.Kehadiran.Score).
		Add(a.Indisipliner.Score)

	if a.TotalScore.IsZero() {
		total := a.Subtotal
		for _, p := range a.Penalties {
			total = total.Sub(p)
		}
		a.TotalScore = total
	}
}

func scoreItems(items []ScoreItem) decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		if items[i].Nilai.IsZero() {
			items[i].Nilai = items[i].Score.Mul(items[i].Weight)
		}
		sum = sum.Add(items[i].Nilai)
	}
	return sum
}
