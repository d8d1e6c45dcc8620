package pipeline

import (
	"testing"

	"formatech/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func TestQualifyExample(t *testing.T) {
	q, err := Qualify(QualificationInput{
		BudgetIdentified:        4,
		DecisionMakerIdentified: 5,
		Timing:                  "moins_3_mois",
		RealNeedExpressed:       4,
		CompanySize:             "eti",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, q.TimingScore)
	assert.Equal(t, 4, q.CompanySizeScore)
	assert.Equal(t, 22, q.TotalScore)
}

func TestQualifyTotalAlwaysInRange(t *testing.T) {
	timings := []string{"moins_3_mois", "3_6_mois", "plus_6_mois", "flou", "unknown", ""}
	sizes := []string{"ge", "eti", "pme", "tpe", "unknown", ""}

	for b := 1; b <= 5; b++ {
		for dm := 1; dm <= 5; dm++ {
			for n := 1; n <= 5; n++ {
				for _, tm := range timings {
					for _, sz := range sizes {
						q, err := Qualify(QualificationInput{
							BudgetIdentified:        b,
							DecisionMakerIdentified: dm,
							Timing:                  tm,
							RealNeedExpressed:       n,
							CompanySize:             sz,
						})
						require.NoError(t, err)
						assert.Equal(t, b+dm+n+q.TimingScore+q.CompanySizeScore, q.TotalScore)
						assert.GreaterOrEqual(t, q.TotalScore, 5)
						assert.LessOrEqual(t, q.TotalScore, 25)
					}
				}
			}
		}
	}
}

func TestQualifyRejectsOutOfRangeInputs(t *testing.T) {
	_, err := Qualify(QualificationInput{BudgetIdentified: 0, DecisionMakerIdentified: 3, RealNeedExpressed: 3})
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = Qualify(QualificationInput{BudgetIdentified: 3, DecisionMakerIdentified: 6, RealNeedExpressed: 3})
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestLookupDefaults(t *testing.T) {
	assert.Equal(t, 4, TimingScore("3_6_mois"))
	assert.Equal(t, 2, TimingScore("plus_6_mois"))
	assert.Equal(t, 1, TimingScore("never"))
	assert.Equal(t, 5, CompanySizeScore("ge"))
	assert.Equal(t, 3, CompanySizeScore("pme"))
	assert.Equal(t, 2, CompanySizeScore("?"))
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 5.0, DiscountPercent(i64(3500), i64(3325)))
	assert.Equal(t, 0.0, DiscountPercent(i64(3500), i64(3500)))
	assert.Equal(t, 0.0, DiscountPercent(i64(0), i64(100)))
	assert.Equal(t, 0.0, DiscountPercent(nil, i64(100)))
	assert.Equal(t, 0.0, DiscountPercent(i64(100), nil))
	assert.Equal(t, 33.3, DiscountPercent(i64(3000), i64(2000)))
}

func TestDiscountIncreasesAsRevisedDecreases(t *testing.T) {
	proposed := i64(4999)
	prev := DiscountPercent(proposed, i64(4999))
	for revised := int64(4998); revised >= 0; revised -= 37 {
		cur := DiscountPercent(proposed, i64(revised))
		assert.GreaterOrEqual(t, cur, prev, "revised=%d", revised)
		prev = cur
	}
}

func TestCurrentAmountPrecedence(t *testing.T) {
	d := &domain.Deal{Stage: domain.StageProposal}
	assert.Equal(t, int64(0), CurrentAmount(d))

	d.Proposal.Amount = i64(3500)
	assert.Equal(t, int64(3500), CurrentAmount(d))

	d.Negotiation.RevisedAmount = i64(3325)
	assert.Equal(t, int64(3325), CurrentAmount(d))

	d.Won.FinalAmount = i64(3000)
	assert.Equal(t, int64(3325), CurrentAmount(d), "final amount only counts once won")

	d.Stage = domain.StageWon
	assert.Equal(t, int64(3000), CurrentAmount(d))
}
