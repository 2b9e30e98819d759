package product_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdouthematrix/westcairostars/internal/product"
)

func TestAll_CanonicalOrder(t *testing.T) {
	assert.Equal(t, []product.ID{
		product.SecuredLoan,
		product.SecuredCreditCard,
		product.UnsecuredLoan,
		product.UnsecuredCreditCard,
		product.Bancassurance,
	}, product.All())
}

func TestAll_ReturnsCopy(t *testing.T) {
	ids := product.All()
	ids[0] = "mutated"
	assert.Equal(t, product.SecuredLoan, product.All()[0])
}

func TestParse(t *testing.T) {
	id, err := product.Parse("bancassurance")
	require.NoError(t, err)
	assert.Equal(t, product.Bancassurance, id)

	_, err = product.Parse("mortgage")
	assert.ErrorIs(t, err, product.ErrUnknownProduct)
}

func TestScores_TotalIgnoresUnknownKeys(t *testing.T) {
	s := product.Scores{product.SecuredLoan: 3, product.Bancassurance: 4, "legacy": 100}
	assert.Equal(t, 7, s.Total())
}

func TestScores_AnyPositive(t *testing.T) {
	assert.False(t, product.Scores{}.AnyPositive())
	assert.False(t, product.Zero().AnyPositive())
	assert.True(t, product.Scores{product.UnsecuredLoan: 1}.AnyPositive())
}

func TestScores_NonZeroCount(t *testing.T) {
	s := product.Scores{product.SecuredLoan: 2, product.UnsecuredLoan: 0, product.Bancassurance: 1}
	assert.Equal(t, 2, s.NonZeroCount())
}

func TestScores_Add(t *testing.T) {
	s := product.Scores{product.SecuredLoan: 1}
	s.Add(product.Scores{product.SecuredLoan: 2, product.Bancassurance: 5})
	assert.Equal(t, product.Scores{product.SecuredLoan: 3, product.Bancassurance: 5}, s)
}

func TestScores_CloneIsIndependent(t *testing.T) {
	s := product.Scores{product.SecuredLoan: 1}
	c := s.Clone()
	c[product.SecuredLoan] = 9
	assert.Equal(t, 1, s[product.SecuredLoan])
}

func TestScores_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scores  product.Scores
		wantErr error
	}{
		{name: "empty", scores: product.Scores{}},
		{name: "valid", scores: product.Scores{product.SecuredLoan: 0, product.Bancassurance: 7}},
		{name: "unknown product", scores: product.Scores{"mortgage": 1}, wantErr: product.ErrUnknownProduct},
		{name: "negative", scores: product.Scores{product.UnsecuredLoan: -1}, wantErr: product.ErrNegativeScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scores.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
