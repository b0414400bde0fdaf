package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosom/submitmyurl/models"
)

func TestPlanCatalog(t *testing.T) {
	catalog := models.PlanCatalog()
	require.Len(t, catalog, 4)

	prices := make(map[models.Plan]int)
	for _, p := range catalog {
		prices[p.ID] = p.Price
	}

	assert.Equal(t, 0, prices[models.PlanFree])
	assert.Equal(t, 99, prices[models.PlanBasic])
	assert.Equal(t, 199, prices[models.PlanPro])
	assert.Equal(t, 499, prices[models.PlanBusiness])
}

func TestPlanPaid(t *testing.T) {
	assert.False(t, models.PlanFree.Paid())
	assert.True(t, models.PlanBasic.Paid())
	assert.True(t, models.PlanPro.Paid())
	assert.True(t, models.PlanBusiness.Paid())
}

func TestValidators(t *testing.T) {
	assert.True(t, models.PlanPro.Valid())
	assert.False(t, models.Plan("enterprise").Valid())

	assert.True(t, models.StatusRejected.Valid())
	assert.False(t, models.Status("archived").Valid())

	for _, c := range models.Categories {
		assert.True(t, c.Valid())
	}

	assert.False(t, models.Category("unknown").Valid())
}
