package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }
func f64Ptr(v float64) *float64 { return &v }

func TestInPlaceholders(t *testing.T) {
	assert.Equal(t, "?", inPlaceholders(1))
	assert.Equal(t, "?,?,?", inPlaceholders(3))
	assert.Equal(t, "", inPlaceholders(0))
}

func TestTextPredicate(t *testing.T) {
	p, ok := textPredicate("Jazz  Hall")
	require.True(t, ok)
	assert.Equal(t, 2, strings.Count(p.expr, "LIKE ?"))
	assert.Equal(t, []any{"%jazz%", "%hall%"}, p.args)

	_, ok = textPredicate("   ")
	assert.False(t, ok)
}

func TestCapabilityPredicateIsAnyOf(t *testing.T) {
	p, ok := capabilityPredicate([]string{"EVENTS", "SPORTS"})
	require.True(t, ok)
	assert.Contains(t, p.expr, "ct.code in (?,?)")
	assert.Contains(t, p.expr, "fc.is_active = 1")
	assert.Equal(t, []any{"EVENTS", "SPORTS"}, p.args)

	_, ok = capabilityPredicate(nil)
	assert.False(t, ok)
}

func TestFeaturePredicateRequiresAllCodes(t *testing.T) {
	p, ok := featurePredicate([]string{"WIFI", "PARKING", "STAGE"})
	require.True(t, ok)
	assert.Contains(t, p.expr, "having count(distinct fe.code) = ?")
	// Three code args plus the full set size.
	assert.Equal(t, []any{"WIFI", "PARKING", "STAGE", 3}, p.args)
}

func TestHasAddressPredicate(t *testing.T) {
	assert.Equal(t, "f.address_id is not null", hasAddressPredicate(true).expr)
	assert.Equal(t, "f.address_id is null", hasAddressPredicate(false).expr)
}

func TestHasCoordinatesPredicate(t *testing.T) {
	assert.Equal(t, "(a.lat is not null and a.lng is not null)", hasCoordinatesPredicate(true).expr)
	assert.Equal(t, "(a.lat is null or a.lng is null)", hasCoordinatesPredicate(false).expr)
}

func TestPricePredicateOverlap(t *testing.T) {
	p, ok := pricePredicate(f64Ptr(100), f64Ptr(500))
	require.True(t, ok)
	assert.Contains(t, p.expr, "pi.kind <> 'CONTACT'")
	assert.Contains(t, p.expr, "coalesce(pi.amount_to, pi.amount_from) >= ?")
	assert.Contains(t, p.expr, "coalesce(pi.amount_from, pi.amount_to) <= ?")
	assert.Equal(t, []any{100.0, 500.0}, p.args)
}

func TestPricePredicateSingleBound(t *testing.T) {
	p, ok := pricePredicate(nil, f64Ptr(250))
	require.True(t, ok)
	assert.NotContains(t, p.expr, ">= ?")
	assert.Equal(t, []any{250.0}, p.args)

	_, ok = pricePredicate(nil, nil)
	assert.False(t, ok)
}

func TestPredicatesAlwaysScopeCityAndStatus(t *testing.T) {
	q := FacilitySearchQuery{CityID: uuid.New()}
	preds := q.predicates()
	require.Len(t, preds, 2)
	assert.Equal(t, "f.city_id = ?", preds[0].expr)
	assert.Equal(t, "f.status = 'ACTIVE'", preds[1].expr)
}

func TestPredicatesFullQuery(t *testing.T) {
	q := FacilitySearchQuery{
		CityID:              uuid.New(),
		Query:               "loft",
		CapabilityCodes:     []string{"EVENTS"},
		FeatureCodes:        []string{"WIFI"},
		EquipmentCategories: []string{"AUDIO"},
		SpaceTypes:          []string{"HALL"},
		HasAddress:          boolPtr(true),
		HasCoordinates:      boolPtr(true),
		PriceMin:            f64Ptr(10),
	}
	preds := q.predicates()
	assert.Len(t, preds, 10)

	cond, args := compilePredicates(preds)
	assert.Equal(t, 9, strings.Count(cond, "\n  and "))
	// city, text word, capability, feature code + count, equipment
	// category, space type, price bound.
	assert.Len(t, args, 8)
}

func TestCompilePredicatesKeepsArgOrder(t *testing.T) {
	preds := []predicate{
		{expr: "a = ?", args: []any{1}},
		{expr: "b = ?", args: []any{2}},
	}
	cond, args := compilePredicates(preds)
	assert.Equal(t, "a = ?\n  and b = ?", cond)
	assert.Equal(t, []any{1, 2}, args)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "lower(f.name) asc", orderClause(SortNameAsc))
	assert.Equal(t, "lower(f.name) asc", orderClause("RECOMMENDED"))
	assert.Equal(t, "lower(f.name) asc", orderClause(""))

	priced := orderClause(SortPriceAsc)
	assert.Contains(t, priced, "is null")
	assert.True(t, strings.HasSuffix(priced, "lower(f.name) asc"))

	coords := orderClause(SortCoordinatesFirst)
	assert.Contains(t, coords, "case when a.lat is not null and a.lng is not null then 0 else 1 end")
	assert.True(t, strings.HasSuffix(coords, "lower(f.name) asc"))
}
