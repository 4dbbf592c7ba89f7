package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Sort keys accepted by the facility search. Anything else (including
// the API default "RECOMMENDED") falls back to plain name ordering.
const (
	SortPriceAsc         = "PRICE_ASC"
	SortCoordinatesFirst = "COORDINATES_FIRST"
	SortNameAsc          = "NAME_ASC"
)

// FacilitySearchQuery carries the normalized filter set for one search.
// Code lists are expected to be trimmed, upper-cased and deduplicated by
// the service layer; empty lists mean "no constraint". The tri-state
// Has* flags and price bounds are nil when unconstrained.
type FacilitySearchQuery struct {
	CityID              uuid.UUID
	Query               string
	CapabilityCodes     []string
	FeatureCodes        []string
	EquipmentCategories []string
	SpaceTypes          []string
	HasAddress          *bool
	HasCoordinates      *bool
	PriceMin            *float64
	PriceMax            *float64
}

// predicate is one self-contained WHERE fragment with its bind args.
// The planner composes the final statement from a list of these so each
// filter group stays independently testable instead of being built up by
// ad-hoc string appends.
type predicate struct {
	expr string
	args []any
}

// minPriceExpr computes a facility's cheapest numeric price. CONTACT
// entries are excluded; each entry contributes amount_from when set,
// otherwise amount_to.
const minPriceExpr = `(select min(coalesce(pi.amount_from, pi.amount_to))
		from price_info pi
		where pi.facility_id = f.id and pi.kind <> 'CONTACT')`

func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func cityPredicate(cityID uuid.UUID) predicate {
	return predicate{expr: "f.city_id = ?", args: []any{cityID}}
}

func statusActivePredicate() predicate {
	return predicate{expr: "f.status = 'ACTIVE'"}
}

// textPredicate matches when every whitespace-separated word of the
// query appears (case-insensitively) in the facility name or
// description.
func textPredicate(query string) (predicate, bool) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return predicate{}, false
	}
	parts := make([]string, 0, len(words))
	args := make([]any, 0, len(words))
	for _, w := range words {
		parts = append(parts, "LOWER(CONCAT(f.name, ' ', COALESCE(f.description, ''))) LIKE ?")
		args = append(args, "%"+strings.ToLower(w)+"%")
	}
	return predicate{expr: "(" + strings.Join(parts, " AND ") + ")", args: args}, true
}

// capabilityPredicate requires at least one active capability attachment
// whose type code is in the set (OR within the group).
func capabilityPredicate(codes []string) (predicate, bool) {
	if len(codes) == 0 {
		return predicate{}, false
	}
	expr := `exists (select 1
		from facility_capability fc
		join capability_type ct on ct.id = fc.capability_type_id
		where fc.facility_id = f.id
		  and fc.is_active = 1
		  and ct.code in (` + inPlaceholders(len(codes)) + `))`
	return predicate{expr: expr, args: stringArgs(codes)}, true
}

// featurePredicate requires an attachment for every code in the set.
// This is the one filter group with ALL semantics: the subquery counts
// distinct matched codes and demands the full set size.
func featurePredicate(codes []string) (predicate, bool) {
	if len(codes) == 0 {
		return predicate{}, false
	}
	expr := `exists (select ff.facility_id
		from facility_feature ff
		join feature fe on fe.id = ff.feature_id
		where ff.facility_id = f.id
		  and fe.code in (` + inPlaceholders(len(codes)) + `)
		group by ff.facility_id
		having count(distinct fe.code) = ?)`
	args := append(stringArgs(codes), len(codes))
	return predicate{expr: expr, args: args}, true
}

func equipmentCategoryPredicate(categories []string) (predicate, bool) {
	if len(categories) == 0 {
		return predicate{}, false
	}
	expr := `exists (select 1
		from facility_equipment feq
		join equipment_type et on et.id = feq.equipment_type_id
		where feq.facility_id = f.id
		  and et.category_code in (` + inPlaceholders(len(categories)) + `))`
	return predicate{expr: expr, args: stringArgs(categories)}, true
}

func spaceTypePredicate(codes []string) (predicate, bool) {
	if len(codes) == 0 {
		return predicate{}, false
	}
	expr := `exists (select 1
		from space s
		join space_type st on st.id = s.space_type_id
		where s.facility_id = f.id
		  and st.code in (` + inPlaceholders(len(codes)) + `))`
	return predicate{expr: expr, args: stringArgs(codes)}, true
}

func hasAddressPredicate(want bool) predicate {
	if want {
		return predicate{expr: "f.address_id is not null"}
	}
	return predicate{expr: "f.address_id is null"}
}

// hasCoordinatesPredicate relies on the LEFT JOIN to address: a facility
// without an address has both a.lat and a.lng NULL and therefore never
// satisfies the "true" branch.
func hasCoordinatesPredicate(want bool) predicate {
	if want {
		return predicate{expr: "(a.lat is not null and a.lng is not null)"}
	}
	return predicate{expr: "(a.lat is null or a.lng is null)"}
}

// pricePredicate requires one non-CONTACT price entry whose effective
// range overlaps the requested bounds. Each side is only checked when
// the corresponding bound was supplied.
func pricePredicate(priceMin, priceMax *float64) (predicate, bool) {
	if priceMin == nil && priceMax == nil {
		return predicate{}, false
	}
	clauses := []string{}
	args := []any{}
	if priceMin != nil {
		clauses = append(clauses, "coalesce(pi.amount_to, pi.amount_from) >= ?")
		args = append(args, *priceMin)
	}
	if priceMax != nil {
		clauses = append(clauses, "coalesce(pi.amount_from, pi.amount_to) <= ?")
		args = append(args, *priceMax)
	}
	expr := `exists (select 1
		from price_info pi
		where pi.facility_id = f.id
		  and pi.kind <> 'CONTACT'
		  and ` + strings.Join(clauses, " and ") + `)`
	return predicate{expr: expr, args: args}, true
}

// predicates compiles the query into its full conjunctive predicate
// list. Every returned predicate must hold for a facility to match.
func (q FacilitySearchQuery) predicates() []predicate {
	preds := []predicate{
		cityPredicate(q.CityID),
		statusActivePredicate(),
	}
	if p, ok := textPredicate(q.Query); ok {
		preds = append(preds, p)
	}
	if p, ok := capabilityPredicate(q.CapabilityCodes); ok {
		preds = append(preds, p)
	}
	if p, ok := featurePredicate(q.FeatureCodes); ok {
		preds = append(preds, p)
	}
	if p, ok := equipmentCategoryPredicate(q.EquipmentCategories); ok {
		preds = append(preds, p)
	}
	if p, ok := spaceTypePredicate(q.SpaceTypes); ok {
		preds = append(preds, p)
	}
	if q.HasAddress != nil {
		preds = append(preds, hasAddressPredicate(*q.HasAddress))
	}
	if q.HasCoordinates != nil {
		preds = append(preds, hasCoordinatesPredicate(*q.HasCoordinates))
	}
	if p, ok := pricePredicate(q.PriceMin, q.PriceMax); ok {
		preds = append(preds, p)
	}
	return preds
}

func compilePredicates(preds []predicate) (string, []any) {
	exprs := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		exprs = append(exprs, p.expr)
		args = append(args, p.args...)
	}
	return strings.Join(exprs, "\n  and "), args
}

// orderClause returns the ORDER BY body for a sort key. The secondary
// key is always case-insensitive name ascending. MySQL has no NULLS
// LAST, so PRICE_ASC sorts the "no priced entries" group behind the
// priced one with an IS NULL key first.
func orderClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return minPriceExpr + " is null, " + minPriceExpr + " asc, lower(f.name) asc"
	case SortCoordinatesFirst:
		return "case when a.lat is not null and a.lng is not null then 0 else 1 end asc, lower(f.name) asc"
	default: // NAME_ASC, RECOMMENDED and anything unrecognized
		return "lower(f.name) asc"
	}
}

// FindFacilityIDs returns the ordered page of facility ids matching the
// query. An unknown city simply yields no rows.
func (r *FacilityRepo) FindFacilityIDs(ctx context.Context, q FacilitySearchQuery, sort string, page, pageSize int) ([]uuid.UUID, error) {
	cond, args := compilePredicates(q.predicates())

	sqlText := `select f.id
		from facility f
		left join address a on a.id = f.address_id
		where ` + cond + `
		order by ` + orderClause(sort) + `
		limit ? offset ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, pageSize)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFacilities applies the same predicate set without pagination or
// sorting and counts distinct matches.
func (r *FacilityRepo) CountFacilities(ctx context.Context, q FacilitySearchQuery) (int64, error) {
	cond, args := compilePredicates(q.predicates())

	sqlText := `select count(distinct f.id)
		from facility f
		left join address a on a.id = f.address_id
		where ` + cond

	var total int64
	if err := r.db.QueryRowContext(ctx, sqlText, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func stringArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
