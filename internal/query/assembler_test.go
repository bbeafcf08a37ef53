package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muni-dashboard/internal/domain"
)

const testBase = "SELECT b.cusip FROM bonds b\nLEFT JOIN issuers i ON i.id = b.issuer_id"

func TestAssemble_NoPredicates(t *testing.T) {
	q, params := Assemble(DialectPostgres, testBase, nil, "ORDER BY b.cusip")

	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "ORDER BY b.cusip")
	assert.Empty(t, params)
}

func TestAssemble_SinglePredicate(t *testing.T) {
	preds := BuildPredicates(domain.FilterSelection{"state": {"CA"}}, testDims)

	q, params := Assemble(DialectPostgres, testBase, preds, "ORDER BY b.cusip")

	assert.Contains(t, q, "WHERE i.state = ANY(@f_state)")
	assert.Equal(t, map[string]any{"f_state": []string{"CA"}}, params)
	// Suffix follows the restriction clause.
	assert.Greater(t, strings.Index(q, "ORDER BY"), strings.Index(q, "WHERE"))
}

func TestAssemble_ManyPredicatesAreConjunctive(t *testing.T) {
	sel := domain.FilterSelection{
		"state":   {"CA", "NY"},
		"type":    {"GO"},
		"purpose": {"education", "transport"},
	}
	preds := BuildPredicates(sel, testDims)

	q, params := Assemble(DialectPostgres, testBase, preds, "")

	assert.Equal(t, 2, strings.Count(q, "AND "))
	assert.Contains(t, q, "i.state = ANY(@f_state)")
	assert.Contains(t, q, "b.type = ANY(@f_type)")
	assert.Contains(t, q, "bp.category = ANY(@f_purpose)")
	assert.Len(t, params, 3)
}

func TestAssemble_ClickHouseDialect(t *testing.T) {
	preds := BuildPredicates(domain.FilterSelection{"state": {"CA"}}, testDims)

	q, _ := Assemble(DialectClickHouse, testBase, preds, "")

	assert.Contains(t, q, "WHERE i.state IN (@f_state)")
	assert.NotContains(t, q, "ANY(")
}

// Query structure must be independent of the selected values: an
// adversarial value changes only the bound parameters, never the text.
func TestAssemble_InjectionSafe(t *testing.T) {
	adversarial := `CA'; DROP TABLE bonds; --`

	benignQ, benignParams := Assemble(DialectPostgres,
		testBase, BuildPredicates(domain.FilterSelection{"state": {"CA"}}, testDims), "")
	hostileQ, hostileParams := Assemble(DialectPostgres,
		testBase, BuildPredicates(domain.FilterSelection{"state": {adversarial}}, testDims), "")

	assert.Equal(t, benignQ, hostileQ)
	assert.NotContains(t, hostileQ, "DROP TABLE")

	require.Contains(t, hostileParams, "f_state")
	assert.Equal(t, []string{adversarial}, hostileParams["f_state"])
	assert.Equal(t, []string{"CA"}, benignParams["f_state"])
}
