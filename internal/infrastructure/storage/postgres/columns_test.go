package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"warehub/internal/domain/catalog"
	"warehub/internal/domain/lots"
)

type auditFields struct {
	CreatedBy string `db:"created_by"`
}

type taggedRow struct {
	auditFields
	ID      string `db:"id"`
	Name    string `db:"name"`
	Skipped string `db:"-"`
	Plain   string
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t, []string{"created_by", "id", "name"}, ExtractDBColumns[taggedRow]())
	assert.Equal(t, []string{"id", "sku", "name", "unit"}, ExtractDBColumns[catalog.Product]())
	assert.NotContains(t, ExtractDBColumns[lots.Lot](), "-")
}

func TestExtractDBColumns_ReturnsCopy(t *testing.T) {
	cols := ExtractDBColumns[catalog.Product]()
	cols[0] = "mutated"
	assert.Equal(t, "id", ExtractDBColumns[catalog.Product]()[0])
}

func TestSelectColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"p.id", "COALESCE(p.sku, '') AS sku", "p.name", "COALESCE(p.unit, '') AS unit"},
		SelectColumns[catalog.Product]("p", "sku", "unit"))
	assert.Equal(t, []string{"id", "name"}, SelectColumns[catalog.Unit](""))
}
