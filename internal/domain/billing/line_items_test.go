package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

func TestSetItemField_CantidadRecalculaTotal(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "1", "500"), item("Lab Fee", "1", "100")}

	got, err := billing.SetItemField(items, 0, billing.FieldQuantity, "3")

	require.NoError(t, err)
	assertDec(t, "3", got[0].Quantity, "Quantity")
	assertDec(t, "1500", got[0].Total, "Total = 3 * 500")
}

func TestSetItemField_PrecioRecalculaTotal(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "2", "500")}

	got, err := billing.SetItemField(items, 0, billing.FieldUnitPrice, "450.50")

	require.NoError(t, err)
	assertDec(t, "901", got[0].Total, "Total = 2 * 450.50")
}

func TestSetItemField_NoNumericoValeCero(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "2", "500")}

	for _, in := range []string{"abc", "", "  ", "12abc"} {
		got, err := billing.SetItemField(items, 0, billing.FieldQuantity, in)
		require.NoError(t, err, "entrada %q no debe rechazarse", in)
		assert.True(t, got[0].Quantity.IsZero(), "entrada %q debe convertirse en 0", in)
		assert.True(t, got[0].Total.IsZero(), "entrada %q: total debe ser 0", in)
	}
}

func TestSetItemField_DescripcionLibre(t *testing.T) {
	items := billing.NewDraftItems()

	got, err := billing.SetItemField(items, 0, billing.FieldDescription, "  Home collection charge ")

	require.NoError(t, err)
	assert.Equal(t, "  Home collection charge ", got[0].Description, "la descripción se guarda tal cual")
}

func TestSetItemField_NoModificaOtrasLineasNiEntrada(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "1", "500"), item("Lab Fee", "1", "100")}

	got, err := billing.SetItemField(items, 1, billing.FieldUnitPrice, "250")

	require.NoError(t, err)
	assert.Equal(t, items[0], got[0], "las demás líneas no cambian")
	assertDec(t, "100", items[1].UnitPrice, "la colección original no se modifica")
	assertDec(t, "250", got[1].Total, "Total")
}

func TestSetItemField_Errores(t *testing.T) {
	items := billing.NewDraftItems()

	_, err := billing.SetItemField(items, 1, billing.FieldQuantity, "2")
	assert.ErrorIs(t, err, domain.ErrItemIndexOutOfRange)

	_, err = billing.SetItemField(items, -1, billing.FieldQuantity, "2")
	assert.ErrorIs(t, err, domain.ErrItemIndexOutOfRange)

	_, err = billing.SetItemField(items, 0, billing.ItemField("total"), "2")
	assert.ErrorIs(t, err, domain.ErrUnknownItemField, "total no es editable")
}

func TestParseItemField(t *testing.T) {
	for in, want := range map[string]billing.ItemField{
		"description": billing.FieldDescription,
		"quantity":    billing.FieldQuantity,
		"unitPrice":   billing.FieldUnitPrice,
		"unit_price":  billing.FieldUnitPrice,
	} {
		got, err := billing.ParseItemField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := billing.ParseItemField("total")
	assert.ErrorIs(t, err, domain.ErrUnknownItemField)
}

func TestParseAmount(t *testing.T) {
	v, err := billing.ParseAmount(" 12.5 ")
	require.NoError(t, err)
	assertDec(t, "12.5", v, "valor")

	v, err = billing.ParseAmount("doce")
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)
	assert.True(t, v.IsZero())
}

func TestAddItem(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "1", "500")}

	got := billing.AddItem(items)

	require.Len(t, got, 2)
	assert.Len(t, items, 1, "la colección original no cambia")
	assert.Equal(t, "", got[1].Description)
	assertDec(t, "1", got[1].Quantity, "Quantity")
	assert.True(t, got[1].UnitPrice.IsZero())
	assert.True(t, got[1].Total.IsZero())
}

func TestRemoveItem(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "1", "500"), item("Lab Fee", "1", "100"), item("Syringe", "1", "50")}

	got, err := billing.RemoveItem(items, 1)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CBC", got[0].Description)
	assert.Equal(t, "Syringe", got[1].Description)
	assert.Len(t, items, 3, "la colección original no cambia")
}

func TestRemoveItem_UltimaLineaRechazada(t *testing.T) {
	items := billing.NewDraftItems()

	got, err := billing.RemoveItem(items, 0)

	assert.ErrorIs(t, err, domain.ErrCannotRemoveLastItem)
	assert.Nil(t, got)
	assert.Len(t, items, 1, "la colección sigue con una línea")
}

func TestRemoveItem_IndiceFueraDeRango(t *testing.T) {
	items := []entity.InvoiceItem{item("CBC", "1", "500"), item("Lab Fee", "1", "100")}

	_, err := billing.RemoveItem(items, 5)

	assert.ErrorIs(t, err, domain.ErrItemIndexOutOfRange)
}

func TestNormalizeItems(t *testing.T) {
	items := []entity.InvoiceItem{{Description: "CBC", Quantity: d("2"), UnitPrice: d("500"), Total: d("1")}}

	got := billing.NormalizeItems(items)

	assertDec(t, "1000", got[0].Total, "Total")
	assertDec(t, "1", items[0].Total, "la entrada no se modifica")
}
