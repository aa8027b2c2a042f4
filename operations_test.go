package dougs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dougs"
	"github.com/dmitrymomot/dougs/internal/fakeapi"
)

func storedOperation() map[string]any {
	return map[string]any{
		"type":        "expense",
		"amount":      json.Number("12.50"),
		"date":        "2024-03-15",
		"wording":     "Papeterie",
		"name":        "",
		"hasVat":      true,
		"vatRate":     json.Number("0.2"),
		"vatAmount":   json.Number("2.08"),
		"totalAmount": json.Number("12.50"),
		"memo":        "old",
		"validated":   false,
		"breakdowns":  []any{map[string]any{"amount": json.Number("12.50"), "categoryId": 7}},
		"attachments": []any{map[string]any{"id": 99}},
		"source":      map[string]any{"bank": "qonto", "synced": true},
	}
}

func TestClient_RegisterExpense(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)

	op, err := client.RegisterExpense(context.Background(), fakeapi.CompanyID, dougs.ExpenseInfos{
		Date:       opDate,
		Amount:     12345,
		CategoryID: 7,
		PartnerID:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, "expense", op.Type)
	assert.Equal(t, 123.45, op.Amount)
	assert.Equal(t, "2024-03-15", op.Date.String())
	assert.False(t, op.Validated)
	assert.Len(t, op.Breakdowns, 2)

	req, ok := srv.LastRequest(http.MethodPost, "/companies/42/operations")
	require.True(t, ok)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, marshal(t, dougs.BuildExpenseOperation(dougs.ExpenseInfos{
		Date:       opDate,
		Amount:     12345,
		CategoryID: 7,
		PartnerID:  3,
	})), string(req.Body))
}

func TestClient_RegisterMileageAllowance(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)

	op, err := client.RegisterMileageAllowance(context.Background(), fakeapi.CompanyID, dougs.MileageInfos{
		Date:     opDate,
		Distance: 42,
		Memo:     "client visit",
	})
	require.NoError(t, err)
	assert.Equal(t, "kilometricIndemnity", op.Type)
	require.NotNil(t, op.Memo)
	assert.Equal(t, "client visit", *op.Memo)

	req, ok := srv.LastRequest(http.MethodPost, "/companies/42/operations")
	require.True(t, ok)

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	breakdown := body["breakdowns"].([]any)[0].(map[string]any)
	assert.NotContains(t, breakdown["associationData"], "carId")
}

func TestClient_RegisterRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)
	ctx := context.Background()

	_, err := client.RegisterMileageAllowance(ctx, fakeapi.CompanyID, dougs.MileageInfos{Date: opDate, Distance: -1})
	assert.ErrorIs(t, err, dougs.ErrValidation)

	_, err = client.RegisterExpense(ctx, fakeapi.CompanyID, dougs.ExpenseInfos{Amount: 100, CategoryID: 7})
	assert.ErrorIs(t, err, dougs.ErrValidation)

	_, err = client.RegisterExpense(ctx, fakeapi.CompanyID, dougs.ExpenseInfos{
		Date:         opDate,
		Amount:       100,
		CategoryID:   7,
		VATExemption: "reduced",
	})
	assert.ErrorIs(t, err, dougs.ErrValidation)

	assert.Empty(t, srv.Requests())
}

func TestClient_ListAndGetOperations(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)
	ctx := context.Background()

	var ids []int64
	for range 3 {
		ids = append(ids, srv.AddOperation(fakeapi.CompanyID, storedOperation()))
	}
	srv.AddOperation(99, storedOperation())

	all, err := client.ListOperations(ctx, fakeapi.CompanyID, dougs.ListOperationsParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := client.ListOperations(ctx, fakeapi.CompanyID, dougs.ListOperationsParams{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	req, _ := srv.LastRequest(http.MethodGet, "/companies/42/operations")
	assert.Equal(t, "1", req.Query.Get("offset"))
	assert.Equal(t, "1", req.Query.Get("limit"))

	op, err := client.GetOperation(ctx, fakeapi.CompanyID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], op.ID)
	assert.Equal(t, 12.5, op.Amount)
	require.NotNil(t, op.VATRate)
	assert.Equal(t, 0.2, *op.VATRate)
}

func TestClient_UpdateOperation(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)
	id := srv.AddOperation(fakeapi.CompanyID, storedOperation())

	op, err := client.UpdateOperation(context.Background(), fakeapi.CompanyID, id, dougs.OperationPatch{
		"memo":   "new",
		"source": map[string]any{"synced": false},
	})
	require.NoError(t, err)
	require.NotNil(t, op.Memo)
	assert.Equal(t, "new", *op.Memo)

	path := "/companies/42/operations/" + jsonInt(id)
	req, ok := srv.LastRequest(http.MethodPost, path)
	require.True(t, ok)

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "new", body["memo"])
	assert.Equal(t, "Papeterie", body["wording"])
	assert.Equal(t, map[string]any{"bank": "qonto", "synced": false}, body["source"])
	assert.Equal(t, []any{map[string]any{"id": float64(99)}}, body["attachments"])
	assert.Contains(t, string(req.Body), `"amount":12.50`)
}

func TestClient_ValidateAndInvalidateOperation(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)
	ctx := context.Background()
	id := srv.AddOperation(fakeapi.CompanyID, storedOperation())

	op, err := client.ValidateOperation(ctx, fakeapi.CompanyID, id)
	require.NoError(t, err)
	assert.True(t, op.Validated)

	stored, _ := srv.Operation(id)
	assert.Equal(t, true, stored["validated"])
	assert.Equal(t, "old", stored["memo"])

	op, err = client.InvalidateOperation(ctx, fakeapi.CompanyID, id)
	require.NoError(t, err)
	assert.False(t, op.Validated)
}

func TestClient_UpdateMissingOperation(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	_, err := newClient(srv).ValidateOperation(context.Background(), fakeapi.CompanyID, 12345)
	require.ErrorIs(t, err, dougs.ErrPermanentHTTP)

	var httpErr *dougs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Zero(t, countRequests(srv, http.MethodPost, "/companies/42/operations/12345"))
}

func TestClient_DeleteOperation(t *testing.T) {
	t.Parallel()

	srv := fakeapi.New(t)
	client := newClient(srv)
	ctx := context.Background()
	id := srv.AddOperation(fakeapi.CompanyID, storedOperation())

	require.NoError(t, client.DeleteOperation(ctx, fakeapi.CompanyID, id))
	_, ok := srv.Operation(id)
	assert.False(t, ok)

	err := client.DeleteOperation(ctx, fakeapi.CompanyID, id)
	assert.ErrorIs(t, err, dougs.ErrPermanentHTTP)
}

func jsonInt(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
