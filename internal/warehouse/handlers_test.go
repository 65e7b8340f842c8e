package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scos-orders/internal/allocation"
	"github.com/noah-isme/scos-orders/internal/geo"
)

type stubLister struct {
	warehouses []allocation.Warehouse
	err        error
}

func (s stubLister) ReadWarehouses(context.Context) ([]allocation.Warehouse, error) {
	return s.warehouses, s.err
}

func TestListReturnsWarehouses(t *testing.T) {
	handler := Handler{Store: stubLister{warehouses: []allocation.Warehouse{
		{ID: "wh1", Name: "Paris", Location: geo.Coordinates{Latitude: 49.009722, Longitude: 2.547778}, Stock: 694},
		{ID: "wh2", Name: "Warsaw", Location: geo.Coordinates{Latitude: 52.165833, Longitude: 20.967222}, Stock: 245},
	}}}

	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/warehouses", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data []warehouseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "Paris", body.Data[0].Name)
	require.Equal(t, 694, body.Data[0].Stock)
}

func TestListEmpty(t *testing.T) {
	handler := Handler{Store: stubLister{}}
	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/warehouses", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"data":[]}`, rr.Body.String())
}

func TestListStoreError(t *testing.T) {
	handler := Handler{Store: stubLister{err: errors.New("db down")}}
	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/warehouses", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
