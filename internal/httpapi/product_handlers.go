package httpapi

import (
	"net/http"
	"strings"

	"fitbase.org/internal/fitness"
)

type productRequest struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
	Protein  *float64 `json:"protein"`
	Barcode  string   `json:"barcode"`
	Weight   *int     `json:"weight"`
}

func (r productRequest) toProduct() *fitness.Product {
	return &fitness.Product{
		Name:     r.Name,
		Calories: r.Calories,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Protein:  r.Protein,
		Barcode:  r.Barcode,
		Weight:   r.Weight,
	}
}

// handleProducts serves the food catalog collection. Any authenticated
// account may read and contribute; destructive changes are admin-only.
func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		skip := queryInt(r, "skip", 0)
		take := queryInt(r, "take", defaultPageSize)
		if take > maxPageSize {
			take = maxPageSize
		}
		products, err := a.workouts.ListProducts(r.Context(), skip, take)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	case http.MethodPost:
		var req productRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		product := req.toProduct()
		if err := a.workouts.CreateProduct(r.Context(), product); err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, product)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleProductSearch filters products by name substring and/or exact
// barcode; at least one criterion is required.
func (a *API) handleProductSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	name := r.URL.Query().Get("name")
	barcode := r.URL.Query().Get("barcode")
	products, err := a.workouts.SearchProducts(r.Context(), name, barcode)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleProductScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/products/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		product, err := a.workouts.FindProduct(r.Context(), id)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	case http.MethodPut:
		if _, ok := ensureAdmin(w, r); !ok {
			return
		}
		var req productRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		product := req.toProduct()
		product.ID = id
		if err := a.workouts.UpdateProduct(r.Context(), product); err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	case http.MethodDelete:
		if _, ok := ensureAdmin(w, r); !ok {
			return
		}
		if err := a.workouts.DeleteProduct(r.Context(), id); err != nil {
			handleStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
