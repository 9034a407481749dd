package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Renal37/go-orderflow/internal/middlewares"
	"github.com/Renal37/go-orderflow/internal/models"
	"github.com/Renal37/go-orderflow/internal/services"
	"github.com/go-chi/chi/v5"
)

// parseID reads the {id} path parameter. Anything that is not a positive integer
// can't match a stored row, so it is answered with 404.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func GetProducts(defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productService := middlewares.GetServiceFromContext[models.ProductService](w, r, middlewares.ProductServiceKey)
		if productService == nil {
			return
		}

		page := parsePageRequest(r, defaultLimit)

		products, count, err := (*productService).GetProducts(r.Context(), page)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error occurred during getting products: %s", err.Error()), http.StatusInternalServerError)
			return
		}

		middlewares.EncodeJSONResponse(w, http.StatusOK, newPage(r, page, count, products))
	}
}

func CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, ok := middlewares.GetParsedJSONData[models.ProductInput](w, r)
	if !ok {
		return
	}

	productService := middlewares.GetServiceFromContext[models.ProductService](w, r, middlewares.ProductServiceKey)
	if productService == nil {
		return
	}

	product, err := (*productService).CreateProduct(r.Context(), input)
	if err != nil {
		writeProductError(w, "creating product", err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusCreated, product)
}

func GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseID(w, r)
	if !ok {
		return
	}

	productService := middlewares.GetServiceFromContext[models.ProductService](w, r, middlewares.ProductServiceKey)
	if productService == nil {
		return
	}

	product, err := (*productService).GetProduct(r.Context(), productID)
	if err != nil {
		writeProductError(w, "getting product", err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, product)
}

func ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseID(w, r)
	if !ok {
		return
	}

	input, ok := middlewares.GetParsedJSONData[models.ProductInput](w, r)
	if !ok {
		return
	}

	productService := middlewares.GetServiceFromContext[models.ProductService](w, r, middlewares.ProductServiceKey)
	if productService == nil {
		return
	}

	product, err := (*productService).ReplaceProduct(r.Context(), productID, input)
	if err != nil {
		writeProductError(w, "replacing product", err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, product)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseID(w, r)
	if !ok {
		return
	}

	productService := middlewares.GetServiceFromContext[models.ProductService](w, r, middlewares.ProductServiceKey)
	if productService == nil {
		return
	}

	if err := (*productService).DeleteProduct(r.Context(), productID); err != nil {
		writeProductError(w, "deleting product", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeProductError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, services.ErrInvalidInput) || errors.Is(err, services.ErrProductNameIsTaken) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if errors.Is(err, services.ErrProductIsNotExist) {
		http.Error(w, "Product does not exist", http.StatusNotFound)
		return
	}

	http.Error(w, fmt.Sprintf("Error occurred during %s: %s", action, err.Error()), http.StatusInternalServerError)
}
