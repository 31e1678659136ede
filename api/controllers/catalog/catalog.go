package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sajpos/counter-backend/api/responses"
	"github.com/sajpos/counter-backend/api/validators"
	internalcatalog "github.com/sajpos/counter-backend/internal/catalog"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/logger"
)

// ListCategories returns the menu categories in display order.
func ListCategories(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		includeInactive := r.URL.Query().Get("includeInactive") == "true"
		categories, err := svc.ListCategories(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ListProducts returns products, optionally narrowed to one category.
func ListProducts(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var filters internalcatalog.ProductFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("categoryId")); raw != "" {
			categoryID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || categoryID <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid categoryId"))
				return
			}
			filters.CategoryID = &categoryID
		}
		filters.IncludeInactive = r.URL.Query().Get("includeInactive") == "true"

		products, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ListModifiers returns every modifier known to the catalog.
func ListModifiers(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		modifiers, err := svc.ListModifiers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, modifiers)
	}
}

// GetProduct returns one product with its attached modifiers.
func GetProduct(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
