package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cakeshop/internal/app"
)

func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, indexTmpl, nil)
	}
}

// PlaceOrderHandler accepts the order form and redirects to the thank-you
// page. The order is only queued here; fulfillment happens later.
func PlaceOrderHandler(shop *app.Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		// any flavour string is stored as sent, including an empty one
		skus, ok := r.PostForm["sku"]
		if !ok {
			http.Error(w, "sku is required", http.StatusBadRequest)
			return
		}
		sku := skus[0]
		qty, err := parseQuantity(r.PostForm.Get("qty"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		o := shop.Submit(sku, qty)
		http.Redirect(w, r, fmt.Sprintf("/thanks?oid=%d", o.ID), http.StatusSeeOther)
	}
}

func parseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("qty must be a whole number")
	}
	if qty < 1 {
		return 0, fmt.Errorf("qty must be at least 1")
	}
	return qty, nil
}

func ThanksHandler(shop *app.Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.URL.Query().Get("oid"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		if o, ok := shop.Find(id); ok {
			render(w, http.StatusOK, thanksTmpl, &o)
			return
		}
		render(w, http.StatusOK, thanksTmpl, nil)
	}
}

func ListOrdersHandler(shop *app.Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, shop.Snapshot())
	}
}

func GetOrderHandler(shop *app.Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		o, ok := shop.Find(id)
		if !ok {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Healthy"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("render template", "template", tmpl.Name(), "error", err)
	}
}
