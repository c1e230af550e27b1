package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"cakeshop/internal/actuator"
	"cakeshop/internal/app"
	"cakeshop/internal/model"
)

type adminView struct {
	app.Stats
	Orders []model.Order
}

func AdminHandler(shop *app.Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, adminTmpl, adminView{
			Stats:  shop.Stats(),
			Orders: shop.Snapshot(),
		})
	}
}

func WorkerStatusHandler(shop *app.Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, shop.Stats())
	}
}

func PauseMachineHandler(shop *app.Shop) http.HandlerFunc {
	return machineHandler("pause", shop.PauseMachine)
}

func StopMachineHandler(shop *app.Shop) http.HandlerFunc {
	return machineHandler("stop", shop.StopMachine)
}

func machineHandler(op string, fn func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(r.Context())
		switch {
		case err == nil:
			slog.Info("machine command sent", "op", op)
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, actuator.ErrUnsupported):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, actuator.ErrNotConfigured):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			slog.Error("machine command failed", "op", op, "error", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
	}
}
