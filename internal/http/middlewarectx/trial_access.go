package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
	trialservice "github.com/magabrotheeeer/salon-booking/internal/services/trial"
)

// TrialServiceInterface определяет интерфейс для проверки доступа
// по состоянию пробного периода или подписки.
type TrialServiceInterface interface {
	VerifyAccess(ctx context.Context, userUID string, feature models.Feature) error
}

// TrialAccessMiddleware создает middleware для проверки доступа к разделу.
// Истекший доступ дает 403, остальные ошибки проверки — 500.
func TrialAccessMiddleware(log *slog.Logger, trialService TrialServiceInterface, feature models.Feature) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if err := trialService.VerifyAccess(r.Context(), userUID, feature); err != nil {
				if errors.Is(err, trialservice.ErrAccessExpired) {
					log.Info("trial expired, access denied",
						slog.String("user_uid", userUID),
						slog.String("feature", feature.String()))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("trial expired, access denied"))
					return
				}
				log.Error("failed to verify access", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
