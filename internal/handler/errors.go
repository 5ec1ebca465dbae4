package handler

import (
	"errors"
	"net/http"

	"github.com/ecotrack/gamification/internal/reqctx"
	"github.com/ecotrack/gamification/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorWriter maps service errors onto the error envelope. Server-side
// failures are logged with the request id before the 500 goes out.
type errorWriter struct {
	log *zap.Logger
}

func newErrorWriter(log *zap.Logger) errorWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return errorWriter{log: log}
}

func (w errorWriter) write(c echo.Context, err error) error {
	var ve *service.ValidationError
	var te *service.TransactionError
	switch {
	case errors.As(err, &ve):
		return badRequest(c, ve.Error())
	case errors.Is(err, service.ErrActorNotFound):
		return respondError(c, http.StatusNotFound, "not_found", "actor not found")
	case errors.Is(err, service.ErrActorExists):
		return respondError(c, http.StatusConflict, "conflict", "actor already exists")
	case errors.Is(err, service.ErrLedgerMismatch):
		w.log.Warn("ledger mismatch", w.fields(c, err)...)
		return respondError(c, http.StatusConflict, "ledger_mismatch", err.Error())
	case errors.As(err, &te):
		w.log.Error("transaction failed", append(w.fields(c, te.Err), zap.String("op", te.Op))...)
		return respondError(c, http.StatusInternalServerError, "transaction_failure", te.Op+" failed")
	default:
		w.log.Error("request failed", w.fields(c, err)...)
		return respondError(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (w errorWriter) fields(c echo.Context, err error) []zap.Field {
	ctx := c.Request().Context()
	return []zap.Field{
		zap.String("rid", reqctx.RID(ctx)),
		zap.String("actor", reqctx.ActorID(ctx)),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	}
}
