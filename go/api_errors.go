package shopserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	orderapp "github.com/Apurer/go-gin-shop-server/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	userapp "github.com/Apurer/go-gin-shop-server/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-shop-server/internal/shared/errors"
)

// responder maps service errors to problem details. Order matters: stock
// inconsistency is part of the rejection table but is a server fault.
var responder = apierrors.NewResponder("",
	mapStockInconsistency,
	mapIdempotencyConflict,
	mapRejection,
	mapInvalidInput,
	mapNotFound,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func mapStockInconsistency(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, catalogdomain.ErrStockInconsistency) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrInternal.WithDetail(err.Error()).WithCode("StockInconsistency"), true
}

func mapIdempotencyConflict(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, orderports.ErrIdempotencyConflict) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrConflict.WithDetail(err.Error()), true
}

func mapRejection(err error) (apierrors.ProblemDetail, bool) {
	code, ok := orderapp.ErrorCode(err)
	if !ok {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrBadRequest.WithDetail(err.Error()).WithCode(code), true
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) ||
		errors.Is(err, orderapp.ErrInvalidInput) ||
		errors.Is(err, userapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, userports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
