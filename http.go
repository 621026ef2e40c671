package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// NewErrorHandler returns the error handler rendering every failure as
// {"message": ...}. Storage failures only expose the store error text
// when exposeStorageErrors is set.
func NewErrorHandler(logger Logger, exposeStorageErrors bool) router.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c router.Context, err error) error {
		richErr, ok := AsError(err)
		if !ok {
			logger.Error("unhandled error", "path", c.Path(), "method", c.Method(), "error", err)
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, storageFailureMessage).
				WithTextCode(TextCodeStorageFailure).
				WithCode(goerrors.CodeInternal)
		}

		message := richErr.Message

		switch richErr.Category {
		case goerrors.CategoryInternal:
			logger.Error("storage failure",
				"path", c.Path(),
				"method", c.Method(),
				"text_code", richErr.TextCode,
				"error", richErr.Source,
			)
			if exposeStorageErrors && richErr.Source != nil {
				message = richErr.Source.Error()
			}
		case goerrors.CategoryAuth, goerrors.CategoryAuthz:
			logger.Debug("request rejected",
				"path", c.Path(),
				"text_code", richErr.TextCode,
				"error", richErr.Source,
			)
		case goerrors.CategoryBadInput, goerrors.CategoryValidation:
			logger.Debug("request invalid",
				"path", c.Path(),
				"text_code", richErr.TextCode,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		}

		code := richErr.Code
		if code == 0 {
			code = http.StatusInternalServerError
		}

		return c.JSON(code, map[string]string{"message": message})
	}
}

// ErrorMiddleware renders errors returned further down the chain with handler
func ErrorMiddleware(handler router.ErrorHandler) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if err := next(c); err != nil {
				return handler(c, err)
			}
			return nil
		}
	}
}
