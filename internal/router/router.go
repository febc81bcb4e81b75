package router

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"rentify/internal/auth"
	"rentify/internal/config"
	apperrors "rentify/internal/errors"
	"rentify/internal/handler"
	mw "rentify/internal/middleware"
	"rentify/internal/model"
	"rentify/internal/repository"
)

// storeTimeout bounds each request including its store round-trips.
const storeTimeout = 10 * time.Second

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	jwtService *auth.JWTService,
	accounts repository.AccountRepository,
	authHandler *handler.AuthHandler,
	agencyHandler *handler.AgencyHandler,
	bookingHandler *handler.BookingHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.ContextTimeout(storeTimeout))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = newHTTPErrorHandler(log, cfg.IsProduction())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	session := []echo.MiddlewareFunc{mw.Session(jwtService), mw.LoadAccount(accounts)}
	admin := append(append([]echo.MiddlewareFunc{}, session...), mw.RequireRoles(model.RoleAdmin))

	// Auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/logout", authHandler.Logout, session...)
	api.GET("/auth/me", authHandler.Me, session...)
	api.PUT("/auth/password", authHandler.ChangePassword, session...)

	// Agency routes
	api.GET("/agencies", agencyHandler.List)
	api.POST("/agencies", agencyHandler.Create, admin...)
	api.GET("/agencies/:id", agencyHandler.Get)
	api.PUT("/agencies/:id", agencyHandler.Update, admin...)
	api.DELETE("/agencies/:id", agencyHandler.Delete, admin...)

	// Booking routes, nested and top-level
	api.GET("/agencies/:id/bookings", bookingHandler.List, session...)
	api.POST("/agencies/:id/bookings", bookingHandler.Create, session...)
	api.GET("/bookings", bookingHandler.List, session...)
	api.GET("/bookings/:id", bookingHandler.Get, session...)
	api.PUT("/bookings/:id", bookingHandler.Update, session...)
	api.DELETE("/bookings/:id", bookingHandler.Delete, session...)
}

// newHTTPErrorHandler renders every failure as the {success, message}
// envelope. Unexpected errors are logged and, in production, never leak
// internals to the client.
func newHTTPErrorHandler(log *zap.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var appErr *apperrors.Error
		var httpErr *echo.HTTPError
		switch {
		case stderrors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
		case stderrors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		default:
			log.Error("unhandled request error",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
			if !production {
				message = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"success": false, "message": message})
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
