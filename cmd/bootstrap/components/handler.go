package components

import (
	"shareit/internal/handler"
	"shareit/internal/handler/api"
	"shareit/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewUserHandler,
		api.NewItemHandler,
		api.NewBookingHandler,
		middleware.NewIdentityMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
