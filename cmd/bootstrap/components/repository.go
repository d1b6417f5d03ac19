package components

import (
	repo_impl "shareit/internal/infra/repository"
	"shareit/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(usecase.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewItemRepository,
			fx.As(new(usecase.ItemRepository)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewCommentRepository,
			fx.As(new(usecase.CommentRepository)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) repo_impl.DBTX {
	return pool
}
