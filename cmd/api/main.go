package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"hobbyhub/internal/apperror"
	common_api "hobbyhub/internal/common/api"
	"hobbyhub/internal/config"
	"hobbyhub/internal/database"
	"hobbyhub/internal/email"
	"hobbyhub/internal/features/auth"
	"hobbyhub/internal/features/group"
	"hobbyhub/internal/features/meetup"
	"hobbyhub/internal/features/review"
	"hobbyhub/internal/features/user"
	"hobbyhub/internal/geocoder"
	"hobbyhub/internal/logger"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app with the central error handler, CORS
// and the static mount for uploaded photos.
func NewFiberServer(cfg *config.Config, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             int(cfg.MaxFileUpload) * 2,
		ErrorHandler:          apperror.Handler(logger),
	})

	app.Use(middleware.CORSMiddleware())
	app.Static("/uploads", cfg.FileUploadPath)

	return app
}

// AsRoute tags a constructor so Fx collects its result into the "routes"
// group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every collected route.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down on exit.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes creates the unique and geospatial indexes on startup.
func InitializeIndexes(
	lc fx.Lifecycle,
	users user.UserRepository,
	groups group.GroupRepository,
	meetups meetup.MeetupRepository,
	reviews review.ReviewRepository,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				type indexed interface {
					EnsureIndexes(ctx context.Context) error
				}
				for name, repo := range map[string]indexed{
					"users":   users,
					"groups":  groups,
					"meetups": meetups,
					"reviews": reviews,
				} {
					if err := repo.EnsureIndexes(ctx); err != nil {
						logger.Error("ensuring indexes failed",
							zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			user.NewUserRepository,
			group.NewGroupRepository,
			meetup.NewMeetupRepository,
			review.NewReviewRepository,

			// Collaborators
			email.NewMailer,
			func(cfg *config.Config) geocoder.Geocoder { return geocoder.New(cfg) },

			// Cross-feature adapters; each consumer declares the narrow
			// interface it needs and the concrete repository satisfies it.
			func(r user.UserRepository) middleware.UserLoader { return r },
			func(r meetup.MeetupRepository) group.MeetupCascader { return r },
			func(r review.ReviewRepository) group.ReviewCascader { return r },
			func(r group.GroupRepository) meetup.GroupSource { return r },
			func(r group.GroupRepository) review.GroupSource { return r },

			// Services
			auth.NewAuthService,
			user.NewUserService,
			group.NewGroupService,
			meetup.NewMeetupService,
			review.NewReviewService,

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			group.NewGroupController,
			meetup.NewMeetupController,
			review.NewReviewController,

			// Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(group.NewGroupApi),
			AsRoute(meetup.NewMeetupApi),
			AsRoute(review.NewReviewApi),
		),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			StartServer,
		),
	)

	app.Run()
}
