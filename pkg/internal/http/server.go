package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	pkg "github.com/snapit-app/server/pkg/internal"
	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/http/api"
)

type App struct {
	app *fiber.App
	cfg *conf.Config
}

func NewServer(cfg *conf.Config) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Snapit",
		AppName:               "Snapit v" + pkg.AppVersion,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             50 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigin,
		AllowCredentials: true,
		AllowHeaders:     strings.Join([]string{"Origin", "Content-Type", "Accept", "Authorization"}, ","),
	}))

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("method", c.Method()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Msg(c.Path())
		return err
	})

	api.MapAPIs(app, cfg)

	return &App{app: app, cfg: cfg}
}

func (v *App) Listen() {
	if err := v.app.Listen(v.cfg.Bind); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting http server.")
	}
}
