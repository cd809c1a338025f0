package main

import (
	"context"
	"net"
	"net/http"

	"github.com/asume21/codetune/config"
	"github.com/asume21/codetune/engine"
	"github.com/asume21/codetune/enhancer"
	composeHandler "github.com/asume21/codetune/handler/compose"
	genresHandler "github.com/asume21/codetune/handler/genres"
	"github.com/asume21/codetune/handler/health"
	"github.com/asume21/codetune/logger"
	"github.com/asume21/codetune/theory"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

//	@title			Codetune
//	@version		1.0
//	@description	This is the API for codetune, a deterministic code-to-music composition engine

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(NewHTTPServer,
			config.Options,
			logger.Options,
			theory.Options,
			engine.Options,
			enhancer.Options,

			AsRoute(health.NewHealthHandler),
			AsRoute(genresHandler.NewGenresHandler),
			AsRoute(composeHandler.NewComposeHandler),
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	cfg config.Config,
	registry *theory.Registry,
	eng *engine.Engine,
	enh *enhancer.Enhancer,
) *http.Server {
	mux := http.NewServeMux()

	jsonHandler := jsonMiddleware(mux)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: jsonHandler}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infof("Starting HTTP server at %s", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	// Define handlers
	healthHandler := health.NewHealthHandler(log, enh)
	mux.Handle(healthHandler.Pattern(), healthHandler)

	listGenresHandler := genresHandler.NewGenresHandler(log, registry)
	mux.Handle(listGenresHandler.Pattern(), listGenresHandler)

	composeMusicHandler := composeHandler.NewComposeHandler(log, eng, enh)
	mux.Handle(composeMusicHandler.Pattern(), composeMusicHandler)

	return srv
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
