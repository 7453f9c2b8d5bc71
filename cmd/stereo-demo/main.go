// Command stereo-demo builds a container over the demo beans and either
// prints its wiring, runs the book service, or serves the user controller.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/junioryono/stereo"
	"github.com/junioryono/stereo/config"
	"github.com/junioryono/stereo/digbridge"
	_ "github.com/junioryono/stereo/internal/demo/controller"
	"github.com/junioryono/stereo/internal/demo/service"
	"github.com/junioryono/stereo/mvc"
	"github.com/junioryono/stereo/mvc/echomvc"
)

type Options struct {
	Config string `short:"c" long:"config" default:"applicationContext.xml" description:"container descriptor (.xml, .yaml)"`
	Strict bool   `long:"strict" description:"fail on any wiring problem"`
}

type GraphCommand struct {
	Format string `short:"f" long:"format" choice:"text" choice:"dot" default:"text" description:"output format"`
}

type ActionCommand struct{}

type ServeCommand struct {
	Addr        string `short:"a" long:"addr" default:":8080" description:"listen address"`
	ContextPath string `long:"context-path" description:"path prefix stripped before routing"`
	Echo        bool   `long:"echo" description:"serve through echo instead of net/http"`
}

var (
	options Options
	logger  zerolog.Logger
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	conf, err := config.LoadLoggerConfFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = config.NewLogger(conf)

	parser := flags.NewParser(&options, flags.Default)
	parser.AddCommand("graph", "Print the wiring graph", "Print which bean was wired into which.", &GraphCommand{})
	parser.AddCommand("action", "Run the book service", "Look up bookService through dig and run it.", &ActionCommand{})
	parser.AddCommand("serve", "Serve the controllers", "Dispatch HTTP requests to the controller beans.", &ServeCommand{})

	if _, err := parser.Parse(); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func newContainer() (*stereo.Container, error) {
	return stereo.New(options.Config,
		stereo.WithLogger(logger),
		stereo.WithStrict(options.Strict),
	)
}

func (cmd *GraphCommand) Execute([]string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	format := stereo.GraphText
	if cmd.Format == "dot" {
		format = stereo.GraphDOT
	}
	return c.WriteGraph(os.Stdout, format)
}

func (cmd *ActionCommand) Execute([]string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	dc, err := digbridge.New(c)
	if err != nil {
		return err
	}

	return dc.Invoke(func(svc service.BookService) {
		fmt.Println(svc.Action())
	})
}

func (cmd *ServeCommand) Execute([]string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	d, err := mvc.NewDispatcher(c,
		mvc.WithContextPath(cmd.ContextPath),
		mvc.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	for _, route := range d.Routes() {
		logger.Info().Str("path", route.Path).Str("controller", route.Controller).Str("method", route.Method).Msg("[ROUTE]")
	}

	var handler http.Handler = d
	if cmd.Echo {
		e := echo.New()
		e.HideBanner = true
		echomvc.Mount(e, d, echomvc.WithPrefix(cmd.ContextPath), echomvc.WithLogger(logger), echomvc.WithPanicRecovery(true))
		handler = e
	}

	srv := &http.Server{
		Addr:              cmd.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", cmd.Addr).Str("container", c.ID()).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
