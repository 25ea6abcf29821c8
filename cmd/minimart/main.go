package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/minimart-io/minimart/config"
	"github.com/minimart-io/minimart/internal/adminweb"
	"github.com/minimart-io/minimart/internal/app"
	"github.com/minimart-io/minimart/internal/order"
	"github.com/minimart-io/minimart/internal/product"
	"github.com/minimart-io/minimart/internal/webserver"
)

var (
	configFile = flag.String("c", "minimart.yml", "config file")
	initDb     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalln(err)
	}
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ws := webserver.New(cfg)
	handler := adminweb.NewHandler(
		application.DB(),
		product.NewService(application.DB()),
		order.NewService(application.DB()),
		application.ImageStore(),
	)
	handler.Register(ws.Echo())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ws.Start(ctx); err != nil {
		zap.L().Fatal("web server failed", zap.Error(err))
	}
}
