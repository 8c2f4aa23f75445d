// hub75-demo cycles test patterns on a HUB75 panel: solid colors, an
// animated checkerboard and a gradient. Useful for verifying wiring,
// refresh timing and gamma behavior on real hardware.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"hub75/internal/config"
	"hub75/internal/frames"
	"hub75/pkg/gpio"
	"hub75/pkg/hub75"
	"hub75/pkg/memgpio"
)

var (
	configPath  = flag.String("config", "", "panel config file (YAML), defaults to the Adafruit bonnet pinout")
	backend     = flag.String("backend", "cdev", "GPIO backend: cdev, memmap or periph")
	brightness  = flag.Int("brightness", -1, "override configured brightness (0-255)")
	patternWait = flag.Duration("pattern-wait", 2*time.Second, "time per test pattern")
)

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	if *brightness >= 0 && *brightness <= 255 {
		cfg.Brightness = *brightness
	}

	geom, err := cfg.Geometry()
	if err != nil {
		logger.Fatal("bad geometry", zap.Error(err))
	}

	var pins *hub75.Pins
	switch *backend {
	case "cdev":
		chip := gpio.NewChip(cfg.Chip)
		defer chip.Close()
		pins, err = cfg.RequestPins(chip)
	case "memmap":
		var mem *memgpio.Mem
		mem, err = memgpio.Open()
		if err == nil {
			defer mem.Close()
			pins, err = cfg.RequestMemPins(mem)
		}
	case "periph":
		pins, err = cfg.RequestPeriphPins()
	default:
		logger.Fatal("unknown backend", zap.String("backend", *backend))
	}
	if err != nil {
		logger.Fatal("request pins", zap.Error(err))
	}

	disp, err := hub75.NewDisplay(geom, pins, cfg.Options()...)
	if err != nil {
		logger.Fatal("open display", zap.Error(err))
	}
	logger.Info("display ready",
		zap.Int("width", geom.Width()),
		zap.Int("height", geom.Height()),
		zap.Int("color_bits", geom.ColorBits()),
		zap.String("backend", *backend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The refresh goroutine and the drawing loop share the display; the
	// mutex is held for whole refresh passes so a swap never lands
	// inside one.
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		delay := hub75.TimerDelayer{}
		for ctx.Err() == nil {
			mu.Lock()
			err := disp.RenderFrame(ctx, delay)
			mu.Unlock()
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("refresh failed", zap.Error(err))
					cancel()
				}
				return
			}
		}
	}()

	go func() {
		step := 0
		ticker := time.NewTicker(*patternWait)
		defer ticker.Stop()
		for {
			var f *hub75.FrameBuffer
			switch step % 6 {
			case 0:
				f = frames.Solid(geom, hub75.Red)
			case 1:
				f = frames.Solid(geom, hub75.Green)
			case 2:
				f = frames.Solid(geom, hub75.Blue)
			case 3:
				f = frames.Checkerboard(geom, 4, hub75.White, hub75.Black, step)
			case 4:
				f = frames.HGradient(geom, hub75.Black, hub75.White)
			case 5:
				f = frames.HGradient(geom, hub75.Red, hub75.Blue)
			}
			mu.Lock()
			disp.ApplyFrame(f)
			mu.Unlock()
			logger.Info("pattern", zap.Int("step", step%6))
			step++

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-signals:
		logger.Info("shutting down")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
