// hub75-anim plays an image file on a HUB75 panel. PNG, JPEG and SVG
// files animate between repeats with the chosen transition effect;
// animated GIFs play their own frames.
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
	configPath = flag.String("config", "", "panel config file (YAML)")
	backend    = flag.String("backend", "cdev", "GPIO backend: cdev, memmap or periph")
	effectName = flag.String("effect", "fade", "transition effect: none, slide, fade or wipe")
	duration   = flag.Duration("duration", 3*time.Second, "animation duration per cycle")
	loop       = flag.Bool("loop", true, "restart the animation when it finishes")
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

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
	geom, err := cfg.Geometry()
	if err != nil {
		logger.Fatal("bad geometry", zap.Error(err))
	}

	effect, err := hub75.ParseEffect(*effectName)
	if err != nil {
		logger.Fatal("bad effect", zap.Error(err))
	}

	srcFrames, gifTotal, err := loadAll(flag.Args(), geom)
	if err != nil {
		logger.Fatal("load frames", zap.Error(err))
	}
	animDuration := *duration
	if gifTotal > 0 {
		// A GIF carries its own timing; the effect still applies between
		// its frames.
		animDuration = gifTotal
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

	anim, err := hub75.NewAnimation(srcFrames, effect, animDuration, time.Now())
	if err != nil {
		logger.Fatal("build animation", zap.Error(err))
	}
	logger.Info("playing",
		zap.Int("frames", len(srcFrames)),
		zap.String("effect", effect.String()),
		zap.Duration("duration", animDuration),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				status, frame := anim.Next(now)
				switch status {
				case hub75.AnimationApply:
					mu.Lock()
					disp.ApplyFrame(frame)
					mu.Unlock()
				case hub75.AnimationDone:
					if !*loop {
						cancel()
						return
					}
					anim.Restart(now)
				}
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

// loadAll loads every file argument and concatenates their frames. The
// returned duration is nonzero only when a GIF supplied its own timing.
func loadAll(paths []string, geom hub75.Geometry) ([]*hub75.FrameBuffer, time.Duration, error) {
	var all []*hub75.FrameBuffer
	var total time.Duration
	for _, path := range paths {
		fs, d, err := frames.Load(path, geom)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, fs...)
		total += d
	}
	return all, total, nil
}
