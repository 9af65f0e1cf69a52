// Command example demonstrates embedding linkbar with fake collaborators:
// a scripted reachability checker that flips every few seconds, a static
// two-display topology, and the headless logging renderer. Run it and
// watch the overlay lifecycle in the log output; after ten seconds the
// topology changes to exercise the rebuild path.
package main

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/avernet/linkbar"
	"github.com/avernet/linkbar/display"
	"github.com/avernet/linkbar/probe"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	displays := display.NewStaticProvider(
		display.Display{
			ID:      "built-in",
			Name:    "Built-in Display",
			Primary: true,
			Frame:   display.Rect{Width: 1512, Height: 982},
		},
		display.Display{
			ID:    "dell-u27",
			Name:  "Dell U2723QE",
			Frame: display.Rect{X: 1512, Width: 2560, Height: 1440},
		},
	)

	// flip between reachable and unreachable every third reading
	var reads atomic.Int64
	checker := probe.CheckerFunc(func(ctx context.Context) (probe.Signal, error) {
		if reads.Add(1)/3%2 == 0 {
			return probe.FlagReachable, nil
		}
		return 0, nil
	})

	session, err := linkbar.New(
		linkbar.WithTargetHost("demo.invalid"),
		linkbar.WithChecker(checker),
		linkbar.WithProbeInterval(time.Second),
		linkbar.WithSettleDelay(500*time.Millisecond),
		linkbar.WithDisplayProvider(displays),
		linkbar.WithRenderer(display.NewLogRenderer(logger)),
		linkbar.WithLogger(logger),
		linkbar.WithStatusCallback(func(ev linkbar.StatusEvent) {
			logger.Info("transition observed", "status", ev.Status.String())
		}),
	)
	if err != nil {
		logger.Error("create session failed", "error", err)
		os.Exit(1)
	}

	if err := session.Start(); err != nil {
		logger.Error("start failed", "error", err)
		os.Exit(1)
	}

	// mid-session topology change: the external monitor goes away
	time.AfterFunc(10*time.Second, func() {
		displays.SetDisplays(display.Display{
			ID:      "built-in",
			Name:    "Built-in Display",
			Primary: true,
			Frame:   display.Rect{Width: 1512, Height: 982},
		})
	})

	time.Sleep(20 * time.Second)

	snap := session.Status()
	logger.Info("final snapshot",
		"running", snap.Running,
		"status", snap.LastStatus.String(),
		"overlays", snap.OverlayDisplays,
	)

	session.Stop()
}
