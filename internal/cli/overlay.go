package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/domlayer"
	"github.com/phanxgames/domlayer/internal/config"
)

// overlay is a scene whose nodes are bound to configured document elements.
type overlay struct {
	scene *domlayer.Scene
	nodes []*domlayer.ElementNode
}

// buildOverlay resolves every configured element through doc and places it
// under the scene root with its configured transform and tweens.
func buildOverlay(cfg *config.Config, doc domlayer.Document, logger *log.Logger) (*overlay, error) {
	scene := domlayer.NewScene()
	scene.SetLogger(logger)
	ov := &overlay{scene: scene}

	for _, ec := range cfg.Elements {
		en, err := domlayer.NewElementNodeByID(ec.Name, doc, ec.ID)
		if err != nil {
			return nil, err
		}
		n := en.Node()
		n.SetPosition(ec.X, ec.Y)
		sx, sy := 1.0, 1.0
		if ec.ScaleX != nil {
			sx = *ec.ScaleX
		}
		if ec.ScaleY != nil {
			sy = *ec.ScaleY
		}
		n.SetScale(sx, sy)
		n.SetRotation(degToRad(ec.Rotation))
		if ec.Alpha != nil {
			n.SetAlpha(*ec.Alpha)
		}
		n.SetVisible(!ec.Hidden)
		scene.Root().AddChild(n)

		for _, tw := range ec.Tweens {
			scene.AddTween(newTween(n, tw))
		}
		logger.Debug("bound element", "id", ec.ID, "node", en, "tweens", len(ec.Tweens))
		ov.nodes = append(ov.nodes, en)
	}
	return ov, nil
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}

// newTween builds the tween group for a validated tween config.
func newTween(n *domlayer.Node, tw config.Tween) *domlayer.TweenGroup {
	fn, ok := domlayer.EaseByName(strings.ToLower(tw.Ease))
	if !ok {
		fn, _ = domlayer.EaseByName("linear")
	}
	d := float32(tw.Duration)
	switch tw.Kind {
	case "position":
		return domlayer.TweenPosition(n, tw.To[0], tw.To[1], d, fn)
	case "scale":
		return domlayer.TweenScale(n, tw.To[0], tw.To[1], d, fn)
	case "rotation":
		return domlayer.TweenRotation(n, degToRad(tw.To[0]), d, fn)
	case "alpha":
		return domlayer.TweenAlpha(n, tw.To[0], d, fn)
	default:
		panic(fmt.Sprintf("cli: unvalidated tween kind %q", tw.Kind))
	}
}

// drive runs frames scene steps at tps. With realtime set, frames are paced
// by a ticker; otherwise they run back to back. Each frame ticks the scene
// and then runs its (canvas-less) draw pass, which syncs the elements.
func (ov *overlay) drive(ctx context.Context, frames, tps int, realtime bool) error {
	dt := 1.0 / float64(tps)

	var tick <-chan time.Time
	if realtime {
		t := time.NewTicker(time.Second / time.Duration(tps))
		defer t.Stop()
		tick = t.C
	}

	for i := 0; i < frames; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := ov.scene.Step(dt); err != nil {
			return err
		}
		ov.scene.Draw(nil)
	}
	return ov.scene.Err()
}
