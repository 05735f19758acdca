package term

import (
	"context"
	"log"
	"time"

	"snake-arcade/ai"
	"snake-arcade/game"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const frameInterval = 16 * time.Millisecond

// Options wires the optional collaborators of a terminal session
type Options struct {
	Driver    *ai.Driver
	Autopilot string
	Muted     bool
}

// Run plays g in the terminal until the player quits or ctx is cancelled.
// Input is read on its own goroutine and merged with a frame ticker.
func Run(ctx context.Context, g *game.Game, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()
	screen.HideCursor()

	audio := NewAudio(opts.Muted)
	if err := audio.Initialize(); err != nil {
		log.Printf("Audio disabled: %v", err)
	}
	defer audio.Close()
	g.Subscribe(audio)

	return loop(ctx, screen, g, audio, opts)
}

func loop(ctx context.Context, screen tcell.Screen, g *game.Game, audio *Audio, opts Options) error {
	renderer := NewRenderer(screen)

	eventChan := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				e, ok := Translate(ev)
				if !ok {
					continue
				}
				if e.Quit {
					return nil
				}
				handle(g, audio, e)
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if opts.Driver != nil {
				opts.Driver.Steer(g)
			}
			g.Frame(time.Since(start))
			renderer.Draw(g.Snapshot(), View{Muted: audio.Muted(), Autopilot: opts.Autopilot})
		}
	}
}

func handle(g *game.Game, audio *Audio, e Event) {
	switch {
	case e.ToggleMute:
		audio.ToggleMute()
	case e.SetDifficulty:
		g.SetDifficulty(e.Difficulty)
	default:
		g.Apply(e.Cmd)
	}
}
