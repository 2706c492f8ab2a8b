package inspect

import (
	"context"
	"errors"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"uicss/assets"
	"uicss/state"
	"uicss/style"
	"uicss/styling"
	"uicss/transition"
	"uicss/tree"
)

// Watch keeps styles of markup up to date while stylesheets are edited and
// logs every element which displayed style changed. It runs until
// interrupted.
func Watch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("watch")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no markup has been specified")
	}
	env.Sheets = cmd.StringSlice("css")
	env.CodePage = codePage(cmd.String("encoding"), log)

	var s *session
	observer := styling.ObserverFunc(func(h tree.Handle, displayed style.Style) {
		element := describe(s.sys.Tree(), h)
		data, err := yaml.Marshal(displayed)
		if err != nil {
			log.Warn("Unable to marshal style", zap.String("element", element), zap.Error(err))
			return
		}
		log.Info("Style changed", zap.String("element", element), zap.ByteString("style", data))
	})
	s, err := newSession(env, sessionOptions{
		markup:   src,
		sheets:   env.Sheets,
		encoding: env.CodePage,
		observer: observer,
		clock:    transition.SystemClock(),
	}, log)
	if err != nil {
		return err
	}
	storeInputs(env, s, log)

	w, err := assets.NewWatcher(s.reg, log)
	if err != nil {
		return err
	}
	events := w.Run(ctx)

	rate := max(env.Cfg.Styling.FrameRate, 1)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	s.sys.Tick()
	log.Info("Watching stylesheets, interrupt to stop", zap.Strings("files", s.reg.Paths()))
	for {
		select {
		case <-ctx.Done():
			log.Info("Watch interrupted")
			return nil
		case ev, ok := <-events:
			if !ok {
				if err := ctx.Err(); err != nil {
					return nil
				}
				return errors.New("file watcher stopped unexpectedly")
			}
			s.sys.Notify(ev)
		case <-ticker.C:
			s.sys.Tick()
		}
	}
}
