package inspect

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"uicss/config"
	"uicss/state"
)

// writeDestination writes data into file dst or to STDOUT when dst is empty.
func writeDestination(dst string, data []byte) (err error) {
	var out io.Writer = os.Stdout
	if len(dst) > 0 {
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer func() {
			if er := f.Close(); er != nil && err == nil {
				err = fmt.Errorf("unable to close destination file '%s': %w", dst, er)
			}
		}()
		out = f
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write '%s': %w", destName(dst), err)
	}
	return nil
}

func destName(dst string) string {
	if len(dst) == 0 {
		return "STDOUT"
	}
	return dst
}

// DumpConfig outputs either embedded default configuration or the one
// program actually runs with.
func DumpConfig(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	dst := cmd.Args().Get(0)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		err  error
		kind = "actual"
	)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	env.Log.Info("Outputting configuration", zap.String("kind", kind), zap.String("file", destName(dst)))
	return writeDestination(dst, data)
}
