package inspect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v3"
	yaml "gopkg.in/yaml.v3"

	"uicss/config"
	"uicss/inspect"
	"uicss/state"
)

const page = `<?xml version="1.0" encoding="utf-8"?>
<html>
  <head><link rel="stylesheet" href="css/main.css"/></head>
  <body>
    <div id="panel" class="card">
      <button class="primary">Go</button>
    </div>
  </body>
</html>`

const mainCSS = `
.card { width: 100px; color: #000000; transition: width 1s linear }
.card:hover { width: 120px }
`

const (
	cardPath   = "html > body > div#panel.card"
	buttonPath = "html > body > div#panel.card > button.primary"
)

type element struct {
	Path          string            `yaml:"path"`
	Displayed     map[string]string `yaml:"displayed"`
	Transitioning bool              `yaml:"transitioning"`
}

type output struct {
	Markup   string    `yaml:"markup"`
	Elements []element `yaml:"elements"`
}

func (o output) element(t *testing.T, path string) element {
	t.Helper()
	for _, e := range o.Elements {
		if e.Path == path {
			return e
		}
	}
	t.Fatalf("no element %q in output", path)
	return element{}
}

func prepare(t *testing.T) (string, context.Context) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "main.css"), []byte(mainCSS), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.css"), []byte(`.primary { height: 30px }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.xhtml"), []byte(page), 0o644))

	ctx := state.ContextWithEnv(context.Background())
	cfg, err := config.LoadConfiguration("")
	require.NoError(t, err)
	state.EnvFromContext(ctx).Cfg = cfg
	return dir, ctx
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:   "resolve",
		Action: inspect.Resolve,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "css"},
			&cli.StringFlag{Name: "encoding"},
			&cli.StringSliceFlag{Name: "hover"},
			&cli.StringSliceFlag{Name: "focus"},
			&cli.StringSliceFlag{Name: "disable"},
			&cli.StringFlag{Name: "at"},
			&cli.StringFlag{Name: "template"},
		},
	}
}

// resolve runs command writing into a file next to markup and reads result
// back.
func resolve(t *testing.T, ctx context.Context, dir string, args ...string) output {
	t.Helper()
	out := filepath.Join(dir, "styles.yaml")
	args = append(append([]string{"resolve"}, args...), filepath.Join(dir, "page.xhtml"), out)
	require.NoError(t, resolveCommand().Run(ctx, args))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var res output
	require.NoError(t, yaml.Unmarshal(data, &res))
	return res
}

func TestResolve(t *testing.T) {
	dir, ctx := prepare(t)

	res := resolve(t, ctx, dir, "--css", filepath.Join(dir, "extra.css"))
	assert.Equal(t, "page.xhtml", res.Markup)
	require.Len(t, res.Elements, 4)
	assert.Equal(t, cardPath, res.Elements[2].Path)

	assert.Equal(t, "100px", res.element(t, cardPath).Displayed["width"])
	button := res.element(t, buttonPath)
	assert.Equal(t, "30px", button.Displayed["height"])
	assert.Equal(t, "#000000ff", button.Displayed["color"], "color is inherited")
}

func TestResolve_HoverTransition(t *testing.T) {
	dir, ctx := prepare(t)

	card := resolve(t, ctx, dir, "--hover", ".card", "--at", "0.5").element(t, cardPath)
	assert.True(t, card.Transitioning)
	assert.Equal(t, "110px", card.Displayed["width"])

	card = resolve(t, ctx, dir, "--hover", ".card", "--at", "2").element(t, cardPath)
	assert.False(t, card.Transitioning)
	assert.Equal(t, "120px", card.Displayed["width"])
}

func TestResolve_Template(t *testing.T) {
	dir, ctx := prepare(t)
	out := filepath.Join(dir, "widths.txt")

	tmpl := `{{range .Elements}}{{if .Displayed.Width}}{{.Path | upper}}={{.Displayed.Width}}{{end}}{{end}}`
	require.NoError(t, resolveCommand().Run(ctx, []string{"resolve", "--template", tmpl, filepath.Join(dir, "page.xhtml"), out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "HTML > BODY > DIV#PANEL.CARD=100px", string(data))

	assert.Error(t, resolveCommand().Run(ctx, []string{"resolve", "--template", "{{.Nope", filepath.Join(dir, "page.xhtml"), out}))
}

func TestResolve_Errors(t *testing.T) {
	dir, ctx := prepare(t)
	markup := filepath.Join(dir, "page.xhtml")

	assert.Error(t, resolveCommand().Run(ctx, []string{"resolve"}), "markup is required")
	assert.Error(t, resolveCommand().Run(ctx, []string{"resolve", filepath.Join(dir, "none.xhtml")}))
	assert.Error(t, resolveCommand().Run(ctx, []string{"resolve", "--at", "soon", markup}))

	png := filepath.Join(dir, "image.xhtml")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	err := resolveCommand().Run(ctx, []string{"resolve", png})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image/png")
}

func TestDumpConfig(t *testing.T) {
	dir, ctx := prepare(t)
	cmd := &cli.Command{
		Name:   "dumpconfig",
		Action: inspect.DumpConfig,
		Flags:  []cli.Flag{&cli.BoolFlag{Name: "default"}},
	}

	for _, args := range [][]string{
		{"dumpconfig", filepath.Join(dir, "actual.yaml")},
		{"dumpconfig", "--default", filepath.Join(dir, "default.yaml")},
	} {
		require.NoError(t, cmd.Run(ctx, args))
		data, err := os.ReadFile(args[len(args)-1])
		require.NoError(t, err)

		var cfg config.Config
		require.NoError(t, yaml.Unmarshal(data, &cfg), args)
		assert.Equal(t, 1, cfg.Version)
		assert.Equal(t, 60, cfg.Styling.FrameRate)
	}
}
