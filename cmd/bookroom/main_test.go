package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/bookroom/pkg/config"
	"github.com/leterax/bookroom/pkg/remote"
)

type recordingPresenter struct {
	calls   []string
	viewers []remote.Viewer
}

func (p *recordingPresenter) PageLeft() error  { p.calls = append(p.calls, "left"); return nil }
func (p *recordingPresenter) PageRight() error { p.calls = append(p.calls, "right"); return nil }

func (p *recordingPresenter) SetPage(n int) error {
	p.calls = append(p.calls, "page "+strings.Repeat("|", n))
	return nil
}

func (p *recordingPresenter) SetProfile(name string) error {
	p.calls = append(p.calls, "profile "+name)
	return nil
}

func (p *recordingPresenter) Viewers() []remote.Viewer { return p.viewers }

func TestPresentLoop(t *testing.T) {
	p := &recordingPresenter{}
	in := strings.NewReader("right\n\nR\nleft\npage 3\nprofile curl\nbogus\npage x\nquit\nright\n")
	var out bytes.Buffer

	require.NoError(t, presentLoop(in, &out, p))
	assert.Equal(t, []string{"right", "right", "left", "page |||", "profile curl"}, p.calls)
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	assert.Contains(t, out.String(), `page "x"`)
}

func TestPresentLoopEndsAtEOF(t *testing.T) {
	p := &recordingPresenter{}
	require.NoError(t, presentLoop(strings.NewReader("left"), &bytes.Buffer{}, p))
	assert.Equal(t, []string{"left"}, p.calls)
}

func TestListViewers(t *testing.T) {
	p := &recordingPresenter{}
	var out bytes.Buffer
	require.NoError(t, execute("list", &out, p))
	assert.Equal(t, "no viewers\n", out.String())

	p.viewers = []remote.Viewer{{ID: 1, Name: "projector", State: remote.State{Cursor: 2, Target: 2, PageCount: 10}}}
	out.Reset()
	require.NoError(t, execute("ls", &out, p))
	assert.Contains(t, out.String(), "projector")
	assert.Contains(t, out.String(), "2/10")
}

func TestUsageErrors(t *testing.T) {
	p := &recordingPresenter{}
	assert.Error(t, execute("page", &bytes.Buffer{}, p))
	assert.Error(t, execute("profile", &bytes.Buffer{}, p))
	assert.ErrorIs(t, execute("q", &bytes.Buffer{}, p), errQuit)
	assert.Empty(t, p.calls)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookroom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644))

	f := &rootFlags{configPath: path, profile: "curl", remoteAddr: "10.0.0.2"}
	cfg, err := f.load()
	require.NoError(t, err)
	assert.Equal(t, "curl", cfg.Book.Profile)
	assert.Equal(t, "10.0.0.2", cfg.Remote.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = (&rootFlags{profile: "nope"}).load()
	assert.ErrorIs(t, err, config.ErrUnknownProfile)
}

func TestProfilesCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"profiles", "--profile", "curl"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "baseline "))
	assert.True(t, strings.HasPrefix(lines[2], "curl *"))
}

func TestConfigCommandRoundTrips(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
