package main

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/internal/logging"
	"github.com/leterax/bookroom/pkg/book"
	"github.com/leterax/bookroom/pkg/config"
	"github.com/leterax/bookroom/pkg/remote"
	"github.com/leterax/bookroom/pkg/render"
	"github.com/leterax/bookroom/pkg/texture"
)

func runViewer(ctx context.Context, flags *rootFlags) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	bookOpts, err := cfg.BookOptions()
	if err != nil {
		return err
	}
	b, err := book.New(bookOpts)
	if err != nil {
		return fmt.Errorf("build book: %w", err)
	}
	logging.Logger().Info("book ready", "pages", b.PageCount(), "profile", b.Profile().Name)

	r, err := render.NewRenderer(render.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
		Camera: render.CameraOptions{
			Position:  mgl32.Vec3(cfg.Camera.Position),
			Yaw:       cfg.Camera.Yaw,
			Pitch:     cfg.Camera.Pitch,
			FOV:       cfg.Camera.FOV,
			MoveSpeed: cfg.Camera.MoveSpeed,
		},
		ScreenshotDir: cfg.Screenshot.Dir,
	}, b)
	if err != nil {
		return err
	}

	textures := texture.NewManager(cfg.Book.TextureDir, cfg.Textures.Workers, cfg.Textures.MaxSize)
	defer textures.Close()
	b.LoadTextures(textures, cfg.FallbackColor())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if flags.configPath != "" {
		w, err := config.Watch(flags.configPath)
		if err != nil {
			logging.Logger().Warn("config hot reload disabled", "err", err)
		} else {
			defer w.Close()
			go followConfig(ctx, w, r)
		}
	}

	if cfg.Remote.Addr != "" {
		c, err := followPresenter(ctx, cfg, r)
		if err != nil {
			logging.Logger().Warn("remote control disabled", "addr", cfg.Remote.Addr, "err", err)
		} else {
			defer c.Close()
		}
	}

	r.Run()
	return nil
}

// followConfig switches the turn profile whenever the config file changes.
func followConfig(ctx context.Context, w *config.Watcher, r *render.Renderer) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-w.Updates():
			prof, err := cfg.ActiveProfile()
			if err != nil {
				logging.Logger().Warn("reloaded profile rejected", "err", err)
				continue
			}
			r.Post(func(b *book.Book) { b.SetProfile(prof) })
		}
	}
}

// followPresenter connects to a presenter and routes its commands into the
// frame loop. Book state changes are reported back.
func followPresenter(ctx context.Context, cfg *config.Config, r *render.Renderer) (*remote.Client, error) {
	profiles, err := cfg.ResolveProfiles()
	if err != nil {
		return nil, err
	}
	c, err := remote.Dial(cfg.Remote.Addr)
	if err != nil {
		return nil, err
	}
	c.SetName(cfg.Window.Title)

	c.OnIdentified = func(id uint32) {
		logging.Logger().Info("following presenter", "addr", cfg.Remote.Addr, "viewer", id)
		if err := c.SendClientMetadata(); err != nil {
			logging.Logger().Warn("send viewer name", "err", err)
		}
	}
	c.OnPageLeft = func() { r.Post((*book.Book).PageLeft) }
	c.OnPageRight = func() { r.Post((*book.Book).PageRight) }
	c.OnSetPage = func(n int) {
		r.Post(func(b *book.Book) { b.SetTargetPage(n) })
	}
	c.OnSetProfile = func(name string) {
		prof, ok := profiles[name]
		if !ok {
			logging.Logger().Warn("presenter asked for unknown profile", "profile", name)
			return
		}
		r.Post(func(b *book.Book) { b.SetProfile(prof) })
	}

	states := make(chan remote.State, 1)
	r.OnState = func(s render.State) {
		st := remote.State{Cursor: s.Cursor, Target: s.Target, PageCount: s.PageCount}
		select {
		case <-states:
		default:
		}
		states <- st
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case st := <-states:
				if err := c.SendState(st); err != nil {
					logging.Logger().Debug("send viewer state", "err", err)
				}
			}
		}
	}()

	go func() {
		if err := c.ProcessPackets(); err != nil {
			logging.Logger().Warn("presenter connection lost", "err", err)
			return
		}
		logging.Logger().Info("presenter closed the connection")
	}()
	return c, nil
}
